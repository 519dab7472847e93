package dummydb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.students}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = primitive.NewObjectID()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id primitive.ObjectID) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Email == email {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) CreateProfile(_ context.Context, prof student.Profile) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prof.ID = primitive.NewObjectID()
	repo.db.profiles[prof.StudentID] = &prof
	return prof, nil
}

func (repo *studentRepository) GetProfileByStudentID(_ context.Context, studentID primitive.ObjectID) (student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.profiles[studentID]; ok {
		return *prof, nil
	}
	return student.Profile{}, student.ErrProfileNotFound
}

func (repo *studentRepository) UpdateProfile(_ context.Context, prof student.Profile) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.profiles[prof.StudentID]; !ok {
		return student.Profile{}, student.ErrProfileNotFound
	}
	repo.db.profiles[prof.StudentID] = &prof
	return prof, nil
}
