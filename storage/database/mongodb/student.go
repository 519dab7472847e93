package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anvesha/backend/core/student"
	"github.com/anvesha/backend/storage/database"
)

type studentRepository struct {
	students *mongo.Collection
	profiles *mongo.Collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepository{
		students: db.Collection(database.ColStudents),
		profiles: db.Collection(database.ColProfiles),
	}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.students.InsertOne(ctx, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	std.ID = res.InsertedID.(primitive.ObjectID)
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id primitive.ObjectID) (student.Student, error) {
	var std student.Student
	err := repo.students.FindOne(ctx, bson.M{"_id": id}).Decode(&std)
	if err == mongo.ErrNoDocuments {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by id")
	}
	return std, nil
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	var std student.Student
	err := repo.students.FindOne(ctx, bson.M{"email": email}).Decode(&std)
	if err == mongo.ErrNoDocuments {
		return student.Student{}, student.ErrNotFound
	}
	if err != nil {
		return student.Student{}, errors.Wrap(err, "finding student by email")
	}
	return std, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.students.ReplaceOne(ctx, bson.M{"_id": std.ID}, std)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	if res.MatchedCount == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return std, nil
}

func (repo *studentRepository) CreateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	res, err := repo.profiles.InsertOne(ctx, prof)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "inserting profile")
	}
	prof.ID = res.InsertedID.(primitive.ObjectID)
	return prof, nil
}

func (repo *studentRepository) GetProfileByStudentID(ctx context.Context, studentID primitive.ObjectID) (student.Profile, error) {
	var prof student.Profile
	err := repo.profiles.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&prof)
	if err == mongo.ErrNoDocuments {
		return student.Profile{}, student.ErrProfileNotFound
	}
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "finding profile by studentId")
	}
	return prof, nil
}

func (repo *studentRepository) UpdateProfile(ctx context.Context, prof student.Profile) (student.Profile, error) {
	res, err := repo.profiles.ReplaceOne(ctx, bson.M{"studentId": prof.StudentID}, prof)
	if err != nil {
		return student.Profile{}, errors.Wrap(err, "updating profile")
	}
	if res.MatchedCount == 0 {
		return student.Profile{}, student.ErrProfileNotFound
	}
	return prof, nil
}
