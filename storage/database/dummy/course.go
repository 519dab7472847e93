package dummydb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.courses}
}

func (repo *courseRepository) CreateCourses(_ context.Context, courses []course.Course) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, crs := range courses {
		crs := crs
		crs.ID = primitive.NewObjectID()
		repo.db.courses = append(repo.db.courses, &crs)
	}
	return nil
}

func (repo *courseRepository) FilterCourses(_ context.Context, filter course.Filter) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var courses []course.Course
	for _, crs := range repo.db.courses {
		if filter.Discipline != "" && crs.Discipline != filter.Discipline {
			continue
		}
		if filter.Origin != "" && crs.Origin != filter.Origin {
			continue
		}
		if filter.Level != "" && crs.Level != filter.Level {
			continue
		}
		courses = append(courses, *crs)
	}
	return courses, nil
}

func (repo *courseRepository) GetCoursesByCourseIDs(_ context.Context, courseIDs []string) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}

	var courses []course.Course
	for _, crs := range repo.db.courses {
		if wanted[crs.CourseID] {
			courses = append(courses, *crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) GetCoursesExcluding(_ context.Context, courseIDs []string) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		excluded[id] = true
	}

	var courses []course.Course
	for _, crs := range repo.db.courses {
		if !excluded[crs.CourseID] {
			courses = append(courses, *crs)
		}
	}
	return courses, nil
}
