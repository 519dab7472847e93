package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anvesha/backend/core/course"
	"github.com/anvesha/backend/storage/database"
)

type courseRepository struct {
	courses *mongo.Collection
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *mongo.Database) course.Repository {
	return &courseRepository{courses: db.Collection(database.ColCourses)}
}

func (repo *courseRepository) CreateCourses(ctx context.Context, courses []course.Course) error {
	docs := make([]interface{}, 0, len(courses))
	for _, crs := range courses {
		docs = append(docs, crs)
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := repo.courses.InsertMany(ctx, docs)
	return errors.Wrap(err, "inserting courses")
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.Filter) ([]course.Course, error) {
	query := bson.M{}
	if filter.Discipline != "" {
		query["discipline"] = filter.Discipline
	}
	if filter.Origin != "" {
		query["origin"] = filter.Origin
	}
	if filter.Level != "" {
		query["level"] = filter.Level
	}
	return repo.find(ctx, query)
}

func (repo *courseRepository) GetCoursesByCourseIDs(ctx context.Context, courseIDs []string) ([]course.Course, error) {
	return repo.find(ctx, bson.M{"course_id": bson.M{"$in": courseIDs}})
}

func (repo *courseRepository) GetCoursesExcluding(ctx context.Context, courseIDs []string) ([]course.Course, error) {
	return repo.find(ctx, bson.M{"course_id": bson.M{"$nin": courseIDs}})
}

func (repo *courseRepository) find(ctx context.Context, query bson.M) ([]course.Course, error) {
	cursor, err := repo.courses.Find(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "listing courses")
	}
	var courses []course.Course
	if err = cursor.All(ctx, &courses); err != nil {
		return nil, errors.Wrap(err, "decoding courses")
	}
	return courses, nil
}
