package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/storage/database"
)

type performanceRepository struct {
	perfs      *mongo.Collection
	activities *mongo.Collection
}

var (
	_ performance.Repository = (*performanceRepository)(nil)
	_ risk.Writer            = (*performanceRepository)(nil)
)

func NewPerformanceRepository(db *mongo.Database) *performanceRepository {
	return &performanceRepository{
		perfs:      db.Collection(database.ColPerformance),
		activities: db.Collection(database.ColActivityLogs),
	}
}

func (repo *performanceRepository) CreatePerformance(ctx context.Context, perf performance.Performance) (performance.Performance, error) {
	res, err := repo.perfs.InsertOne(ctx, perf)
	if err != nil {
		return performance.Performance{}, errors.Wrap(err, "inserting performance record")
	}
	perf.ID = res.InsertedID.(primitive.ObjectID)
	return perf, nil
}

func (repo *performanceRepository) GetPerformanceByStudentID(ctx context.Context, studentID primitive.ObjectID) (performance.Performance, error) {
	var perf performance.Performance
	err := repo.perfs.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&perf)
	if err == mongo.ErrNoDocuments {
		return performance.Performance{}, performance.ErrNotFound
	}
	if err != nil {
		return performance.Performance{}, errors.Wrap(err, "finding performance by studentId")
	}
	return perf, nil
}

// UpsertPerformance sets the analytics fields keyed by studentId, creating
// the record if absent. Risk fields are deliberately not part of the update.
func (repo *performanceRepository) UpsertPerformance(ctx context.Context, perf performance.Performance) (performance.Performance, error) {
	update := bson.M{"$set": bson.M{
		"subjectScores": perf.SubjectScores,
		"timeSpent":     perf.TimeSpent,
		"dailyProgress": perf.DailyProgress,
		"attendance":    perf.Attendance,
		"lastUpdated":   perf.LastUpdated,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := repo.perfs.UpdateOne(ctx, bson.M{"studentId": perf.StudentID}, update, opts); err != nil {
		return performance.Performance{}, errors.Wrap(err, "upserting performance record")
	}
	return repo.GetPerformanceByStudentID(ctx, perf.StudentID)
}

func (repo *performanceRepository) UpdateTimeSpent(ctx context.Context, studentID primitive.ObjectID, ts []performance.TimeSpent, at time.Time) error {
	update := bson.M{"$set": bson.M{"timeSpent": ts, "lastUpdated": at}}
	res, err := repo.perfs.UpdateOne(ctx, bson.M{"studentId": studentID}, update)
	if err != nil {
		return errors.Wrap(err, "updating timeSpent")
	}
	if res.MatchedCount == 0 {
		return performance.ErrNotFound
	}
	return nil
}

func (repo *performanceRepository) UpdateDailyProgress(ctx context.Context, studentID primitive.ObjectID, dp []performance.DailyProgress, at time.Time) error {
	update := bson.M{"$set": bson.M{"dailyProgress": dp, "lastUpdated": at}}
	res, err := repo.perfs.UpdateOne(ctx, bson.M{"studentId": studentID}, update)
	if err != nil {
		return errors.Wrap(err, "updating dailyProgress")
	}
	if res.MatchedCount == 0 {
		return performance.ErrNotFound
	}
	return nil
}

// UpsertRisk writes the prediction outcome onto the performance record.
// Idempotent: repeated runs overwrite the same two fields.
func (repo *performanceRepository) UpsertRisk(ctx context.Context, studentID primitive.ObjectID, score int, label string) error {
	update := bson.M{"$set": bson.M{"riskScore": score, "riskLabel": label}}
	opts := options.Update().SetUpsert(true)
	_, err := repo.perfs.UpdateOne(ctx, bson.M{"studentId": studentID}, update, opts)
	return errors.Wrap(err, "upserting risk fields")
}

func (repo *performanceRepository) CreateActivity(ctx context.Context, act performance.Activity) (performance.Activity, error) {
	res, err := repo.activities.InsertOne(ctx, act)
	if err != nil {
		return performance.Activity{}, errors.Wrap(err, "inserting activity log")
	}
	act.ID = res.InsertedID.(primitive.ObjectID)
	return act, nil
}

func (repo *performanceRepository) GetActivity(ctx context.Context, studentID primitive.ObjectID, courseID string) (performance.Activity, error) {
	var act performance.Activity
	err := repo.activities.FindOne(ctx, bson.M{"studentId": studentID, "courseId": courseID}).Decode(&act)
	if err == mongo.ErrNoDocuments {
		return performance.Activity{}, performance.ErrActivityNotFound
	}
	if err != nil {
		return performance.Activity{}, errors.Wrap(err, "finding activity log")
	}
	return act, nil
}

func (repo *performanceRepository) ListActivitiesByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]performance.Activity, error) {
	cursor, err := repo.activities.Find(ctx, bson.M{"studentId": studentID})
	if err != nil {
		return nil, errors.Wrap(err, "listing activity logs")
	}
	var activities []performance.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, errors.Wrap(err, "decoding activity logs")
	}
	return activities, nil
}

// LogActivity increments today's entry in place, appending a new entry when
// the course has none for that day yet.
func (repo *performanceRepository) LogActivity(ctx context.Context, studentID primitive.ObjectID, courseID string, day time.Time, minutes int) error {
	now := time.Now().UTC()

	res, err := repo.activities.UpdateOne(ctx,
		bson.M{"studentId": studentID, "courseId": courseID, "activityLogs.date": day},
		bson.M{
			"$inc": bson.M{"activityLogs.$.durationMinutes": minutes},
			"$set": bson.M{"lastAccessed": now},
		},
	)
	if err != nil {
		return errors.Wrap(err, "incrementing activity log")
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = repo.activities.UpdateOne(ctx,
		bson.M{"studentId": studentID, "courseId": courseID},
		bson.M{
			"$push": bson.M{"activityLogs": performance.ActivityEntry{Date: day, DurationMinutes: minutes}},
			"$set":  bson.M{"lastAccessed": now},
		},
	)
	if err != nil {
		return errors.Wrap(err, "appending activity log")
	}
	if res.MatchedCount == 0 {
		return performance.ErrActivityNotFound
	}
	return nil
}
