package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/anvesha/backend/core"
)

// Collection names.
const (
	ColStudents     = "students"
	ColProfiles     = "profiles"
	ColPerformance  = "performance_analytics"
	ColActivityLogs = "course_activity_logs"
	ColCourses      = "courses"
	ColReports      = "reports"
)

// Open connects to the document store and pings it until ready.
func Open(conf *core.Config) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, nil, errors.Wrap(err, "connecting to document store")
	}

	if err = ping(client, conf.Database.ConnectTimeout); err != nil {
		return nil, nil, err
	}

	closer := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}
	return client.Database(conf.Database.Name), closer, nil
}

// ping waits for the store to be ready. Waits 100ms longer between each attempt.
func ping(client *mongo.Client, timeout time.Duration) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err = client.Ping(ctx, readpref.Primary())
		cancel()
		if err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "document store ping timeout")
}
