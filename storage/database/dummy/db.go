// Package dummydb is an in-memory document store used by tests and local
// development. It mirrors the repository contracts of the mongo-backed
// store, including its upsert semantics.
package dummydb

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/course"
	"github.com/anvesha/backend/core/insights"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/student"
)

type (
	DB struct {
		students *studentTable
		perfs    *performanceTable
		courses  *courseTable
		insights *insightsTable
	}

	studentTable struct {
		sync.RWMutex
		students map[primitive.ObjectID]*student.Student
		profiles map[primitive.ObjectID]*student.Profile // keyed by studentId
	}

	performanceTable struct {
		sync.RWMutex
		perfs      map[primitive.ObjectID]*performance.Performance // keyed by studentId
		activities []*performance.Activity
	}

	courseTable struct {
		sync.RWMutex
		courses []*course.Course
	}

	insightsTable struct {
		sync.RWMutex
		datasets map[string][]map[string]interface{}
		reports  []*insights.Report
	}
)

// SeedDataset registers an archived dataset under its collection name.
func (db *DB) SeedDataset(dataset string, rows []map[string]interface{}) {
	db.insights.Lock()
	defer db.insights.Unlock()
	db.insights.datasets[dataset] = rows
}

// SeedReport stores a report and returns it with its assigned id.
func (db *DB) SeedReport(report insights.Report) insights.Report {
	db.insights.Lock()
	defer db.insights.Unlock()
	report.ID = primitive.NewObjectID()
	db.insights.reports = append(db.insights.reports, &report)
	return report
}

func Open() (*DB, error) {
	return &DB{
		students: &studentTable{
			students: make(map[primitive.ObjectID]*student.Student),
			profiles: make(map[primitive.ObjectID]*student.Profile),
		},
		perfs: &performanceTable{
			perfs: make(map[primitive.ObjectID]*performance.Performance),
		},
		courses: &courseTable{},
		insights: &insightsTable{
			datasets: make(map[string][]map[string]interface{}),
		},
	}, nil
}
