package dummydb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
)

type performanceRepository struct {
	db *performanceTable
}

var (
	_ performance.Repository = (*performanceRepository)(nil)
	_ risk.Writer            = (*performanceRepository)(nil)
)

func NewPerformanceRepository(db *DB) *performanceRepository {
	return &performanceRepository{db: db.perfs}
}

func (repo *performanceRepository) CreatePerformance(_ context.Context, perf performance.Performance) (performance.Performance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	perf.ID = primitive.NewObjectID()
	repo.db.perfs[perf.StudentID] = &perf
	return perf, nil
}

func (repo *performanceRepository) GetPerformanceByStudentID(_ context.Context, studentID primitive.ObjectID) (performance.Performance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if perf, ok := repo.db.perfs[studentID]; ok {
		return *perf, nil
	}
	return performance.Performance{}, performance.ErrNotFound
}

func (repo *performanceRepository) UpsertPerformance(_ context.Context, perf performance.Performance) (performance.Performance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if existing, ok := repo.db.perfs[perf.StudentID]; ok {
		existing.SubjectScores = perf.SubjectScores
		existing.TimeSpent = perf.TimeSpent
		existing.DailyProgress = perf.DailyProgress
		existing.Attendance = perf.Attendance
		existing.LastUpdated = perf.LastUpdated
		return *existing, nil
	}
	perf.ID = primitive.NewObjectID()
	repo.db.perfs[perf.StudentID] = &perf
	return perf, nil
}

func (repo *performanceRepository) UpdateTimeSpent(_ context.Context, studentID primitive.ObjectID, ts []performance.TimeSpent, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	perf, ok := repo.db.perfs[studentID]
	if !ok {
		return performance.ErrNotFound
	}
	perf.TimeSpent = ts
	perf.LastUpdated = at
	return nil
}

func (repo *performanceRepository) UpdateDailyProgress(_ context.Context, studentID primitive.ObjectID, dp []performance.DailyProgress, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	perf, ok := repo.db.perfs[studentID]
	if !ok {
		return performance.ErrNotFound
	}
	perf.DailyProgress = dp
	perf.LastUpdated = at
	return nil
}

func (repo *performanceRepository) UpsertRisk(_ context.Context, studentID primitive.ObjectID, score int, label string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if perf, ok := repo.db.perfs[studentID]; ok {
		perf.RiskScore = score
		perf.RiskLabel = label
		return nil
	}
	repo.db.perfs[studentID] = &performance.Performance{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		RiskScore: score,
		RiskLabel: label,
	}
	return nil
}

func (repo *performanceRepository) CreateActivity(_ context.Context, act performance.Activity) (performance.Activity, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	act.ID = primitive.NewObjectID()
	repo.db.activities = append(repo.db.activities, &act)
	return act, nil
}

func (repo *performanceRepository) GetActivity(_ context.Context, studentID primitive.ObjectID, courseID string) (performance.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, act := range repo.db.activities {
		if act.StudentID == studentID && act.CourseID == courseID {
			return *act, nil
		}
	}
	return performance.Activity{}, performance.ErrActivityNotFound
}

func (repo *performanceRepository) ListActivitiesByStudentID(_ context.Context, studentID primitive.ObjectID) ([]performance.Activity, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var activities []performance.Activity
	for _, act := range repo.db.activities {
		if act.StudentID == studentID {
			activities = append(activities, *act)
		}
	}
	return activities, nil
}

func (repo *performanceRepository) LogActivity(_ context.Context, studentID primitive.ObjectID, courseID string, day time.Time, minutes int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, act := range repo.db.activities {
		if act.StudentID != studentID || act.CourseID != courseID {
			continue
		}
		act.LastAccessed = time.Now().UTC()
		for i := range act.Logs {
			if act.Logs[i].Date.Equal(day) {
				act.Logs[i].DurationMinutes += minutes
				return nil
			}
		}
		act.Logs = append(act.Logs, performance.ActivityEntry{Date: day, DurationMinutes: minutes})
		return nil
	}
	return performance.ErrActivityNotFound
}
