package dummydb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/insights"
)

// Dataset field names as archived by the offline job.
const (
	fieldTarget = "Target"
	fieldAge    = "Age at enrollment"
)

type insightsRepository struct {
	db *insightsTable
}

var _ insights.Repository = (*insightsRepository)(nil)

func NewInsightsRepository(db *DB) insights.Repository {
	return &insightsRepository{db: db.insights}
}

func (repo *insightsRepository) DatasetExists(_ context.Context, dataset string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.datasets[dataset]
	return ok, nil
}

func (repo *insightsRepository) CountDataset(_ context.Context, dataset string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return len(repo.db.datasets[dataset]), nil
}

func (repo *insightsRepository) CountDatasetByTarget(_ context.Context, dataset, target string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var n int
	for _, row := range repo.db.datasets[dataset] {
		if row[fieldTarget] == target {
			n++
		}
	}
	return n, nil
}

func (repo *insightsRepository) GroupByAttributeVsTarget(_ context.Context, dataset, field string) (map[string]insights.TargetCounts, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	grouped := make(map[string]insights.TargetCounts)
	for _, row := range repo.db.datasets[dataset] {
		attr := fmt.Sprintf("%v", row[field])
		target := fmt.Sprintf("%v", row[fieldTarget])
		counts, ok := grouped[attr]
		if !ok {
			counts = insights.TargetCounts{}
			grouped[attr] = counts
		}
		counts[target]++
	}
	return grouped, nil
}

func (repo *insightsRepository) ListAgeTargets(_ context.Context, dataset string) ([]insights.AgeTarget, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := make([]insights.AgeTarget, 0, len(repo.db.datasets[dataset]))
	for _, row := range repo.db.datasets[dataset] {
		ageTarget := insights.AgeTarget{Target: "Unknown"}
		if target, ok := row[fieldTarget].(string); ok {
			ageTarget.Target = target
		}
		switch age := row[fieldAge].(type) {
		case int:
			ageTarget.Age = age
		case float64:
			ageTarget.Age = int(age)
		}
		rows = append(rows, ageTarget)
	}
	return rows, nil
}

func (repo *insightsRepository) GetLatestReport(_ context.Context, dataset string) (insights.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var latest *insights.Report
	for _, report := range repo.db.reports {
		if report.Dataset != dataset {
			continue
		}
		if latest == nil || report.GeneratedOn.After(latest.GeneratedOn) {
			latest = report
		}
	}
	if latest == nil {
		return insights.Report{}, insights.ErrReportNotFound
	}
	return *latest, nil
}

func (repo *insightsRepository) GetReportByID(_ context.Context, id primitive.ObjectID) (insights.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, report := range repo.db.reports {
		if report.ID == id {
			return *report, nil
		}
	}
	return insights.Report{}, insights.ErrReportNotFound
}
