package insights

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// errors
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrReportNotFound  = errors.New("report not found")
)

// ageBuckets in display order; bucketFor assigns a dataset row to one.
var ageBuckets = []string{"<18", "18-22", "23-26", "27-30", "31+"}

type (
	Repository interface {
		DatasetExists(ctx context.Context, dataset string) (bool, error)
		CountDataset(ctx context.Context, dataset string) (int, error)
		CountDatasetByTarget(ctx context.Context, dataset, target string) (int, error)
		// GroupByAttributeVsTarget groups dataset rows by (field value,
		// target) and counts them.
		GroupByAttributeVsTarget(ctx context.Context, dataset, field string) (map[string]TargetCounts, error)
		ListAgeTargets(ctx context.Context, dataset string) ([]AgeTarget, error)

		GetLatestReport(ctx context.Context, dataset string) (Report, error)
		GetReportByID(ctx context.Context, id primitive.ObjectID) (Report, error)
	}

	// ReportSummary is the metadata view served to the dashboard frontend.
	ReportSummary struct {
		ReportID          string   `json:"report_id"`
		BestModel         string   `json:"best_model"`
		Accuracy          float64  `json:"accuracy"`
		DropoutPercentage float64  `json:"dropout_percentage"`
		TopFeatures       []string `json:"top_features"`
	}

	ServiceInterface interface {
		Dashboard(ctx context.Context, dataset string) (DashboardStats, error)
		LatestReport(ctx context.Context, dataset string) (ReportSummary, error)
		ReportHTML(ctx context.Context, id primitive.ObjectID) (string, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Dashboard(ctx context.Context, dataset string) (DashboardStats, error) {
	exists, err := svc.repo.DatasetExists(ctx, dataset)
	if err != nil {
		return DashboardStats{}, err
	}
	if !exists {
		return DashboardStats{}, ErrDatasetNotFound
	}

	total, err := svc.repo.CountDataset(ctx, dataset)
	if err != nil {
		return DashboardStats{}, err
	}
	dropouts, err := svc.repo.CountDatasetByTarget(ctx, dataset, TargetDropout)
	if err != nil {
		return DashboardStats{}, err
	}

	var rate float64
	if total > 0 {
		rate = math.Round(float64(dropouts)/float64(total)*100*100) / 100
	}

	stats := DashboardStats{
		TotalStudents:   total,
		DropoutStudents: dropouts,
		DropoutRate:     rate,
	}
	if stats.GenderVsDropout, err = svc.repo.GroupByAttributeVsTarget(ctx, dataset, "Gender"); err != nil {
		return DashboardStats{}, err
	}
	if stats.DebtorVsDropout, err = svc.repo.GroupByAttributeVsTarget(ctx, dataset, "Debtor"); err != nil {
		return DashboardStats{}, err
	}
	if stats.TuitionVsDropout, err = svc.repo.GroupByAttributeVsTarget(ctx, dataset, "Tuition fees up to date"); err != nil {
		return DashboardStats{}, err
	}

	rows, err := svc.repo.ListAgeTargets(ctx, dataset)
	if err != nil {
		return DashboardStats{}, err
	}
	stats.AgeVsDropout = bucketByAge(rows)

	return stats, nil
}

func (svc *Service) LatestReport(ctx context.Context, dataset string) (ReportSummary, error) {
	report, err := svc.repo.GetLatestReport(ctx, strings.ToLower(dataset))
	if err != nil {
		return ReportSummary{}, err
	}

	var topFeatures []string
	if report.Metadata.TopFeatures != "" {
		for _, feat := range strings.Split(report.Metadata.TopFeatures, ",") {
			topFeatures = append(topFeatures, strings.TrimSpace(feat))
		}
	}

	return ReportSummary{
		ReportID:          report.ID.Hex(),
		BestModel:         report.Metadata.BestModel,
		Accuracy:          report.Metadata.Accuracy,
		DropoutPercentage: report.Metadata.DropoutPercentage,
		TopFeatures:       topFeatures,
	}, nil
}

func (svc *Service) ReportHTML(ctx context.Context, id primitive.ObjectID) (string, error) {
	report, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return "", err
	}
	return report.HTML, nil
}

func bucketByAge(rows []AgeTarget) map[string]TargetCounts {
	buckets := make(map[string]TargetCounts, len(ageBuckets))
	for _, bucket := range ageBuckets {
		buckets[bucket] = TargetCounts{}
	}
	for _, row := range rows {
		buckets[bucketFor(row.Age)][row.Target]++
	}
	return buckets
}

func bucketFor(age int) string {
	switch {
	case age < 18:
		return "<18"
	case age <= 22:
		return "18-22"
	case age <= 26:
		return "23-26"
	case age <= 30:
		return "27-30"
	default:
		return "31+"
	}
}
