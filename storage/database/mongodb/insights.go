package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anvesha/backend/core/insights"
	"github.com/anvesha/backend/storage/database"
)

// Dataset field names as archived by the offline job.
const (
	fieldTarget = "Target"
	fieldAge    = "Age at enrollment"
)

type insightsRepository struct {
	db      *mongo.Database
	reports *mongo.Collection
}

var _ insights.Repository = (*insightsRepository)(nil)

func NewInsightsRepository(db *mongo.Database) insights.Repository {
	return &insightsRepository{db: db, reports: db.Collection(database.ColReports)}
}

// DatasetExists checks that the named dataset was archived as a collection.
func (repo *insightsRepository) DatasetExists(ctx context.Context, dataset string) (bool, error) {
	names, err := repo.db.ListCollectionNames(ctx, bson.M{"name": dataset})
	if err != nil {
		return false, errors.Wrap(err, "listing collections")
	}
	return len(names) > 0, nil
}

func (repo *insightsRepository) CountDataset(ctx context.Context, dataset string) (int, error) {
	n, err := repo.db.Collection(dataset).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "counting dataset rows")
	}
	return int(n), nil
}

func (repo *insightsRepository) CountDatasetByTarget(ctx context.Context, dataset, target string) (int, error) {
	n, err := repo.db.Collection(dataset).CountDocuments(ctx, bson.M{fieldTarget: target})
	if err != nil {
		return 0, errors.Wrap(err, "counting dataset rows by target")
	}
	return int(n), nil
}

func (repo *insightsRepository) GroupByAttributeVsTarget(ctx context.Context, dataset, field string) (map[string]insights.TargetCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"attr": "$" + field, "target": "$" + fieldTarget},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := repo.db.Collection(dataset).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating dataset")
	}

	var rows []struct {
		ID struct {
			Attr   string `bson:"attr"`
			Target string `bson:"target"`
		} `bson:"_id"`
		Count int `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decoding aggregation rows")
	}

	grouped := make(map[string]insights.TargetCounts)
	for _, row := range rows {
		counts, ok := grouped[row.ID.Attr]
		if !ok {
			counts = insights.TargetCounts{}
			grouped[row.ID.Attr] = counts
		}
		counts[row.ID.Target] += row.Count
	}
	return grouped, nil
}

func (repo *insightsRepository) ListAgeTargets(ctx context.Context, dataset string) ([]insights.AgeTarget, error) {
	opts := options.Find().SetProjection(bson.M{fieldAge: 1, fieldTarget: 1})
	cursor, err := repo.db.Collection(dataset).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "listing age/target rows")
	}

	var docs []bson.M
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding age/target rows")
	}

	rows := make([]insights.AgeTarget, 0, len(docs))
	for _, doc := range docs {
		row := insights.AgeTarget{Target: "Unknown"}
		if target, ok := doc[fieldTarget].(string); ok {
			row.Target = target
		}
		row.Age = asInt(doc[fieldAge])
		rows = append(rows, row)
	}
	return rows, nil
}

func (repo *insightsRepository) GetLatestReport(ctx context.Context, dataset string) (insights.Report, error) {
	opts := options.FindOne().SetSort(bson.M{"generated_on": -1})
	var report insights.Report
	err := repo.reports.FindOne(ctx, bson.M{"dataset": dataset}, opts).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return insights.Report{}, insights.ErrReportNotFound
	}
	if err != nil {
		return insights.Report{}, errors.Wrap(err, "finding latest report")
	}
	return report, nil
}

func (repo *insightsRepository) GetReportByID(ctx context.Context, id primitive.ObjectID) (insights.Report, error) {
	var report insights.Report
	err := repo.reports.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return insights.Report{}, insights.ErrReportNotFound
	}
	if err != nil {
		return insights.Report{}, errors.Wrap(err, "finding report by id")
	}
	return report, nil
}

// asInt normalizes the numeric types the driver may decode an age as.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
