package insights

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TargetDropout is the outcome class reported by the archived datasets.
const TargetDropout = "Dropout"

type (
	ReportMetadata struct {
		BestModel         string  `bson:"best_model" json:"best_model"`
		Accuracy          float64 `bson:"accuracy" json:"accuracy"`
		DropoutPercentage float64 `bson:"dropout_percentage" json:"dropout_percentage"`
		TopFeatures       string  `bson:"top_features" json:"top_features"` // comma separated
	}

	// Report is a stored HTML analysis report produced by the offline job.
	Report struct {
		ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
		Dataset     string             `bson:"dataset" json:"dataset"`
		HTML        string             `bson:"html" json:"-"`
		Metadata    ReportMetadata     `bson:"metadata" json:"metadata"`
		GeneratedOn time.Time          `bson:"generated_on" json:"generatedOn"`
	}

	// TargetCounts maps an outcome class ("Dropout", "Graduate", ...) to the
	// number of dataset rows in it.
	TargetCounts map[string]int

	// AgeTarget is one dataset row projected to the fields the age-bucket
	// grouping needs.
	AgeTarget struct {
		Age    int    `bson:"age"`
		Target string `bson:"target"`
	}

	// DashboardStats is the aggregated view of one archived dataset.
	DashboardStats struct {
		TotalStudents    int                     `json:"total_students"`
		DropoutStudents  int                     `json:"dropout_students"`
		DropoutRate      float64                 `json:"dropout_rate"` // percentage, 2dp
		GenderVsDropout  map[string]TargetCounts `json:"gender_vs_dropout"`
		DebtorVsDropout  map[string]TargetCounts `json:"debtor_vs_dropout"`
		TuitionVsDropout map[string]TargetCounts `json:"tuition_vs_dropout"`
		AgeVsDropout     map[string]TargetCounts `json:"age_vs_dropout"`
	}
)
