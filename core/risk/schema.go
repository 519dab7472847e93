package risk

import (
	"fmt"

	"github.com/pkg/errors"
)

// SchemaVersion identifies the feature contract shared with the offline
// training job. Artifacts produced for any other version are rejected at
// load time.
const SchemaVersion = "dropout-features-v1"

// FeatureCount is the fixed length of every feature vector.
const FeatureCount = 23

// FeatureVector is one student encoded in the trained feature order. The
// order must match the order used when the classifier was trained; the
// compiled FeatureNames list and the artifact's embedded copy are compared
// at load time so a mismatch fails startup instead of silently corrupting
// predictions.
type FeatureVector [FeatureCount]float64

// FeatureNames is the canonical feature order.
var FeatureNames = [FeatureCount]string{
	"gender",
	"age",
	"caste",
	"area",
	"standard",
	"state",
	"school",
	"maritalStatus",
	"course",
	"previousQualification",
	"motherQualification",
	"fatherQualification",
	"motherOccupation",
	"fatherOccupation",
	"specialNeeds",
	"debtor",
	"tuitionUpToDate",
	"scholarshipHolder",
	"profileCompleted",
	"daysSinceRegistration",
	"totalActivityMinutes",
	"attendanceRate",
	"averageScore",
}

// CategoricalFeatures lists the features that go through a label encoder.
var CategoricalFeatures = []string{
	"gender",
	"caste",
	"area",
	"state",
	"school",
	"maritalStatus",
	"course",
	"previousQualification",
	"motherQualification",
	"fatherQualification",
	"motherOccupation",
	"fatherOccupation",
	"specialNeeds",
	"debtor",
	"tuitionUpToDate",
	"scholarshipHolder",
}

// ValidateSchema checks an artifact's embedded schema version and ordered
// feature-name list against the compiled schema.
func ValidateSchema(version string, names []string) error {
	if version != SchemaVersion {
		return errors.Errorf("artifact schema version %q, want %q", version, SchemaVersion)
	}
	if len(names) != FeatureCount {
		return errors.Errorf("artifact has %d features, want %d", len(names), FeatureCount)
	}
	for i, name := range names {
		if name != FeatureNames[i] {
			return errors.Errorf("feature %d is %q, want %q", i, name, FeatureNames[i])
		}
	}
	return nil
}

func (v FeatureVector) String() string {
	return fmt.Sprintf("FeatureVector%v", [FeatureCount]float64(v))
}
