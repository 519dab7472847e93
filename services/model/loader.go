// Package modelsvc loads the serialized artifacts produced by the offline
// training job: the exported decision-tree classifier and the per-feature
// label encoders. Both embed the feature schema they were trained against;
// loading fails if it does not match the compiled schema, so a training/
// inference mismatch is a startup error instead of silent corruption.
package modelsvc

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/anvesha/backend/core/risk"
)

type (
	classifierArtifact struct {
		SchemaVersion string          `json:"schemaVersion"`
		FeatureNames  []string        `json:"featureNames"`
		ModelVersion  string          `json:"modelVersion"`
		Nodes         []risk.TreeNode `json:"nodes"`
	}

	encodersArtifact struct {
		SchemaVersion string                    `json:"schemaVersion"`
		FeatureNames  []string                  `json:"featureNames"`
		Encoders      map[string]map[string]int `json:"encoders"`
	}
)

// LoadClassifier reads and validates the classifier artifact.
func LoadClassifier(path string) (*risk.DecisionTree, error) {
	var artifact classifierArtifact
	if err := readJSON(path, &artifact); err != nil {
		return nil, errors.Wrap(err, "reading classifier artifact")
	}
	if err := risk.ValidateSchema(artifact.SchemaVersion, artifact.FeatureNames); err != nil {
		return nil, errors.Wrap(err, "validating classifier artifact")
	}
	tree, err := risk.NewDecisionTree(artifact.Nodes)
	if err != nil {
		return nil, errors.Wrap(err, "building decision tree")
	}
	return tree, nil
}

// LoadEncoders reads and validates the encoder-set artifact. A categorical
// feature without an encoder is tolerated; encoding falls back to code 0 at
// inference time.
func LoadEncoders(path string) (*risk.EncoderSet, error) {
	var artifact encodersArtifact
	if err := readJSON(path, &artifact); err != nil {
		return nil, errors.Wrap(err, "reading encoders artifact")
	}
	if err := risk.ValidateSchema(artifact.SchemaVersion, artifact.FeatureNames); err != nil {
		return nil, errors.Wrap(err, "validating encoders artifact")
	}
	return risk.NewEncoderSet(artifact.Encoders), nil
}

func readJSON(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
