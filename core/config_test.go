package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/anvesha/backend/core"
)

// Model artifact paths come out of NewConfig already rooted at WorkDir;
// callers must use them as-is.
func TestNewConfig_modelPaths(t *testing.T) {
	conf := core.NewConfig()

	wantClassifier := filepath.Join(conf.WorkDir, "assets", "model", "dropout_risk_model.json")
	if conf.Model.ClassifierPath != wantClassifier {
		t.Errorf("ClassifierPath = %q, want %q", conf.Model.ClassifierPath, wantClassifier)
	}
	wantEncoders := filepath.Join(conf.WorkDir, "assets", "model", "label_encoders.json")
	if conf.Model.EncodersPath != wantEncoders {
		t.Errorf("EncodersPath = %q, want %q", conf.Model.EncodersPath, wantEncoders)
	}

	if _, err := os.Stat(conf.Model.ClassifierPath); err != nil {
		t.Errorf("classifier artifact: %v", err)
	}
	if _, err := os.Stat(conf.Model.EncodersPath); err != nil {
		t.Errorf("encoders artifact: %v", err)
	}

	// rooting an already-rooted path a second time points nowhere
	if _, err := os.Stat(filepath.Join(conf.WorkDir, conf.Model.ClassifierPath)); !os.IsNotExist(err) {
		t.Errorf("doubly rooted classifier path resolves, stat error = %v", err)
	}
}
