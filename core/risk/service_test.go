package risk_test

import (
	"context"
	"log"
	"net/mail"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/core/student"
	logsvc "github.com/anvesha/backend/services/logger"
	dummydb "github.com/anvesha/backend/storage/database/dummy"
)

func testEncoders() *risk.EncoderSet {
	vocab := make(map[string]map[string]int, len(risk.CategoricalFeatures))
	for _, feature := range risk.CategoricalFeatures {
		vocab[feature] = map[string]int{
			student.DefaultCategory:     0,
			student.DefaultNotSpecified: 1,
		}
	}
	return risk.NewEncoderSet(vocab)
}

// attendanceTree classifies on attendanceRate alone: <= 0.5 high, else low.
func attendanceTree(t *testing.T) *risk.DecisionTree {
	tree, err := risk.NewDecisionTree([]risk.TreeNode{
		{Feature: 21, Threshold: 0.5, Left: 1, Right: 2},
		{Feature: -1, Label: risk.LabelHigh},
		{Feature: -1, Label: risk.LabelLow},
	})
	if err != nil {
		t.Fatalf("NewDecisionTree() failed: %v", err)
	}
	return tree
}

func testLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), &core.Config{})
	logger.Enable(false)
	return logger
}

// countingClassifier tracks how many times the service reaches the model.
type countingClassifier struct {
	inner risk.Classifier
	calls int
}

func (c *countingClassifier) Predict(vec risk.FeatureVector) (string, error) {
	c.calls++
	return c.inner.Predict(vec)
}

type svcFixture struct {
	svc      risk.ServiceInterface
	students student.Repository
	perfs    performance.Repository
}

func setup(t *testing.T) svcFixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	students := dummydb.NewStudentRepository(db)
	perfs := dummydb.NewPerformanceRepository(db)

	svc := risk.NewService(risk.ServiceDeps{
		Students:   students,
		Perfs:      perfs,
		Writer:     perfs,
		Extractor:  risk.NewExtractor(testEncoders()),
		Classifier: attendanceTree(t),
		Scorer:     risk.Scorer{},
		Logger:     testLogger(),
	})
	return svcFixture{svc: svc, students: students, perfs: perfs}
}

func createStudent(t *testing.T, fix svcFixture, attendance student.Attendance) student.Student {
	ctx := context.Background()

	std := student.NewDefaultStudent("Test Student", "test@test.test", time.Now().UTC())
	std, err := fix.students.CreateStudent(ctx, std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	if _, err = fix.students.CreateProfile(ctx, student.Profile{StudentID: std.ID, Age: student.DefaultAge}); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if _, err = fix.perfs.CreatePerformance(ctx, performance.Performance{
		StudentID:  std.ID,
		Attendance: attendance,
		RiskLabel:  performance.RiskLabelNotCalculated,
	}); err != nil {
		t.Fatalf("CreatePerformance() failed: %v", err)
	}
	return std
}

func TestService_PredictRisk(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()

	t.Run("high risk persists score", func(t *testing.T) {
		std := createStudent(t, fix, student.Attendance{TotalDays: 20, PresentDays: 5}) // rate 0.25

		pred, err := fix.svc.PredictRisk(ctx, std.ID)
		if err != nil {
			t.Fatalf("PredictRisk() failed: %v", err)
		}
		if pred.RiskLabel != risk.LabelHigh {
			t.Errorf("RiskLabel = %q, want %q", pred.RiskLabel, risk.LabelHigh)
		}
		if pred.RiskScore != 1 {
			t.Errorf("RiskScore = %v, want 1", pred.RiskScore)
		}

		perf, err := fix.perfs.GetPerformanceByStudentID(ctx, std.ID)
		if err != nil {
			t.Fatalf("GetPerformanceByStudentID() failed: %v", err)
		}
		if perf.RiskScore != 1 || perf.RiskLabel != risk.LabelHigh {
			t.Errorf("persisted (score, label) = (%v, %q), want (1, %q)", perf.RiskScore, perf.RiskLabel, risk.LabelHigh)
		}
	})

	t.Run("low risk", func(t *testing.T) {
		fix := setup(t)
		std := createStudent(t, fix, student.Attendance{TotalDays: 20, PresentDays: 18}) // rate 0.9

		pred, err := fix.svc.PredictRisk(ctx, std.ID)
		if err != nil {
			t.Fatalf("PredictRisk() failed: %v", err)
		}
		if pred.RiskLabel != risk.LabelLow || pred.RiskScore != 0 {
			t.Errorf("prediction = (%q, %v), want (%q, 0)", pred.RiskLabel, pred.RiskScore, risk.LabelLow)
		}
	})

	t.Run("idempotent rerun", func(t *testing.T) {
		fix := setup(t)
		std := createStudent(t, fix, student.Attendance{TotalDays: 20, PresentDays: 5})

		first, err := fix.svc.PredictRisk(ctx, std.ID)
		if err != nil {
			t.Fatalf("PredictRisk() failed: %v", err)
		}
		second, err := fix.svc.PredictRisk(ctx, std.ID)
		if err != nil {
			t.Fatalf("PredictRisk() rerun failed: %v", err)
		}
		if first != second {
			t.Errorf("rerun = %+v, want %+v", second, first)
		}
	})

	t.Run("unknown student", func(t *testing.T) {
		fix := setup(t)

		_, err := fix.svc.PredictRisk(ctx, primitive.ObjectID{1, 2, 3})
		if !risk.IsNotFound(err) {
			t.Errorf("PredictRisk() error = %v, want NotFound kind", err)
		}
	})

	t.Run("missing performance record", func(t *testing.T) {
		db, err := dummydb.Open()
		if err != nil {
			t.Fatalf("dummydb.Open() failed: %v", err)
		}
		students := dummydb.NewStudentRepository(db)
		perfs := dummydb.NewPerformanceRepository(db)
		classifier := &countingClassifier{inner: attendanceTree(t)}

		svc := risk.NewService(risk.ServiceDeps{
			Students:   students,
			Perfs:      perfs,
			Writer:     perfs,
			Extractor:  risk.NewExtractor(testEncoders()),
			Classifier: classifier,
			Scorer:     risk.Scorer{},
			Logger:     testLogger(),
		})

		std := student.NewDefaultStudent("No Perf", "noperf@test.test", time.Now().UTC())
		std, err = students.CreateStudent(ctx, std)
		if err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
		if _, err = students.CreateProfile(ctx, student.Profile{StudentID: std.ID}); err != nil {
			t.Fatalf("CreateProfile() failed: %v", err)
		}

		_, err = svc.PredictRisk(ctx, std.ID)
		if !risk.IsNotFound(err) {
			t.Errorf("PredictRisk() error = %v, want NotFound kind", err)
		}
		if classifier.calls != 0 {
			t.Errorf("classifier calls = %d, want 0", classifier.calls)
		}
		if _, err = perfs.GetPerformanceByStudentID(ctx, std.ID); err != performance.ErrNotFound {
			t.Errorf("GetPerformanceByStudentID() error = %v, want %v", err, performance.ErrNotFound)
		}
	})
}

type recordingMailer struct {
	sent []*core.EmailMessage
}

func (m *recordingMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func TestService_PredictRisk_advisory(t *testing.T) {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	students := dummydb.NewStudentRepository(db)
	perfs := dummydb.NewPerformanceRepository(db)
	mailer := &recordingMailer{}

	svc := risk.NewService(risk.ServiceDeps{
		Students:   students,
		Perfs:      perfs,
		Writer:     perfs,
		Extractor:  risk.NewExtractor(testEncoders()),
		Classifier: attendanceTree(t),
		Scorer:     risk.Scorer{},
		Logger:     testLogger(),
		Mailer:     mailer,
		AdvisoryTo: mail.Address{Address: "advisory@test.test"},
	})
	fix := svcFixture{svc: svc, students: students, perfs: perfs}
	ctx := context.Background()

	// low risk: no advisory
	low := createStudent(t, fix, student.Attendance{TotalDays: 10, PresentDays: 9})
	if _, err = svc.PredictRisk(ctx, low.ID); err != nil {
		t.Fatalf("PredictRisk() failed: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatalf("advisory sent for low risk: %v", mailer.sent)
	}

	// high risk: one advisory
	high := createStudent(t, fix, student.Attendance{TotalDays: 10, PresentDays: 2})
	if _, err = svc.PredictRisk(ctx, high.ID); err != nil {
		t.Fatalf("PredictRisk() failed: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("advisories sent = %d, want 1", len(mailer.sent))
	}
	if to := mailer.sent[0].To[0].Address; to != "advisory@test.test" {
		t.Errorf("advisory recipient = %q, want advisory@test.test", to)
	}
}
