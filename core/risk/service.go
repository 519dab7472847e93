package risk

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/student"
)

type (
	// Writer persists the outcome of a prediction run onto the performance
	// record. Upsert semantics: create the record if absent, overwrite the
	// risk fields if present. Idempotent.
	Writer interface {
		UpsertRisk(ctx context.Context, studentID primitive.ObjectID, score int, label string) error
	}

	// Prediction is the caller-facing result of a completed run.
	Prediction struct {
		StudentID string `json:"studentId"`
		RiskLabel string `json:"dropoutRiskPrediction"`
		RiskScore int    `json:"riskScore"`
	}

	ServiceInterface interface {
		PredictRisk(ctx context.Context, studentID primitive.ObjectID) (Prediction, error)
	}

	// ServiceDeps collects the collaborators the prediction service is
	// constructed with at startup. Classifier and Extractor wrap shared,
	// read-only, process-lifetime state; everything here is safe for
	// concurrent use.
	ServiceDeps struct {
		Students   student.Repository
		Perfs      performance.Repository
		Writer     Writer
		Extractor  *Extractor
		Classifier Classifier
		Scorer     Scorer
		Logger     core.Logger

		// optional advisory mailing on high-risk predictions
		Mailer     core.EmailService
		AdvisoryTo mail.Address
	}

	Service struct {
		deps ServiceDeps
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(deps ServiceDeps) *Service {
	return &Service{deps: deps}
}

// PredictRisk runs the pipeline for one student: fetch inputs, extract
// features, classify, score, persist. Any abort yields a structured *Error
// and never a partially-computed result. Concurrent runs for the same
// student race on the final write; last writer wins, which is acceptable
// because scores are idempotently recomputable.
func (svc *Service) PredictRisk(ctx context.Context, studentID primitive.ObjectID) (Prediction, error) {
	id := studentID.Hex()

	std, err := svc.deps.Students.GetStudentByID(ctx, studentID)
	if err != nil {
		return Prediction{}, storeError(id, err, student.ErrNotFound)
	}
	prof, err := svc.deps.Students.GetProfileByStudentID(ctx, studentID)
	if err != nil {
		return Prediction{}, storeError(id, err, student.ErrProfileNotFound)
	}
	perf, err := svc.deps.Perfs.GetPerformanceByStudentID(ctx, studentID)
	if err != nil {
		return Prediction{}, storeError(id, err, performance.ErrNotFound)
	}
	// activity absence is tolerated; only store failures abort
	activities, err := svc.deps.Perfs.ListActivitiesByStudentID(ctx, studentID)
	if err != nil {
		return Prediction{}, newError(KindStoreUnavailable, id, err)
	}

	vec := svc.deps.Extractor.Extract(std, prof, perf, activities, time.Now().UTC())

	label, err := svc.deps.Classifier.Predict(vec)
	if err != nil {
		return Prediction{}, newError(KindClassifierError, id, err)
	}
	score := svc.deps.Scorer.Score(label)

	if err = svc.deps.Writer.UpsertRisk(ctx, studentID, score, label); err != nil {
		return Prediction{}, newError(KindStoreUnavailable, id, err)
	}

	if label == LabelHigh {
		svc.sendAdvisory(std, score)
	}

	return Prediction{StudentID: id, RiskLabel: label, RiskScore: score}, nil
}

func (svc *Service) sendAdvisory(std student.Student, score int) {
	if svc.deps.Mailer == nil || svc.deps.AdvisoryTo.Address == "" {
		return
	}
	svc.deps.Mailer.SendMessages(&core.EmailMessage{
		To:      []mail.Address{svc.deps.AdvisoryTo},
		Subject: "High dropout risk: " + std.Name,
		Body: fmt.Sprintf(
			"Student %s (%s) was classified as high dropout risk (score %d). Consider reaching out.",
			std.Name, std.Email, score,
		),
	})
	if svc.deps.Logger != nil {
		svc.deps.Logger.Info("high-risk advisory sent", std.ID.Hex())
	}
}

// storeError classifies a fetch failure: a known absence sentinel maps to
// NotFound, anything else to StoreUnavailable.
func storeError(studentID string, err error, notFound error) *Error {
	if errors.Cause(err) == notFound {
		return newError(KindNotFound, studentID, err)
	}
	return newError(KindStoreUnavailable, studentID, err)
}
