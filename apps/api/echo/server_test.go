package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/course"
	"github.com/anvesha/backend/core/insights"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/core/student"
	logsvc "github.com/anvesha/backend/services/logger"
	dummydb "github.com/anvesha/backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	server *Server
	db     *dummydb.DB

	students student.Repository
	perfs    performance.Repository
	courses  course.Repository

	stdSvc student.ServiceInterface
	mailer *recordingMailer
}

type recordingMailer struct {
	sent []core.EmailMessage
}

func (m *recordingMailer) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		m.sent = append(m.sent, *msg)
	}
}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:        true,
		AppName:         "Anvesha",
		SecretKey:       "secret",
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
	}
}

func testClassifier(t *testing.T) *risk.DecisionTree {
	// attendanceRate <= 0.5 is high risk, everything else low
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

func setup(t *testing.T) *testApp {
	conf := testConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	students := dummydb.NewStudentRepository(db)
	perfs := dummydb.NewPerformanceRepository(db)
	courses := dummydb.NewCourseRepository(db)
	insightsRepo := dummydb.NewInsightsRepository(db)

	mailer := &recordingMailer{}
	perfSvc := performance.NewService(perfs, students)
	stdSvc := student.NewService(conf, students, perfSvc, mailer)
	courseSvc := course.NewService(courses, perfs)
	insightsSvc := insights.NewService(insightsRepo)
	riskSvc := risk.NewService(risk.ServiceDeps{
		Students:   students,
		Perfs:      perfs,
		Writer:     perfs,
		Extractor:  risk.NewExtractor(testEncoders()),
		Classifier: testClassifier(t),
		Scorer:     risk.Scorer{},
		Logger:     logger,
	})

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	server := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		StudentSvc:  stdSvc,
		PerfSvc:     perfSvc,
		CourseSvc:   courseSvc,
		InsightsSvc: insightsSvc,
		RiskSvc:     riskSvc,
		Validate:    validate,
		Translator:  translator,
	})

	return &testApp{
		server:   server,
		db:       db,
		students: students,
		perfs:    perfs,
		courses:  courses,
		stdSvc:   stdSvc,
		mailer:   mailer,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (app *testApp) registerStudent(t *testing.T, name, email string) student.Student {
	std, err := app.stdSvc.Register(context.Background(), student.RegisterInput{
		Name:     name,
		Email:    email,
		Password: "s3cretpass",
	})
	if err != nil {
		t.Fatalf("registerStudent() failed: %v", err)
	}
	return std
}

func (app *testApp) getToken(t *testing.T, std student.Student) string {
	token, err := app.server.auth.generateToken(app.server.auth.claims(std))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) bool {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		t.Fatalf("jsonBytesEqual() failed: %v", err)
	}
	if reflect.DeepEqual(j1, j2) {
		return true
	}
	if j1 == nil || j2 == nil {
		return false
	}
	return assert.ObjectsAreEqual(j1, j2)
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	if !jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData) {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func TestServer_home(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("code = %v, want 200", rec.Code)
	}
}
