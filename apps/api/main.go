package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/anvesha/backend/apps/api/echo"
	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/course"
	"github.com/anvesha/backend/core/insights"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/risk"
	"github.com/anvesha/backend/core/student"
	emailsvc "github.com/anvesha/backend/services/email"
	logsvc "github.com/anvesha/backend/services/logger"
	modelsvc "github.com/anvesha/backend/services/model"
	"github.com/anvesha/backend/storage/database"
	mongorepos "github.com/anvesha/backend/storage/database/mongodb"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, closeDB, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer closeDB()

	// load model artifacts; a schema mismatch is fatal at startup rather
	// than a per-request failure
	classifier, err := modelsvc.LoadClassifier(conf.Model.ClassifierPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading classifier: %v", err), err)
	}
	encoders, err := modelsvc.LoadEncoders(conf.Model.EncodersPath)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading encoders: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	studentRepo := mongorepos.NewStudentRepository(db)
	perfRepo := mongorepos.NewPerformanceRepository(db)
	courseRepo := mongorepos.NewCourseRepository(db)
	insightsRepo := mongorepos.NewInsightsRepository(db)

	perfSvc := performance.NewService(perfRepo, studentRepo)
	stdSvc := student.NewService(conf, studentRepo, perfSvc, mailSvc)
	courseSvc := course.NewService(courseRepo, perfRepo)
	insightsSvc := insights.NewService(insightsRepo)
	riskSvc := risk.NewService(risk.ServiceDeps{
		Students:   studentRepo,
		Perfs:      perfRepo,
		Writer:     perfRepo,
		Extractor:  risk.NewExtractor(encoders),
		Classifier: classifier,
		Scorer:     risk.Scorer{},
		Logger:     logger,
		Mailer:     mailSvc,
		AdvisoryTo: conf.AdvisoryEmail,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.Publish("modelUnseenCategories", expvar.Func(func() interface{} {
		return encoders.UnseenCount()
	}))

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			StudentSvc:  stdSvc,
			PerfSvc:     perfSvc,
			CourseSvc:   courseSvc,
			InsightsSvc: insightsSvc,
			RiskSvc:     riskSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
