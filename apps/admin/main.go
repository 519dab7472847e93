package main

import (
	"log"
	"os"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/student"
	emailsvc "github.com/anvesha/backend/services/email"
	"github.com/anvesha/backend/storage/database"
	mongorepos "github.com/anvesha/backend/storage/database/mongodb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, closeDB, err := database.Open(conf)
	errAndDie(err)
	defer closeDB()

	studentRepo := mongorepos.NewStudentRepository(db)
	perfRepo := mongorepos.NewPerformanceRepository(db)
	perfSvc := performance.NewService(perfRepo, studentRepo)
	mailSvc := emailsvc.NewConsoleService(conf)

	// start CLI
	cli := commandLine{
		conf:        conf,
		stdSvc:      student.NewService(conf, studentRepo, perfSvc, mailSvc),
		studentRepo: studentRepo,
		courseRepo:  mongorepos.NewCourseRepository(db),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
