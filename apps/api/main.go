package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enroll"
	"github.com/trezcool/darasa/core/quiz"
	"github.com/trezcool/darasa/core/report"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var logger core.Logger
	if core.Conf.Debug || core.Conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()
	if err = database.Migrate(db.DB); err != nil {
		logger.Fatal("migrating database", err)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	enrollSvc := enroll.NewService(sqlxrepos.NewEnrollmentRepository(db), courseSvc, mailSvc)
	quizSvc := quiz.NewService(sqlxrepos.NewAttemptRepository(db), courseSvc, enrollSvc)
	reportSvc := report.NewService(courseSvc, enrollSvc, quizSvc)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:   core.Conf.Server.Address(),
			Logger:    logger,
			UserSvc:   usrSvc,
			CourseSvc: courseSvc,
			EnrollSvc: enrollSvc,
			QuizSvc:   quizSvc,
			ReportSvc: reportSvc,
		},
	)
	if err := app.Start(); err != nil {
		logger.Fatal("server error", err)
	}
}
