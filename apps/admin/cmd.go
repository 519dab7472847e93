package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/course"
	"github.com/anvesha/backend/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf        *core.Config
	stdSvc      student.ServiceInterface
	studentRepo student.Repository
	courseRepo  course.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  seedcourses -file FILE          - import the course catalog from a JSON file")
	fmt.Println("  addstudent -email EMAIL         - create a student account. The password will be prompted next")
	fmt.Println("  resetpassword -email EMAIL      - reset a student's password. The new password will be prompted next")
	fmt.Println("  checkmodel                      - load and validate the model artifacts")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCoursesCmd := flag.NewFlagSet("seedcourses", flag.ExitOnError)
	seedCoursesFile := seedCoursesCmd.String("file", "", "Path to a JSON array of courses.")

	addStudentCmd := flag.NewFlagSet("addstudent", flag.ExitOnError)
	addStudentEmail := addStudentCmd.String("email", "", "The student's email. The password will be prompted next.")
	addStudentName := addStudentCmd.String("name", "", "The student's full name. Defaults to the email's local part.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The student's email. The new password will be prompted next.")

	switch args[1] {
	case "seedcourses":
		if err := seedCoursesCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedCoursesFile == "" {
			seedCoursesCmd.Usage()
			return errHelp
		}
		return cli.seedCourses(*seedCoursesFile)
	case "addstudent":
		if err := addStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addStudentEmail == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentEmail, string(pwd))
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter new password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))
	case "checkmodel":
		return cli.checkModel()
	default:
		cli.printUsage()
		return errHelp
	}
}
