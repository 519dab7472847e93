package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/anvesha/backend/core"
	"github.com/anvesha/backend/core/student"
)

// addStudent registers a student account with its default profile and
// analytics records. Existing emails are rejected.
func (cli *commandLine) addStudent(name, email, pwd string) error {
	email = core.CleanString(email, true /* lower */)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	std, err := cli.stdSvc.Register(context.Background(), student.RegisterInput{
		Name:     name,
		Email:    email,
		Password: pwd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("student created: %s (%s)\n", std.Name, std.ID.Hex())
	return nil
}
