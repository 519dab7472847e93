package main

import (
	"context"

	"github.com/anvesha/backend/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	std, err := cli.studentRepo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := std.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.studentRepo.UpdateStudent(ctx, std)
	return err
}
