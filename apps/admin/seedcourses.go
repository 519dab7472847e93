package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/anvesha/backend/core/course"
)

// seedCourses imports a JSON catalog file into the courses collection.
func (cli *commandLine) seedCourses(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}

	var courses []course.Course
	if err = json.Unmarshal(data, &courses); err != nil {
		return errors.Wrapf(err, "parsing %s", path)
	}
	if len(courses) == 0 {
		return errors.Errorf("%s: no courses found", path)
	}

	if err = cli.courseRepo.CreateCourses(context.Background(), courses); err != nil {
		return err
	}
	fmt.Printf("%d courses imported\n", len(courses))
	return nil
}
