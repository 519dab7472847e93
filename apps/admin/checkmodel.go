package main

import (
	"fmt"

	modelsvc "github.com/anvesha/backend/services/model"
)

// checkModel loads both model artifacts and validates their feature schema,
// the same checks the API performs at startup.
func (cli *commandLine) checkModel() error {
	classifier, err := modelsvc.LoadClassifier(cli.conf.Model.ClassifierPath)
	if err != nil {
		return err
	}
	fmt.Printf("classifier ok: %s (labels: %v)\n", cli.conf.Model.ClassifierPath, classifier.Labels())

	if _, err = modelsvc.LoadEncoders(cli.conf.Model.EncodersPath); err != nil {
		return err
	}
	fmt.Printf("encoders ok: %s\n", cli.conf.Model.EncodersPath)
	return nil
}
