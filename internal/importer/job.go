package importer

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrMissingInput is returned before any I/O when a path field is empty.
var ErrMissingInput = errors.New("please fill in all fields")

// Job is one import request built from the form fields.
type Job struct {
	ID           string
	SourceCSV    string
	TemplatePath string
	OutputPath   string
	User         string
}

// NewJob trims the paths and gives an output path without an extension
// the ".xlsx" suffix.
func NewJob(sourceCSV, templatePath, outputPath, user string) Job {
	return Job{
		ID:           uuid.NewString(),
		SourceCSV:    strings.TrimSpace(sourceCSV),
		TemplatePath: strings.TrimSpace(templatePath),
		OutputPath:   OutputPath(outputPath),
		User:         user,
	}
}

// OutputPath trims path and appends ".xlsx" when it has no extension.
func OutputPath(path string) string {
	path = strings.TrimSpace(path)
	if path != "" && filepath.Ext(path) == "" {
		path += ".xlsx"
	}
	return path
}

// Validate checks that all three paths are filled in.
func (j Job) Validate() error {
	if j.SourceCSV == "" || j.TemplatePath == "" || j.OutputPath == "" {
		return ErrMissingInput
	}
	return nil
}

// Basenames returns the file names of the CSV, template and output paths.
func (j Job) Basenames() (string, string, string) {
	return filepath.Base(j.SourceCSV), filepath.Base(j.TemplatePath), filepath.Base(j.OutputPath)
}
