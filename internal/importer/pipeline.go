package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"otterWizard/internal/excel"
	"otterWizard/internal/logger"
)

// Progress checkpoints reported after each step.
const (
	ProgressCopied   = 10
	ProgressOpened   = 30
	ProgressParsed   = 50
	ProgressWritten  = 70
	ProgressSaved    = 90
	ProgressLaunched = 100
)

// ErrSameFile is returned when the output path names the template itself.
var ErrSameFile = errors.New("output file is the template file")

// ProgressFunc receives a percentage after each completed step.
type ProgressFunc func(percent int)

// Options controls where imported rows land in the workbook.
type Options struct {
	Sheet      string
	StartRow   int
	StartCol   int
	ClearSheet bool
	OpenOutput bool
}

// DefaultOptions writes to sheet "Input" from A1 and opens the result.
func DefaultOptions() Options {
	return Options{
		Sheet:      "Input",
		StartRow:   1,
		StartCol:   1,
		OpenOutput: true,
	}
}

// Pipeline copies a template workbook and fills one sheet from a CSV file.
type Pipeline struct {
	opts   Options
	opener Opener
}

// New returns a Pipeline. A nil opener uses SystemOpener.
func New(opts Options, opener Opener) *Pipeline {
	if opts.Sheet == "" {
		opts.Sheet = "Input"
	}
	if opts.StartRow < 1 {
		opts.StartRow = 1
	}
	if opts.StartCol < 1 {
		opts.StartCol = 1
	}
	if opener == nil {
		opener = SystemOpener
	}
	return &Pipeline{opts: opts, opener: opener}
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// Run executes the import. Nothing is rolled back on failure: whatever was
// written to the output path stays there. Cancellation is observed between
// steps.
func (p *Pipeline) Run(ctx context.Context, job Job, progress ProgressFunc) error {
	if err := job.Validate(); err != nil {
		return err
	}
	if progress == nil {
		progress = func(int) {}
	}

	logger.Debug("Starting import", "job", job.ID, "csv", job.SourceCSV, "template", job.TemplatePath, "output", job.OutputPath)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := copyFile(job.TemplatePath, job.OutputPath); err != nil {
		return fmt.Errorf("failed to copy template: %w", err)
	}
	progress(ProgressCopied)

	if err := ctx.Err(); err != nil {
		return err
	}
	editor, err := excel.OpenFile(job.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", job.OutputPath, err)
	}
	defer editor.Close()

	created, err := editor.EnsureSheet(p.opts.Sheet)
	if err != nil {
		return err
	}
	if !created && p.opts.ClearSheet {
		if err := editor.ClearSheet(p.opts.Sheet); err != nil {
			return fmt.Errorf("failed to clear sheet %s: %w", p.opts.Sheet, err)
		}
	}
	logger.Debug("Workbook opened", "job", job.ID, "sheet", p.opts.Sheet, "created", created, "sheets", strings.Join(editor.GetSheetNames(), ","))
	progress(ProgressOpened)

	if err := ctx.Err(); err != nil {
		return err
	}
	rows, err := ReadCSV(job.SourceCSV)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", job.SourceCSV, err)
	}
	progress(ProgressParsed)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := editor.WriteRows(p.opts.Sheet, p.opts.StartRow, p.opts.StartCol, rows, 1); err != nil {
		return err
	}
	logger.Debug("Rows written", "job", job.ID, "rows", len(rows))
	progress(ProgressWritten)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := editor.Save(); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", job.OutputPath, err)
	}
	progress(ProgressSaved)

	if p.opts.OpenOutput {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.opener.Open(job.OutputPath); err != nil {
			return fmt.Errorf("failed to open %s: %w", job.OutputPath, err)
		}
	}
	progress(ProgressLaunched)

	return nil
}

// copyFile copies src to dst byte for byte, truncating dst. It refuses to
// copy a file onto itself.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return fmt.Errorf("%w: %s", ErrSameFile, dst)
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
