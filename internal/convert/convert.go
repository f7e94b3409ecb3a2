// Package convert runs the full dataset conversion pipeline: load a CSV
// against its domain schema, normalize records, validate, encode a SAS
// transport file, echo a backup of the normalized input, verify the
// transport round-trips, and write a run manifest.
package convert

import (
	stderrors "errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sendstack/sendxpt/core/dataset"
	"github.com/sendstack/sendxpt/core/errors"
	"github.com/sendstack/sendxpt/core/loader"
	"github.com/sendstack/sendxpt/core/normalize"
	"github.com/sendstack/sendxpt/core/schema"
	"github.com/sendstack/sendxpt/core/validate"
	"github.com/sendstack/sendxpt/core/verify"
	"github.com/sendstack/sendxpt/core/xpt"
	"github.com/sendstack/sendxpt/internal/backup"
	"github.com/sendstack/sendxpt/internal/logging"
	"github.com/sendstack/sendxpt/internal/manifest"
	"github.com/sendstack/sendxpt/internal/validation"
)

// ErrReportFailed signals that a transport file was written but the
// validation report carries violations. Callers treat this as a partial
// success distinct from a fatal error.
var ErrReportFailed = stderrors.New("validation report has violations")

// Options tunes a conversion run. The zero value zero-fills bad
// numerics, skips the backup echo, and stamps headers with the epoch.
type Options struct {
	Policy         normalize.NumericPolicy
	Backup         bool
	CompressBackup bool
	ManifestPath   string
	Created        time.Time
}

// Outcome collects everything a run produced, whether or not the
// report passed.
type Outcome struct {
	RunID         string
	Dataset       *dataset.Dataset
	Report        validate.Report
	Normalization *normalize.Result
	RoundTrip     verify.Result
	OutputPath    string
	BackupPath    string
	ManifestPath  string
}

// Run converts one CSV input into a transport file for the named domain.
// The transport file is written even when validation fails; in that case
// the returned error wraps ErrReportFailed and the Outcome is still
// populated. Any other error means no usable output was produced.
func Run(reg *schema.Registry, input, domain, output string, opts Options) (*Outcome, error) {
	for _, p := range []string{input, output} {
		if err := validation.ValidatePath(p); err != nil {
			return nil, err
		}
	}

	s, err := reg.Lookup(domain)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logging.WithRun(runID).With("domain", s.Domain, "input", input)

	d, err := loader.ReadFile(input, s)
	if err != nil {
		return nil, err
	}
	log.Info("loaded input", "records", d.Len())

	norm, err := normalize.Apply(d, normalize.Options{Policy: opts.Policy})
	if err != nil {
		return nil, err
	}
	if counts := norm.Counts(); len(counts) > 0 {
		log.Info("normalized records", "outcomes", counts)
	}

	report := validate.Check(d)
	for _, v := range report.Violations {
		log.Warn("validation violation", "detail", v)
	}

	encoded, err := xpt.EncodeBytes(d, xpt.Options{Created: opts.Created})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(output, encoded, 0o644); err != nil {
		return nil, errors.NewIO("write", output, err)
	}
	log.Info("wrote transport file", "path", output, "bytes", len(encoded))

	out := &Outcome{
		RunID:         runID,
		Dataset:       d,
		Report:        report,
		Normalization: norm,
		OutputPath:    output,
	}

	// From here on the transport file is on disk, so failures return the
	// populated Outcome alongside the error.
	if opts.Backup {
		path, err := backup.Write(output+".backup.csv", d, opts.CompressBackup)
		if err != nil {
			return out, err
		}
		out.BackupPath = path
		log.Info("wrote backup echo", "path", path)
	}

	out.RoundTrip = verify.RoundTrip(encoded, d)
	for _, w := range out.RoundTrip.Warnings {
		log.Warn("round-trip warning", "detail", w)
	}

	if opts.ManifestPath != "" {
		if err := writeManifest(out, input, opts.ManifestPath); err != nil {
			return out, err
		}
		out.ManifestPath = opts.ManifestPath
		log.Info("wrote manifest", "path", opts.ManifestPath)
	}

	if !report.Valid {
		return out, errors.Wrapf(ErrReportFailed, "domain %s", s.Domain)
	}
	return out, nil
}

func writeManifest(out *Outcome, input, path string) error {
	m := manifest.New(out.Dataset.Domain, input)
	m.RunID = out.RunID
	m.Records = out.Dataset.Len()
	m.Validation = out.Report
	m.Normalization = out.Normalization.Counts()
	m.RoundTrip = out.RoundTrip
	if err := m.AddOutput(out.OutputPath); err != nil {
		return err
	}
	if out.BackupPath != "" {
		if err := m.AddOutput(out.BackupPath); err != nil {
			return err
		}
	}
	return m.Write(path)
}
