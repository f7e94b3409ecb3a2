// Command sendxpt converts schema-described CSV datasets into SAS V5
// transport files. It also inspects existing transport files, lists the
// domains the schema registry knows, and generates Define-XML metadata.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sendstack/sendxpt/core/normalize"
	"github.com/sendstack/sendxpt/core/schema"
	"github.com/sendstack/sendxpt/core/xpt"
	"github.com/sendstack/sendxpt/internal/convert"
	"github.com/sendstack/sendxpt/internal/definexml"
	"github.com/sendstack/sendxpt/internal/logging"
)

const version = "0.2.0"

// Exit codes. A transport file that was written but carries a failing
// validation report is a partial success, not a fatal error.
const (
	exitFatal        = 1
	exitReportFailed = 2
)

// CLI defines the command-line interface for sendxpt.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"SENDXPT_LOG_LEVEL" help:"Log level"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"SENDXPT_LOG_FORMAT" help:"Log output format"`
	SchemaDir string `name:"schema-dir" type:"existingdir" env:"SENDXPT_SCHEMA_DIR" help:"Directory of JSON schema files merged over the builtin registry"`

	Convert ConvertCmd `cmd:"" help:"Convert a CSV dataset to a transport file"`
	Inspect InspectCmd `cmd:"" help:"Summarize an existing transport file"`
	Domains DomainsCmd `cmd:"" help:"List domains the schema registry knows"`
	Define  DefineCmd  `cmd:"" help:"Generate a Define-XML metadata document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// registry builds the schema registry, merging --schema-dir over the
// builtin SEND domain schemas.
func registry() (*schema.Registry, error) {
	reg := schema.BuiltinRegistry()
	if CLI.SchemaDir != "" {
		if err := reg.LoadDir(CLI.SchemaDir); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// ConvertCmd converts one CSV input into a transport file.
type ConvertCmd struct {
	Input  string `arg:"" help:"CSV input file" type:"existingfile"`
	Domain string `arg:"" help:"Dataset domain code (e.g. TE)"`
	Output string `arg:"" help:"Transport file to write"`

	OnBadNumeric   string `name:"on-bad-numeric" default:"zero" enum:"zero,flag,reject" help:"Policy for unparseable numeric tokens"`
	Backup         bool   `name:"backup" default:"true" negatable:"" help:"Write a CSV echo of the normalized dataset next to the output"`
	CompressBackup bool   `name:"compress-backup" help:"Compress the backup echo with xz"`
	Manifest       string `name:"manifest" help:"Write a JSON run manifest to this path"`
	Created        string `name:"created" help:"Header timestamp as RFC 3339 (defaults to the Unix epoch for reproducible output)"`
}

func (c *ConvertCmd) Run() error {
	reg, err := registry()
	if err != nil {
		return err
	}
	policy, err := normalize.ParsePolicy(c.OnBadNumeric)
	if err != nil {
		return err
	}
	opts := convert.Options{
		Policy:         policy,
		Backup:         c.Backup,
		CompressBackup: c.CompressBackup,
		ManifestPath:   c.Manifest,
	}
	if c.Created != "" {
		created, err := time.Parse(time.RFC3339, c.Created)
		if err != nil {
			return fmt.Errorf("parsing --created: %w", err)
		}
		opts.Created = created
	}

	out, err := convert.Run(reg, c.Input, c.Domain, c.Output, opts)
	if out != nil {
		printSummary(out)
	}
	return err
}

func printSummary(out *convert.Outcome) {
	fmt.Printf("Domain:   %s\n", out.Dataset.Domain)
	fmt.Printf("Records:  %d\n", out.Dataset.Len())
	fmt.Printf("Output:   %s\n", out.OutputPath)
	if out.BackupPath != "" {
		fmt.Printf("Backup:   %s\n", out.BackupPath)
	}
	if out.ManifestPath != "" {
		fmt.Printf("Manifest: %s\n", out.ManifestPath)
	}
	if counts := out.Normalization.Counts(); len(counts) > 0 {
		fmt.Printf("Normalization outcomes:\n")
		for kind, n := range counts {
			fmt.Printf("  %s: %d\n", kind, n)
		}
	}
	if out.Report.Valid {
		fmt.Printf("Validation: PASSED\n")
	} else {
		fmt.Printf("Validation: FAILED\n")
		for _, v := range out.Report.Violations {
			fmt.Printf("  - %s\n", v)
		}
	}
	if out.RoundTrip.OK {
		fmt.Printf("Round-trip: OK (%d records decoded)\n", out.RoundTrip.DecodedRecords)
	} else {
		fmt.Printf("Round-trip: FAILED\n")
		for _, w := range out.RoundTrip.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}

// InspectCmd prints the member, variables, and record count of a
// transport file.
type InspectCmd struct {
	Path string `arg:"" help:"Transport file to inspect" type:"existingfile"`
}

func (c *InspectCmd) Run() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := xpt.Decode(f)
	if err != nil {
		return err
	}

	fmt.Printf("Member:  %s\n", file.Member)
	if file.Label != "" {
		fmt.Printf("Label:   %s\n", file.Label)
	}
	fmt.Printf("Records: %d\n", len(file.Observations))
	fmt.Printf("Variables:\n")
	for _, v := range file.Variables {
		kind := "Char"
		if v.Numeric {
			kind = "Num"
		}
		fmt.Printf("  %-8s  %-4s  length %d\n", v.Name, kind, v.Length)
	}
	return nil
}

// DomainsCmd lists every domain the registry can convert.
type DomainsCmd struct{}

func (c *DomainsCmd) Run() error {
	reg, err := registry()
	if err != nil {
		return err
	}
	for _, domain := range reg.Domains() {
		s, err := reg.Lookup(domain)
		if err != nil {
			return err
		}
		fmt.Printf("%-4s %s (%d variables)\n", s.Domain, s.Label, len(s.Variables))
	}
	return nil
}

// DefineCmd generates a Define-XML document for registry domains.
type DefineCmd struct {
	Output      string   `arg:"" help:"Define-XML file to write"`
	Domains     []string `name:"domains" help:"Domains to include (default: all registered)"`
	StudyID     string   `name:"study-id" help:"Study identifier for the document header"`
	StudyName   string   `name:"study-name" help:"Study name for the document header"`
	Description string   `name:"description" help:"Study description for the document header"`
}

func (c *DefineCmd) Run() error {
	reg, err := registry()
	if err != nil {
		return err
	}
	opts := definexml.Options{
		StudyID:     c.StudyID,
		StudyName:   c.StudyName,
		Description: c.Description,
	}
	if err := definexml.Write(c.Output, reg, c.Domains, opts); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", c.Output)
	return nil
}

// VersionCmd prints the version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("sendxpt version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sendxpt"),
		kong.Description("Schema-driven CSV to SAS V5 transport converter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	logging.Init(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sendxpt: %v\n", err)
		if errors.Is(err, convert.ErrReportFailed) {
			os.Exit(exitReportFailed)
		}
		os.Exit(exitFatal)
	}
}
