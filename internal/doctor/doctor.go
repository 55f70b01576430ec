// Package doctor inspects the environment the tool runs in and renders a
// human-readable health report.
package doctor

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Status grades one check.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the finding of a single validator.
type Result struct {
	Status  Status
	Summary string
	Details []string
}

// Validator performs one environment check.
type Validator interface {
	Title() string
	Validate(ctx context.Context) Result
}

// Options control rendering. The crash reporter always asks for verbose,
// colorless output so the captured text is complete and machine-safe.
type Options struct {
	Verbose bool
	NoColor bool
}

type Doctor struct {
	validators []Validator
}

// New builds a doctor over the default validator set plus any extras.
func New(extra ...Validator) *Doctor {
	validators := []Validator{
		&hostValidator{},
		&resourceValidator{},
		&toolsValidator{tools: []string{"git"}},
	}
	return &Doctor{validators: append(validators, extra...)}
}

// NewWithValidators builds a doctor over exactly the given checks.
func NewWithValidators(validators ...Validator) *Doctor {
	return &Doctor{validators: validators}
}

// Run executes every validator and writes the report to w.
func (d *Doctor) Run(ctx context.Context, w io.Writer, opts Options) error {
	type finding struct {
		title  string
		result Result
	}

	findings := make([]finding, 0, len(d.validators))
	for _, v := range d.validators {
		findings = append(findings, finding{title: v.Title(), result: v.Validate(ctx)})
	}

	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "%s %s: %s\n",
			mark(f.result.Status, opts.NoColor), f.title, f.result.Summary); err != nil {
			return err
		}
		if opts.Verbose {
			for _, detail := range f.result.Details {
				if _, err := fmt.Fprintf(w, "    %s\n", detail); err != nil {
					return err
				}
			}
		}
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("  ")
	for _, f := range findings {
		table.Append([]string{"  " + f.title, f.result.Status.String()})
	}
	table.Render()
	return nil
}

// Summary runs every validator verbosely, without color, into a throwaway
// sink and returns the captured text. This is the form the crash reporter
// embeds in its report.
func (d *Doctor) Summary(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := d.Run(ctx, &buf, Options{Verbose: true, NoColor: true}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const (
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiReset  = "\x1b[0m"
)

func mark(s Status, noColor bool) string {
	var glyph, color string
	switch s {
	case StatusOK:
		glyph, color = "[ok]", ansiGreen
	case StatusWarning:
		glyph, color = "[!!]", ansiYellow
	default:
		glyph, color = "[xx]", ansiRed
	}
	if noColor {
		return glyph
	}
	return color + glyph + ansiReset
}
