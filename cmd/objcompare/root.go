package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/freewebtopdf/objcompare/internal/domain"
	"github.com/freewebtopdf/objcompare/internal/factory"
	"github.com/freewebtopdf/objcompare/internal/loader"
	"github.com/freewebtopdf/objcompare/internal/report"
)

// Exit codes: 1 when documents differ, 2 for usage and configuration errors.
const (
	exitOK       = 0
	exitMismatch = 1
	exitError    = 2
)

var errMismatch = errors.New("documents do not match")

// detailValue is a pflag.Value that rejects unknown detail levels at parse time
type detailValue domain.Detail

var _ pflag.Value = (*detailValue)(nil)

func (d *detailValue) String() string { return string(*d) }

func (d *detailValue) Set(s string) error {
	detail, err := domain.ParseDetail(s)
	if err != nil {
		return fmt.Errorf("must be one of failures, differences, all")
	}
	*d = detailValue(detail)
	return nil
}

func (d *detailValue) Type() string { return "detail" }

// formatValue is a pflag.Value restricted to the supported output formats
type formatValue string

var _ pflag.Value = (*formatValue)(nil)

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(s string) error {
	switch s {
	case domain.LogFormatTable, domain.LogFormatJSON:
		*f = formatValue(s)
		return nil
	default:
		return fmt.Errorf("must be one of table, json")
	}
}

func (f *formatValue) Type() string { return "format" }

type globalOptions struct {
	logLevel string
}

type compareOptions struct {
	profile string
	detail  detailValue
	format  formatValue
}

// run executes the CLI and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errMismatch):
		return exitMismatch
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "objcompare",
		Short:         "Compare JSON documents field by field",
		Long:          "objcompare compares two JSON documents structurally, applying the tolerance and behavior rules of a comparison profile.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for comparison events (debug, info, warn, error)")

	root.AddCommand(newCompareCmd(opts, stdout, stderr))
	root.AddCommand(newValidateCmd(stdout))

	return root
}

func newCompareCmd(global *globalOptions, stdout, stderr io.Writer) *cobra.Command {
	opts := &compareOptions{
		detail: detailValue(domain.DetailFailures),
		format: formatValue(domain.LogFormatTable),
	}

	cmd := &cobra.Command{
		Use:     "compare [flags] expected.json actual.json",
		Short:   "Compare two JSON documents",
		Example: "objcompare compare --profile nutrition.profile.yaml --detail differences expected.json actual.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			logger, err := newLogger(global.logLevel, stderr)
			if err != nil {
				return err
			}
			return runCompare(opts, args[0], args[1], logger, stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "comparison profile file (YAML or JSON)")
	cmd.Flags().VarP(&opts.detail, "detail", "d", "fields to report: failures, differences or all")
	cmd.Flags().VarP(&opts.format, "format", "f", "output format: table or json")

	return cmd
}

func newValidateCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate profile.yaml",
		Short: "Check a comparison profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			comparer, err := factory.CreateFromFile(args[0], factory.WithLogger(zerolog.Nop()))
			if err != nil {
				return err
			}

			printBanner(stdout, "profile valid", true)
			fmt.Fprintf(stdout, "Name:   %s\n", comparer.Name())
			fmt.Fprintf(stdout, "Fields: %d\n", comparer.Rules().Len())
			fmt.Fprintf(stdout, "Hash:   %s\n", comparer.ProfileHash())
			return nil
		},
	}
}

func runCompare(opts *compareOptions, expectedPath, actualPath string, logger zerolog.Logger, stdout io.Writer) error {
	factoryOpts := []factory.Option{factory.WithLogger(logger)}

	var (
		comparer *factory.Comparer
		err      error
	)
	if opts.profile != "" {
		comparer, err = factory.CreateFromFile(opts.profile, factoryOpts...)
	} else {
		comparer, err = factory.Create(domain.NewProfile(), factoryOpts...)
	}
	if err != nil {
		return err
	}

	expected, err := loader.DecodeDocumentFile(expectedPath)
	if err != nil {
		return err
	}
	actual, err := loader.DecodeDocumentFile(actualPath)
	if err != nil {
		return err
	}

	result := comparer.Compare(expected, actual)
	detail := domain.Detail(opts.detail)

	if err := writeResult(stdout, result, detail, string(opts.format), comparer.ProfileHash()); err != nil {
		return err
	}

	if !result.Matches() {
		return errMismatch
	}
	return nil
}

type compareOutput struct {
	Matches     bool                 `json:"matches"`
	Summary     string               `json:"summary"`
	ProfileHash string               `json:"profile_hash"`
	Detail      domain.Detail        `json:"detail"`
	Fields      []domain.FieldResult `json:"fields"`
}

func writeResult(w io.Writer, result *report.FullComparisonResult, detail domain.Detail, format, hash string) error {
	visibleFields, err := result.ForDetail(detail)
	if err != nil {
		return err
	}

	if format == domain.LogFormatJSON {
		fields := visibleFields.Fields()
		if fields == nil {
			fields = []domain.FieldResult{}
		}
		data, err := json.MarshalIndent(compareOutput{
			Matches:     result.Matches(),
			Summary:     result.Summary(),
			ProfileHash: hash,
			Detail:      detail,
			Fields:      fields,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	table, err := result.FormatTable(detail)
	if err != nil {
		return err
	}

	if result.Matches() {
		printBanner(w, "comparison passed", true)
	} else {
		printBanner(w, "comparison failed", false)
	}
	fmt.Fprintln(w, result.Summary())
	fmt.Fprintln(w, table)
	return nil
}

// printBanner writes a title-cased status line, green on success and red otherwise
func printBanner(w io.Writer, text string, ok bool) {
	title := cases.Title(language.English).String(text)

	paint := color.New(color.FgHiRed, color.Bold)
	if ok {
		paint = color.New(color.FgHiGreen, color.Bold)
	}
	paint.Fprintf(w, "== %s ==\n", title)
}

func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q", level)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
