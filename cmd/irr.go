package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/performance"
	"github.com/etnz/performance/renderer"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// irrCmd holds the flags for the 'irr' subcommand.
type irrCmd struct {
	statement string
	rates     string
	currency  string
	workers   int
	raw       bool
}

func (*irrCmd) Name() string     { return "irr" }
func (*irrCmd) Synopsis() string { return "money-weighted return of each entity of a statement" }
func (*irrCmd) Usage() string {
	return `mwr irr -s <statement.jsonl> [-r <rates.jsonl>] [-c <currency>] [-workers <n>] [-raw]

  Computes the annualized money-weighted return (IRR) of each entity of the
  statement, in the reporting currency.
`
}

func (c *irrCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.statement, "s", "", "Statement file (JSONL line items)")
	f.StringVar(&c.rates, "r", "", "Exchange rates file (JSONL). Defaults to the configuration's rates_file.")
	f.StringVar(&c.currency, "c", "", "Reporting currency. Defaults to the configuration's currency.")
	f.IntVar(&c.workers, "workers", -1, "Entities computed in parallel, 0 for no limit. Defaults to the configuration's workers.")
	f.BoolVar(&c.raw, "raw", false, "Print raw markdown instead of rendering it")
}

func (c *irrCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.statement == "" {
		fmt.Fprintln(os.Stderr, "Error: -s flag is required")
		return subcommands.ExitUsageError
	}
	config, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.currency != "" {
		config.Currency = c.currency
	}
	if c.rates != "" {
		config.RatesFile = c.rates
	}
	if c.workers >= 0 {
		config.Workers = c.workers
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	entities, err := decodeStatement(c.statement)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading statement %q: %v\n", c.statement, err)
		return subcommands.ExitFailure
	}
	conv, err := decodeRates(config.Currency, config.RatesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates %q: %v\n", config.RatesFile, err)
		return subcommands.ExitFailure
	}
	log.Info().Str("statement", c.statement).Int("entities", len(entities)).Int("pairs", conv.Pairs()).Str("currency", config.Currency).Msg("computing returns")

	results, err := performance.CalculateAll(ctx, conv, entities, config.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing returns: %v\n", err)
		return subcommands.ExitFailure
	}

	report := &renderer.Report{
		Title:    "Money-weighted returns",
		Currency: config.Currency,
	}
	for _, r := range results {
		log.Debug().Str("entity", r.Name).Int("flows", r.Flows).Float64("irr", r.IRR).Msg("return computed")
		report.Rows = append(report.Rows, renderer.Row{Name: r.Name, IRR: r.IRR, Flows: r.Flows, Span: r.Span})
	}

	md := renderer.IRRMarkdown(report)
	if c.raw {
		fmt.Fprint(stdout, md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}

func decodeStatement(filename string) ([]performance.Entity, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return performance.DecodeStatement(f)
}

// decodeRates returns a converter into currency with the rates of filename, if any.
func decodeRates(currency, filename string) (*performance.ForexConverter, error) {
	conv := performance.NewForexConverter(currency)
	if filename == "" {
		return conv, nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := conv.DecodeRates(f); err != nil {
		return nil, err
	}
	return conv, nil
}
