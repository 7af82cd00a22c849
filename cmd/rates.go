package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/performance"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// ratesCmd holds the flags for the 'rates' subcommand.
type ratesCmd struct {
	in      string
	path    string
	pair    string
	dateKey string
	rateKey string
	out     string
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "import exchange rates from a JSON document" }
func (*ratesCmd) Usage() string {
	return `mwr rates -in <doc.json> -path <jsonpath> -pair <pair> [-date <key>] [-rate <key>] [-o <rates.jsonl>]

  Extracts the observations selected by a jsonpath expression, like
  '$.observations[*]', from a JSON document and writes them as JSONL rates.

  When the output file exists, the new rates are merged into it.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in, "in", "", "JSON document to import from")
	f.StringVar(&c.path, "path", "$[*]", "jsonpath expression selecting the observations")
	f.StringVar(&c.pair, "pair", "", "Forex pair of the observations, like USDEUR for the price of one USD in EUR")
	f.StringVar(&c.dateKey, "date", "date", "Key of the observation day")
	f.StringVar(&c.rateKey, "rate", "rate", "Key of the observation rate")
	f.StringVar(&c.out, "o", "", "Rates file to merge into. Defaults to printing on stdout.")
}

func (c *ratesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.in == "" || c.pair == "" {
		fmt.Fprintln(os.Stderr, "Error: -in and -pair flags are required")
		return subcommands.ExitUsageError
	}
	base, quote, err := performance.SplitPair(c.pair)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if _, err := setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}

	doc, err := os.Open(c.in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.in, err)
		return subcommands.ExitFailure
	}
	defer doc.Close()
	rates, err := performance.ImportRates(doc, c.path, c.pair, c.dateKey, c.rateKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", c.in, err)
		return subcommands.ExitFailure
	}

	// The converter currency is irrelevant, it only holds the series.
	conv, err := decodeRates(quote, c.out)
	if errors.Is(err, fs.ErrNotExist) {
		conv, err = performance.NewForexConverter(quote), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	for _, r := range rates {
		if err := conv.Append(r.On, r.Pair, r.Rate); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	log.Info().Str("base", base).Str("quote", quote).Int("rates", len(rates)).Msg("rates imported")

	if c.out == "" {
		if err := performance.EncodeRates(stdout, conv.Rates()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	w, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	defer w.Close()
	if err := performance.EncodeRates(w, conv.Rates()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Successfully wrote %d rates to %s\n", len(rates), c.out)
	return subcommands.ExitSuccess
}
