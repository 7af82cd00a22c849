// Package performance computes the money-weighted rate of return (IRR) of a
// security or a portfolio over a reporting period.
//
// The computation works in two steps:
//   - Accumulation: an IRRCalculation visits an ordered sequence of line
//     items (valuations at the period boundaries, dividend payments and
//     transactions) and turns each of them into zero or one signed cash flow,
//     converted into a single currency by a CurrencyConverter.
//   - Solving: the irr package finds the annual rate that zeroes the net
//     present value of the accumulated cash flows.
//
// Monetary amounts are exact (Money counts minor currency units) until they
// enter the cash-flow series.
//
// Line items and exchange rates are read from JSONL files (see
// DecodeStatement and DecodeRates), which is what the `mwr` command-line tool
// does.
package performance
