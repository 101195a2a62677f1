package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"jibajeti/internal/cli"
	"jibajeti/internal/currency"
)

type currencyCmd struct{}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show or change the display currency" }
func (*currencyCmd) Usage() string {
	return `jibajeti currency [code]

  Without an argument, lists the supported currencies and marks the active
  one. With a code (USD, TZS, UGX, KES, GBP), switches to it.
`
}
func (*currencyCmd) SetFlags(*flag.FlagSet) {}

func (*currencyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		svc := rt.App.Currency
		switch f.NArg() {
		case 0:
			for _, c := range currency.Supported() {
				marker := " "
				if c.Code == svc.Currency() {
					marker = "*"
				}
				fmt.Fprintf(e.stdout, "%s %-3s  %-4s %-18s %s\n", marker, c.Code, c.Symbol, c.Name, c.Locale)
			}
			return nil
		case 1:
			if err := svc.SetCurrency(ctx, f.Arg(0)); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Currency: %s (%s)\n", svc.Currency(), svc.Symbol())
			return nil
		default:
			return usagef("currency takes at most one code")
		}
	})
}

type formatCmd struct{}

func (*formatCmd) Name() string     { return "format" }
func (*formatCmd) Synopsis() string { return "render an amount in the active currency" }
func (*formatCmd) Usage() string {
	return `jibajeti format <amount>

  Renders amount with the active currency symbol, two decimals and group
  separators. Negative amounts are shown with a leading minus; pass them
  after "--" (jibajeti format -- -12.5).
`
}
func (*formatCmd) SetFlags(*flag.FlagSet) {}

func (*formatCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return run(ctx, args, func(e *env, rt *cli.Runtime) error {
		if f.NArg() != 1 {
			return usagef("format takes exactly one amount")
		}
		amount, err := decimal.NewFromString(f.Arg(0))
		if err != nil {
			return usagef("invalid amount %q", f.Arg(0))
		}

		sign := ""
		if amount.Round(2).IsNegative() {
			sign = "-"
		}
		fmt.Fprintln(e.stdout, sign+rt.App.Currency.Format(amount.InexactFloat64()))
		return nil
	})
}
