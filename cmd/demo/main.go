package main

import (
	"fmt"
	"os"
	"strings"

	"dailies/internal/band"
	"dailies/internal/caesar"
	"dailies/internal/calc"
	"dailies/internal/tip"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "demo",
		Short:         "Run the daily demos from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(caesarCmd())
	root.AddCommand(tipCmd())
	root.AddCommand(bandCmd())
	root.AddCommand(calcCmd())
	return root
}

func caesarCmd() *cobra.Command {
	var mode string
	var shift int
	cmd := &cobra.Command{
		Use:   "caesar [flags] <text>...",
		Short: "Encode or decode a message with the Caesar cipher",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := caesar.ParseMode(mode)
			if err != nil {
				return err
			}
			if !caesar.ValidShift(shift) {
				return fmt.Errorf("shift must be between 0 and 25, got %d", shift)
			}

			out, err := caesar.Run(strings.Join(args, " "), shift, m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "encode", "encode or decode")
	cmd.Flags().IntVarP(&shift, "shift", "s", 0, "shift number (0-25)")
	return cmd
}

func tipCmd() *cobra.Command {
	var b tip.Bill
	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Split a bill plus tip between people",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := tip.PerPerson(b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Each person should pay %s\n", tip.FormatAmount(v))
			return nil
		},
	}
	cmd.Flags().Float64Var(&b.Total, "bill", 0, "total bill")
	cmd.Flags().IntVar(&b.Percent, "percent", tip.Percentages[0], fmt.Sprintf("tip percentage, one of %v", tip.Percentages))
	cmd.Flags().IntVar(&b.People, "people", 1, "number of people splitting the bill")
	_ = cmd.MarkFlagRequired("bill")
	return cmd
}

func bandCmd() *cobra.Command {
	var city, pet string
	cmd := &cobra.Command{
		Use:   "band",
		Short: "Generate a band name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := band.Name(city, pet)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "The generated band name is %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "your dream city")
	cmd.Flags().StringVar(&pet, "pet", "", "your pet's name")
	return cmd
}

func calcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calc <a> <op> <b>",
		Short: "Calculate with whole numbers (op is one of + - * /)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := calc.ParseOperand(args[0])
			if err != nil {
				return err
			}
			op, err := calc.ParseOp(args[1])
			if err != nil {
				return err
			}
			b, err := calc.ParseOperand(args[2])
			if err != nil {
				return err
			}
			if a.Sign() < 0 || b.Sign() < 0 {
				return fmt.Errorf("calc: numbers must not be negative")
			}

			res, err := calc.Apply(op, a, b)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s = %s\n", a, op, b, res)
			return nil
		},
	}
}
