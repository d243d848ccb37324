package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/njchilds90/texcas"
	"github.com/njchilds90/texcas/parse"
)

// input joins args, or reads stdin when there are none.
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func newToCASCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-cas [latex]",
		Short: "Translate LaTeX into CAS syntax",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), texcas.LatexToCAS(in))
			return nil
		},
	}
}

func newToLatexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "to-latex [cas]",
		Short: "Translate CAS syntax into LaTeX",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), texcas.CASToLatex(in))
			return nil
		},
	}
}

func newRunCommand(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run <operation> [latex]",
		Short: "Run an operation on LaTeX input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd, args[1:])
			if err != nil {
				return err
			}
			op := texcas.OperationKind(strings.ToLower(strings.TrimSpace(args[0])))
			res := c.app.NewDispatcher().Perform(cmd.Context(), op, in)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			} else {
				printResult(out, res)
			}
			if !res.Success {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func printResult(w io.Writer, res texcas.OperationResult) {
	if res.Success {
		fmt.Fprintln(w, green(res.OutputLatex))
		return
	}
	fmt.Fprintln(w, red(res.Error))
}

func newOpsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the supported operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			printOperations(cmd.OutOrStdout(), c.app.Localizer.Locale())
			return nil
		},
	}
}

func printOperations(w io.Writer, locale string) {
	for _, op := range texcas.Operations() {
		fmt.Fprintf(w, "%-11s %s\n", op, gray(op.Label(locale)))
	}
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [cas]",
		Short: "Print the syntax tree of a CAS expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input(cmd, args)
			if err != nil {
				return err
			}
			node, err := parse.Parse(in)
			if err != nil {
				return err
			}
			_, err = pretty.Fprintf(cmd.OutOrStdout(), "%# v\n", node)
			return err
		},
	}
}
