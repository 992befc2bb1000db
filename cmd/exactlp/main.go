// Command exactlp is the CLI surface over internal/parser and
// internal/solver: it reads a model file (or stdin) and prints the
// resulting status, assignment, and objective value.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/barsbold-coding/exactlp/internal/parser"
	"github.com/barsbold-coding/exactlp/internal/solver"
	"github.com/barsbold-coding/exactlp/internal/trace"
)

var (
	inputPath string
	verbose   bool
	maxIter   int
	maxCuts   int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exactlp",
		Short: "Exact-arithmetic LP/ILP solver",
		Long:  "exactlp parses a linear or integer program and solves it with an exact Big-M simplex and Gomory cuts.",
		RunE:  runSolve,
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to a model file (defaults to stdin)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each pivot and cut")
	cmd.Flags().IntVar(&maxIter, "max-iterations", 0, "cap on primal pivots (0 = solver default)")
	cmd.Flags().IntVar(&maxCuts, "max-cuts", 0, "cap on Gomory cuts (0 = solver default)")
	return cmd
}

func runSolve(cmd *cobra.Command, args []string) error {
	logger := zap.NewNop()
	if verbose {
		built, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = built
		defer logger.Sync() //nolint:errcheck
	}

	src := os.Stdin
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("exactlp: opening input: %w", err)
		}
		defer f.Close()
		src = f
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("exactlp: reading input: %w", err)
	}

	m, err := parser.ParseModel(string(raw))
	if err != nil {
		return fmt.Errorf("exactlp: %w", err)
	}

	s := solver.New(logger, maxIter, maxCuts)
	result := s.Solve(m)

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, result trace.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s\n", result.Status)
	if result.IntegerStatus != trace.IntegerNotApplicable {
		fmt.Fprintf(out, "integer_status: %s\n", result.IntegerStatus)
	}
	if result.Status != trace.Optimal {
		return
	}

	names := make([]string, 0, len(result.Assignment))
	for name := range result.Assignment {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%s = %s\n", name, result.Assignment[name].RatString())
	}
	fmt.Fprintf(out, "objective value = %s\n", result.ObjectiveValue.String())
}
