package cmd

import (
	"github.com/spf13/cobra"
)

var (
	dumpTokens bool
	dumpAST    bool
)

var rootCmd = &cobra.Command{
	Use:   "minipl",
	Short: "minipl — a scanner, parser, analyzer, and evaluator for the Mini-PL teaching language",
	Long: `minipl runs a Mini-PL source file end to end: scan, parse, check, and
evaluate, printing any program output to stdout and any diagnostic to
stderr.

Commands:
  run   Run a Mini-PL source file
`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream to stderr before parsing")
	rootCmd.PersistentFlags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST to stderr before analysis")

	rootCmd.AddCommand(RunCmd)
}
