package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minipl-lang/minipl/internal/interp"
)

var RunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Mini-PL source file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runArgs,
}

// runArgs runs the single positional source file argument, reporting a
// missing one as an IOError and exiting -1.
func runArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "IOError::missing source file argument")
		os.Exit(-1)
	}
	return runFile(args[0])
}

// runFile reads path, runs it through the interpreter pipeline, and prints
// any diagnostic to stderr. I/O failures (missing source file) and
// top-level program diagnostics both exit -1; RunE never returns an error
// so cobra doesn't additionally print its own "Error: ..." line.
func runFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "IOError::%v\n", err)
		os.Exit(-1)
	}

	result := interp.Run(string(content), interp.Options{
		Stdout:     os.Stdout,
		Stdin:      os.Stdin,
		DumpTokens: dumpTokens,
		DumpAST:    dumpAST,
	})

	if len(result.Diagnostics) > 0 {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.String())
		}
		os.Exit(-1)
	}
	return nil
}

func init() {
	// minipl <file> is shorthand for minipl run <file>.
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = runArgs
}
