package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piotr-wiszowaty/foco65/pkg/forth"
)

var (
	pstackBottom string
	pstackSize   int
	sections     string
)

var rootCmd = &cobra.Command{
	Use:   "foco65 [flags] source-file",
	Short: "Forth cross-compiler targeting the 6502",
	Long: `foco65 compiles a Forth dialect into 6502 assembly source text.

The output on stdout concatenates the runtime, user data and the compiled
words reachable from main, grouped into named sections emitted in the order
given by --sections.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		opts := forth.Options{
			PStackBottom: pstackBottom,
			PStackSize:   pstackSize,
			Sections:     strings.Split(sections, ","),
		}
		out, err := forth.Compile(string(data), args[0], opts)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	defaults := forth.DefaultOptions()
	rootCmd.Flags().StringVarP(&pstackBottom, "pstack-bottom", "p", defaults.PStackBottom,
		"parameter stack base address (assembler literal)")
	rootCmd.Flags().IntVarP(&pstackSize, "pstack-size", "S", defaults.PStackSize,
		"parameter stack size in bytes (masked to 8 bits)")
	rootCmd.Flags().StringVarP(&sections, "sections", "s", strings.Join(defaults.Sections, ","),
		"comma-separated section output order")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
