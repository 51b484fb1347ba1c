// Command corewasm is a minimal CLI front-end for the corewasm runtime: it
// decodes, validates, instantiates, and runs a single exported function
// from a WebAssembly binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/corewasm/corewasm/internal/obslog"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corewasm",
		Short: "Run WebAssembly modules with the corewasm interpreter",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				obslog.SetLogger(logger)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every call and trap")
	root.AddCommand(newRunCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "corewasm:", err)
		os.Exit(exitCodeFor(err))
	}
}
