package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corewasm/corewasm"
	"github.com/corewasm/corewasm/api"
	"github.com/corewasm/corewasm/internal/wasm"
	"github.com/corewasm/corewasm/internal/wasmruntime"
)

// Exit codes distinguish the three disjoint error kinds a Wasm binary can
// fail with, so scripts invoking corewasm can tell a broken binary from one
// that trapped at runtime without scraping stderr text.
const (
	exitCodeMalformed = 2
	exitCodeInvalid   = 3
	exitCodeTrap      = 4
)

func exitCodeFor(err error) int {
	var malformed *wasm.MalformedModuleError
	var invalid *wasm.InvalidModuleError
	var trap wasmruntime.Error
	switch {
	case errors.As(err, &malformed):
		return exitCodeMalformed
	case errors.As(err, &invalid):
		return exitCodeInvalid
	case errors.As(err, &trap):
		return exitCodeTrap
	default:
		return 1
	}
}

func newRunCmd() *cobra.Command {
	var funcName string
	cmd := &cobra.Command{
		Use:   "run <path.wasm> [args...]",
		Short: "Instantiate a module and call one of its exported functions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModule(cmd.Context(), args[0], funcName, args[1:])
		},
	}
	cmd.Flags().StringVarP(&funcName, "func", "f", "_start", "exported function to call")
	return cmd
}

func runModule(ctx context.Context, path, funcName string, rawArgs []string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rt := corewasm.NewRuntime(ctx, corewasm.NewRuntimeConfig())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, b)
	if err != nil {
		return err
	}

	moduleConfig := corewasm.NewModuleConfig().WithStartFunctions()
	mod, err := rt.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		return err
	}

	fn := mod.ExportedFunction(funcName)
	if fn == nil {
		return fmt.Errorf("no exported function %q", funcName)
	}

	params := make([]uint64, len(rawArgs))
	for i, a := range rawArgs {
		var v int64
		if _, err := fmt.Sscanf(a, "%d", &v); err != nil {
			return fmt.Errorf("argument %q: not an integer: %w", a, err)
		}
		params[i] = api.EncodeI64(v)
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Println(int64(r))
	}
	return nil
}
