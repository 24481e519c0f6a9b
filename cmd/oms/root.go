package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd(newRT runtimeFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oms",
		Short:         "Employee administration client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLoginCmd(newRT))
	cmd.AddCommand(newLogoutCmd(newRT))
	cmd.AddCommand(newWhoamiCmd(newRT))
	cmd.AddCommand(newEmployeesCmd(newRT))
	return cmd
}

// run builds a runtime bound to the command's streams, calls fn and releases the runtime.
func run(newRT runtimeFactory, fn func(ctx context.Context, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		rt, err := newRT(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()
		rt.out = cmd.OutOrStdout()
		rt.in = cmd.InOrStdin()
		return fn(ctx, rt, args)
	}
}

func Execute() {
	if err := newRootCmd(newRuntime).Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
