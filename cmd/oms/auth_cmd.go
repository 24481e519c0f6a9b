package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func newLoginCmd(newRT runtimeFactory) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			if password == "" {
				password = os.Getenv("OMS_PASSWORD")
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return withCode(exitUsage, errors.New("--email and --password (or OMS_PASSWORD) are required"))
			}
			user, err := rt.auth().Login(ctx, strings.TrimSpace(email), password)
			if err != nil {
				return withCode(exitAuth, errors.Wrap(err, "login failed"))
			}
			_, err = fmt.Fprintf(rt.out, "Signed in as %s (%s)\n", displayName(user.Name(), user.Email()), user.Role())
			return err
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (defaults to $OMS_PASSWORD)")
	return cmd
}

func newLogoutCmd(newRT runtimeFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			if err := rt.auth().Logout(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(rt.out, "Signed out")
			return err
		}),
	}
}

func newWhoamiCmd(newRT runtimeFactory) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: run(newRT, func(ctx context.Context, rt *runtime, _ []string) error {
			if _, err := rt.authorized(ctx); err != nil {
				return err
			}
			user := rt.session.User()
			if asJSON {
				return writeJSONLine(rt.out, user)
			}
			_, err := fmt.Fprintf(rt.out, "%s <%s> %s\n", displayName(user.Name(), ""), user.Email(), user.Role())
			return err
		}),
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored user as JSON")
	return cmd
}

func displayName(name, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "----"
}
