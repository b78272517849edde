package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendwise/internal/backend"
	"spendwise/internal/core"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <name>",
		Short: "Set the display name shown in greetings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if err := core.ValidateUserName(name); err != nil {
				return err
			}
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				if err := res.Sessions.SetUser(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", name)
				return nil
			})
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				if err := res.Sessions.ClearUser(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the display name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackend(cmd, func(res *backend.BackendResult) error {
				u := res.Sessions.GetUser(cmd.Context())
				if u == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), u.Name)
				return nil
			})
		},
	}
}
