package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chelestewang/dollie/internal/origin"
)

func newOriginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "origins",
		Short: "Manage credentials for template origins (github, gitlab)",
	}
	cmd.AddCommand(newOriginsLoginCmd())
	cmd.AddCommand(newOriginsLogoutCmd())
	return cmd
}

func newOriginsLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <origin-id> <token>",
		Short: "Store a credential for an origin in the OS keyring",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := origin.StoreToken(args[0], args[1]); err != nil {
				return fmt.Errorf("dollie origins login: %w", err)
			}
			fmt.Printf("stored credential for %q\n", args[0])
			return nil
		},
	}
}

func newOriginsLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <origin-id>",
		Short: "Remove a stored credential for an origin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := origin.DeleteToken(args[0]); err != nil {
				return fmt.Errorf("dollie origins logout: %w", err)
			}
			fmt.Printf("removed credential for %q\n", args[0])
			return nil
		},
	}
}

func init() {
	register(func(root *cobra.Command) { root.AddCommand(newOriginsCmd()) })
}
