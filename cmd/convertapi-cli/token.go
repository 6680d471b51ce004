// Copyright Redwood Labs, 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redwoodlabs/convertapi-cli/internal/token"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the API credential",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Set the API credential, optionally persisting it",
	Long: `Set stores the credential for this process. With --persist it is also
written to the per-user credential file so future invocations pick it up
without the ` + token.EnvVar + ` environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		persist, _ := cmd.Flags().GetBool("persist")
		p := token.NewProvider("")
		if err := p.Set(args[0], persist); err != nil {
			return err
		}
		if persist {
			path, _ := token.DefaultINIPath()
			fmt.Printf("Credential saved to %s\n", path)
		} else {
			fmt.Println("Credential set for this process only; use --persist to keep it")
		}
		return nil
	},
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether a credential is configured and where it comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := token.NewProvider("")
		tok, ok := p.Resolve()
		if !ok {
			return fmt.Errorf("no credential configured: run \"token set\" or export %s", token.EnvVar)
		}
		fmt.Printf("credential: %s (source: %s)\n", mask(tok), p.Source())
		return nil
	},
}

// mask hides all but the first four characters of a credential.
func mask(tok string) string {
	if len(tok) <= 4 {
		return "****"
	}
	return tok[:4] + "****"
}

func init() {
	tokenSetCmd.Flags().Bool("persist", false, "write the credential to the per-user credential file")

	tokenCmd.AddCommand(tokenSetCmd)
	tokenCmd.AddCommand(tokenShowCmd)
	rootCmd.AddCommand(tokenCmd)
}
