package main

import (
	"fmt"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules and their codes",
		Long: `List every rule with its code, name and default message.

Codes and names are both accepted by --select, --ignore and the
rules section of the config file.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, kind := range domain.AllKinds() {
				message := kind.DefaultMessage()
				if kind.RequiresMessage() {
					message = "(message names the offending identifier)"
				}
				fmt.Fprintf(out, "%-8s %-21s %s\n", kind.Code(), kind.Name(), message)
			}
		},
	}
}
