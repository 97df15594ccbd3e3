package main

import (
	"github.com/spf13/cobra"

	"github.com/tournament-wallet-ledger/internal/config"
)

var version = "dev"

type rootOptions struct {
	configFile string
}

// loadConfig reads --config when given, else walletctl.env and the environment.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile != "" {
		return config.LoadConfigFile(o.configFile)
	}
	return config.LoadConfig("walletctl")
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:               "walletctl",
		Short:             "Operator CLI for the tournament wallet",
		Long:              `Reconcile wallet snapshots offline and mint development bearer tokens for the wallet API.`,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Version:           version,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a config file (default: walletctl.env)")

	rootCmd.AddCommand(newReconcileCmd())
	rootCmd.AddCommand(newTokenCmd(opts))

	return rootCmd
}
