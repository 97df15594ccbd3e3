package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tournament-wallet-ledger/internal/domain/shared"
	"github.com/tournament-wallet-ledger/internal/domain/wallet"
	"github.com/tournament-wallet-ledger/internal/reconciliation"
)

// reconcileReport is the JSON printed by `walletctl reconcile`.
type reconcileReport struct {
	Filter           shared.FilterMode                  `json:"filter"`
	AsOf             time.Time                          `json:"asOf"`
	Totals           reconciliation.Totals              `json:"totals"`
	Balance          string                             `json:"balance,omitempty"`
	TransactionCount int                                `json:"transactionCount"`
	Malformed        int                                `json:"malformed"`
	Feed             []reconciliation.MergedTransaction `json:"feed"`
}

func newReconcileCmd() *cobra.Command {
	var (
		snapshotPath string
		filter       string
		asOf         string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile a YAML wallet snapshot and print the result as JSON",
		Long: `Reads the four wallet collections (ledger, upiPayments, withdrawals, registrations)
from a YAML file, runs the reconciliation and prints the totals with the filtered feed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := shared.ParseFilterMode(filter)
			if err != nil {
				return err
			}

			at := time.Now().UTC()
			if asOf != "" {
				at, err = time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}

			snapshot, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			result := reconciliation.Reconcile(reconciliation.InputsFromSnapshot(snapshot, at))
			report := reconcileReport{
				Filter:           mode,
				AsOf:             result.AsOf,
				Totals:           result.Totals,
				TransactionCount: result.TransactionCount,
				Malformed:        result.Malformed,
				Feed:             result.Filter(mode),
			}
			if result.Balance != nil {
				report.Balance = result.Balance.StringFixed(2)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "YAML snapshot file")
	cmd.Flags().StringVar(&filter, "filter", "all", "feed filter: all, added, spent, withdrawals")
	cmd.Flags().StringVar(&asOf, "as-of", "", "RFC3339 time used for records without a timestamp (default: now)")
	_ = cmd.MarkFlagRequired("snapshot")

	return cmd
}

func readSnapshot(path string) (wallet.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wallet.Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot wallet.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return wallet.Snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return snapshot, nil
}
