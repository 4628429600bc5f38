// Command ledgerctl runs database maintenance for the fundledger API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fundledger/internal/config"
	"fundledger/internal/database"
	"fundledger/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Maintenance commands for the fundledger database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	root.AddCommand(reconcileCmd())
	return root
}

// openDatabase connects using the environment configuration. The caller
// closes the returned manager.
func openDatabase() (*config.Config, *database.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	m, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}
