package cmd

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"linkup/internal/config"
	"linkup/internal/database"
	"linkup/internal/identity"
	"linkup/internal/modules/usersync"
)

var syncCmd = &cobra.Command{
	Use:   "sync <export.json>",
	Short: "Replay an identity provider user export into the database",
	Long: `Reads a JSON array of identity provider user objects (the provider's
user export format) and upserts each one into the user table. Useful for
backfilling after webhook downtime or when pointing at a fresh database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read export: %w", err)
		}

		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("export is not a JSON array: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close(ctx)

		applier := usersync.NewApplier(database.NewUserStore(db))
		applied := 0
		for i, rec := range records {
			if err := applier.Apply(ctx, identity.TopicUserUpdated, rec); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "record %d: %v\n", i, err)
				continue
			}
			applied++
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Applied %d of %d records\n", applied, len(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
