package main

import (
	"fmt"

	"github.com/eleven-am/cortexview/internal/bootstrap"
	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Manage stored screenshots and audit logs.",
}

var storageCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete files older than RETENTION_DAYS.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store := bootstrap.ProvideScreenshotStore(cfg, logger)
		if err := store.CleanupOldFiles(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleaned %s\n", store.Dir())
		return nil
	},
}

var storagePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete everything in the storage directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		store := bootstrap.ProvideScreenshotStore(cfg, logger)

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to purge %s without --yes", store.Dir())
		}
		if err := store.PurgeAll(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Purged %s\n", store.Dir())
		return nil
	},
}

func init() {
	storagePurgeCmd.Flags().BoolP("yes", "y", false, "Confirm deletion")
	storageCmd.AddCommand(storageCleanupCmd, storagePurgeCmd)
	rootCmd.AddCommand(storageCmd)
}
