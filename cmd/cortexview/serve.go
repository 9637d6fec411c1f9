package main

import (
	_ "github.com/eleven-am/cortexview/docs"
	"github.com/eleven-am/cortexview/internal/bootstrap"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server.",
	Run: func(cmd *cobra.Command, args []string) {
		bootstrap.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
