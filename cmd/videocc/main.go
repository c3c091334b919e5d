package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/videocc/videocc/internal/interfaces/cli/migrate"
	"github.com/videocc/videocc/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "videocc",
		Short: "videocc - guard services for a dating app backend",
		Long:  `videocc serves the messaging, video call and crypto purchase guards, and manages their database schema.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
