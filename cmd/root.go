package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lifebot",
	Short: "Telegram bot for Life app product lifecycle tracking",
	Long: `Lifebot lets users report product lifecycle events (broken, repaired,
sold, recycled, ...) over Telegram. It collects a photo and/or a text
description through a short dialog and forwards the event to the Life app
backend, which matches the product and records the lifecycle step.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".lifebot.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
