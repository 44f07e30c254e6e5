package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lifeapp/lifebot/internal/bot"
	"github.com/lifeapp/lifebot/internal/config"
	"github.com/lifeapp/lifebot/internal/journal"
	"github.com/lifeapp/lifebot/internal/lifeapp"
	"github.com/lifeapp/lifebot/internal/media"
	"github.com/lifeapp/lifebot/internal/server"
	"github.com/lifeapp/lifebot/internal/telegram"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot and long-poll for Telegram updates",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		tg := telegram.NewClient(cfg.BotToken)
		api := lifeapp.NewClient(cfg.APIBaseURL, cfg.BotSecret,
			lifeapp.WithTimeout(time.Duration(cfg.SubmitTimeout)*time.Second))
		fetcher := media.NewFetcher(tg)

		store, err := journal.Open(filepath.Join(cfg.DataDir, "journal.db"))
		if err != nil {
			// The journal is observational; the bot runs without it.
			log.Printf("opening journal: %v (continuing without journal)", err)
			store = nil
		} else {
			defer store.Close()
		}

		if cfg.Admin.Enabled {
			srv := server.New(server.Config{
				Port:     cfg.Admin.Port,
				AllowAll: cfg.Admin.AllowAllOrigins,
			}, store)
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Printf("admin server: %v", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					log.Printf("shutting down admin server: %v", err)
				}
			}()
		}

		b := bot.New(tg, tg, api, fetcher, bot.Options{
			Journal:     store,
			PollTimeout: cfg.PollTimeout,
			Verbose:     verbose,
		})
		if err := b.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
