package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hwbook/internal/api"
	"hwbook/internal/config"
	"hwbook/internal/db"
	"hwbook/internal/logging"
	"hwbook/internal/pipeline"
	"hwbook/internal/state"
	"hwbook/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		serverFlag string
		tokenFlag  string
		legacyFlag bool
	)

	root := &cobra.Command{
		Use:   "hwbook",
		Short: "Track homework batches from photographed pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if serverFlag != "" {
				cfg.Server = serverFlag
			}
			if tokenFlag != "" {
				cfg.Token = tokenFlag
			}
			return run(cfg, legacyFlag)
		},
	}
	root.Flags().StringVar(&serverFlag, "server", "", "batch service base URL")
	root.Flags().StringVar(&tokenFlag, "token", "", "access token")
	root.Flags().BoolVar(&legacyFlag, "legacy-upload", false, "upload and recognize in two calls instead of one")
	root.SilenceUsage = true

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hwbook %s (commit: %s, built: %s)\n", version, commit, date)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, legacy bool) error {
	log, err := logging.New(cfg.Logging)
	if err != nil {
		// keep running without the file log rather than refusing to start
		log = zap.NewNop()
	}
	defer log.Sync()

	gw := api.NewClient(cfg.Server, cfg.Token, log)

	// The local store caches subjects for offline starts. Failing to
	// open it degrades, it does not abort.
	store, err := db.New()
	if err != nil {
		log.Warn("local store unavailable", zap.Error(err))
		store = nil
	} else {
		defer store.Close()
	}

	mode := pipeline.ModeCombined
	if legacy {
		mode = pipeline.ModeLegacy
	}
	session := state.New(gw, store, mode, log)

	// Warm the subject cache before the event loop owns the session.
	// Failures fall back to the local cache or the defaults inside.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	session.Subjects(ctx)
	cancel()

	app := ui.NewApp(session, store)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
