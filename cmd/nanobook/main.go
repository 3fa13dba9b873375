package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nanobook/internal/config"
	"nanobook/internal/itch"
	"nanobook/internal/router"
	"nanobook/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	path := "configs/nanobook.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	configureLogging(cfg.Logging)

	r := router.New()

	feeds := make([]*router.Feed, 0, len(cfg.Feeds))
	for _, fc := range cfg.Feeds {
		f, err := os.Open(fc.Path)
		if err != nil {
			log.Error().Err(err).Str("path", fc.Path).Msg("open feed")
			continue
		}
		defer f.Close()

		dec := itch.NewDecoder(f)
		feed := router.NewFeed(r, dec)
		feed.Start(ctx)
		feeds = append(feeds, feed)
	}

	model := tui.New(r, time.Duration(cfg.TUI.RefreshMilis)*time.Millisecond, cfg.TUI.Levels)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui: %v\n", err)
	}

	for _, f := range feeds {
		_ = f.Stop()
	}
}

func configureLogging(cfg config.LoggingConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = log.Output(os.Stderr)
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
