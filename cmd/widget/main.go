package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campusclub/client"
	"campusclub/client/api"
	"campusclub/internal/xslog"
	"campusclub/widget"
)

func main() {
	cfgPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	cfg, err := client.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	setupLogger(cfg.Log)
	slog.Info("starting widget server", slog.String("addr", cfg.Widget.Addr), slog.Bool("dev", cfg.Widget.Dev))

	// The widget only talks to the public assistant endpoints; it carries no
	// user session and sends no token.
	apiClient := api.New(cfg.API, &http.Client{}, nil)

	srv, err := widget.New(cfg.Widget, apiClient)
	if err != nil {
		slog.Error("failed to initialize widget server", slog.Any("err", err))
		os.Exit(1)
	}

	srv.Start()
	defer srv.Stop()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGTERM, syscall.SIGINT)
	<-s
}

// setupLogger installs the configured handler wrapped in a filter that drops
// static asset access records.
func setupLogger(cfg client.LogConfig) {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	if cfg.Format == client.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	handler = xslog.NewFilterHandler(handler, func(ctx context.Context, record slog.Record) bool {
		var static bool
		record.Attrs(func(attr slog.Attr) bool {
			if attr.Key == "path" && strings.HasPrefix(attr.Value.String(), "/static/") {
				static = true
				return false
			}
			return true
		})
		return !static
	})
	slog.SetDefault(slog.New(handler))
}
