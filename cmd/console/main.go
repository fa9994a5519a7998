// cmd/console/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"directory-console/internal/common/auth"
	"directory-console/internal/common/backend"
	"directory-console/internal/common/config"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/notify"
	"directory-console/internal/common/observability"
	"directory-console/internal/companies"
	"directory-console/internal/console"
	"directory-console/internal/jobs"
	"directory-console/internal/machinery"
	"directory-console/internal/wizard"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: configs/config.yaml)")
	token := flag.String("token", "", "Reuse an existing session token instead of logging in")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: console [flags] [command [args...]]\n\n")
		fmt.Fprintf(os.Stderr, "Without a command the console reads commands from stdin.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Console output owns stdout, so logs default to stderr here.
	output := cfg.Logging.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	zapLog = logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.Observability.ServiceName)
	defer obs.Shutdown()

	client, err := backend.NewClient(cfg.Backend, log)
	if err != nil {
		zapLog.Fatal("backend client setup failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := auth.NewStore(client, log)
	if *token != "" {
		client.SetSessionCookie(cfg.Gateway.SessionCookie, *token)
		store.FetchUser(ctx)
		if _, err := store.RequireUser(); err != nil {
			zapLog.Warn("session token was not accepted", zap.Error(err))
		}
	}

	notifier := notify.NewWriter(os.Stdout, cfg.Console.NoticeFormat)
	registry := machinery.Default()

	con := console.New(console.Dependencies{
		Logger: log,
		Auth:   store,
		Wizard: wizard.NewController(wizard.Dependencies{
			Logger:        log,
			Backend:       client,
			Notifier:      notifier,
			Registry:      registry,
			Observability: obs,
		}),
		Companies: companies.NewBrowser(companies.Dependencies{
			Logger:        log,
			Backend:       client,
			Notifier:      notifier,
			Registry:      registry,
			Observability: obs,
			PageLimit:     cfg.Console.PageLimit,
		}),
		Jobs: jobs.NewPoster(jobs.Dependencies{
			Logger:        log,
			Backend:       client,
			Notifier:      notifier,
			Observability: obs,
		}),
		In:       os.Stdin,
		Out:      os.Stdout,
		DraftDir: cfg.Console.DraftDir,
	})

	if flag.NArg() > 0 {
		if err := con.Exec(ctx, quoteArgs(flag.Args())); err != nil {
			os.Exit(1)
		}
		return
	}

	zapLog.Info("Console started", zap.String("backend", cfg.Backend.BaseURL))
	if err := con.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLog.Error("Console stopped", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// quoteArgs rebuilds a command line from shell arguments so that values
// containing spaces survive the console's own splitting.
func quoteArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t") {
			parts[i] = `"` + a + `"`
			continue
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
