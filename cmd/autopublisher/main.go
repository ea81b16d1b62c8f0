package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"AutoPublisher/internal/app"
	"AutoPublisher/internal/config"
	"AutoPublisher/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run the pipeline once and exit")
	serve := flag.Bool("serve", true, "expose the generation HTTP endpoint")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		if err := application.RunOnce(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	if !*serve {
		application.DisableServer()
	}
	if err := application.Run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
