package main

import (
	"context"
	"fmt"
	"os"

	"rulegen/pkg/config"
	"rulegen/pkg/generate"
	"rulegen/pkg/logger"
	"rulegen/pkg/version"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	cfg, err := config.Setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		return 1
	}

	log := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
	log.Info("rulegen starting",
		"version", version.RulegenVersion,
		"input", cfg.Paths.InputDir,
		"output", cfg.Paths.OutputDir,
		"categories", cfg.Generate.Categories)

	res, err := generate.Run(context.Background(), cfg, log)
	if err != nil {
		log.Error("generation aborted", "error", err)
		return 1
	}

	for _, f := range res.Failures {
		log.Error("format failed", "category", f.Category, "format", f.Format, "error", f.Err)
	}
	log.Info("generation finished",
		"categories", res.Categories,
		"files", res.Files,
		"failures", len(res.Failures))

	if res.Failed() {
		return 1
	}
	return 0
}
