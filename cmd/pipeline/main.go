package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-knee-pipeline/internal/app"
	"github.com/MKhiriev/go-knee-pipeline/internal/config"
	"github.com/MKhiriev/go-knee-pipeline/internal/logger"
	"github.com/MKhiriev/go-knee-pipeline/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("knee-pipeline", false)
	cfg, err := config.GetStructuredConfig(context.Background(), os.Args[1:])
	if err != nil {
		exit(log, err)
	}
	if cfg.App.Verbose {
		log = logger.NewLogger("knee-pipeline", true)
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Resolve(cfg.App.Version)
	if err = app.NewApp(cfg, buildInfo, os.Stdout, log).Run(); err != nil {
		exit(log, err)
	}
}

func exit(log *logger.Logger, err error) {
	msg, code := app.Describe(err)
	log.Error().Err(err).Msg(msg)
	os.Exit(code)
}

func printBuildInfo() {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit).Resolve("")

	fmt.Fprintf(os.Stderr, "Build version: %s\n", info.BuildVersion())
	fmt.Fprintf(os.Stderr, "Build date: %s\n", info.BuildDate())
	fmt.Fprintf(os.Stderr, "Build commit: %s\n", info.BuildCommit())
}
