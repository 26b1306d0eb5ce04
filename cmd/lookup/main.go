package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stock-insight/src/charts"
	"stock-insight/src/config"
	"stock-insight/src/credentials"
	"stock-insight/src/data_source/alphavantage"
	"stock-insight/src/helpers"
	"stock-insight/src/logger"
	"stock-insight/src/network"
	"stock-insight/src/service"
)

// lookup runs a single symbol through the pipeline and prints the report as
// JSON. Chart data URIs are omitted unless -charts is set.
func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	withCharts := flag.Bool("charts", false, "include chart data URIs in the output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] [-charts] SYMBOL\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays valid JSON
	appLogger := logger.NewLoggerTo(os.Stderr, conf.MConfig, conf.Name)

	creds, err := credentials.NewProvider(conf.Credentials)
	if err != nil {
		appLogger.Critical("Failed to setup credentials: %v", err)
	}
	source := alphavantage.NewAlphaVantageSource(conf.MConfig, network.NewNetworkManager(conf.MConfig, appLogger.Named("Network")), appLogger)
	renderer := charts.NewRenderer(conf.Charts, appLogger.Named("Charts"))
	svc := service.NewStockService(creds, source, renderer, nil, nil, appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := svc.Lookup(ctx, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", helpers.KindOf(err), helpers.PublicMessage(err))
		os.Exit(1)
	}
	if !*withCharts {
		report.PlotURLs = []string{}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		appLogger.Error("Failed to encode report: %v", err)
		os.Exit(1)
	}
}
