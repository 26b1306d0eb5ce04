package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-insight/src/charts"
	"stock-insight/src/config"
	"stock-insight/src/credentials"
	"stock-insight/src/data_source/alphavantage"
	pb "stock-insight/src/grpc_control"
	"stock-insight/src/interfaces"
	"stock-insight/src/logger"
	"stock-insight/src/network"
	"stock-insight/src/server"
	"stock-insight/src/service"
	"stock-insight/src/storage"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", config.DefaultPath, "path to config file")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	// 1. Lookup history
	recorder, err := storage.NewRecorder(conf.MConfig, appLogger.Named("Storage"))
	if err != nil {
		appLogger.Critical("Failed to init storage: %v", err)
	}
	if err := recorder.Initialize(); err != nil {
		appLogger.Critical("Failed to initialize storage: %v", err)
	}
	defer recorder.Close()

	cleanup, err := storage.NewCleanupScheduler(conf.Storage.CleanupCron, recorder, appLogger.Named("Cleanup"))
	if err != nil {
		appLogger.Critical("Failed to schedule cleanup: %v", err)
	}
	cleanup.Start()
	defer cleanup.Stop()

	// 2. Lookup pipeline
	creds, err := credentials.NewProvider(conf.Credentials)
	if err != nil {
		appLogger.Critical("Failed to setup credentials: %v", err)
	}

	var networkManager interfaces.INetworkManager = network.NewNetworkManager(conf.MConfig, appLogger.Named("Network"))
	source := alphavantage.NewAlphaVantageSource(conf.MConfig, networkManager, appLogger)
	renderer := charts.NewRenderer(conf.Charts, appLogger.Named("Charts"))

	// 3. Servers
	srv := server.NewAPIServer(conf.MConfig, nil, recorder, appLogger)
	srv.Service = service.NewStockService(creds, source, renderer, recorder, srv.Hub(), appLogger)

	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.Start()
	}()

	control := pb.NewControlServer(conf.MConfig, appLogger.Named("ControlService"))
	if control.Enabled() {
		go func() {
			errCh <- control.Start()
		}()
		control.SetServing(true)
	}

	// 4. Wait for a signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		appLogger.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if control.Enabled() {
		control.Stop()
	}
	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("HTTP shutdown: %v", err)
	}
	appLogger.Info("Shutdown complete.")
}
