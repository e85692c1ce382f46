package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-analyzer/src/grpc_control"
	"market-analyzer/src/server"
	"market-analyzer/src/utils"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server (and the gRPC control service when configured)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// -----------------------------------------------------------------------------

func runServe(cmd *cobra.Command, args []string) error {
	app, err := setupApp(configPath, true)
	if err != nil {
		return err
	}
	defer app.Close()

	conf := app.Config
	appLogger := app.Logger

	// 1. Janitor
	janitor := utils.NewJanitor(appLogger.Named("Janitor"))
	if err := janitor.AddJob("cache-purge", conf.Scheduler.JanitorCron, func() { app.Cache.Purge() }); err != nil {
		return err
	}
	if err := janitor.AddJob("session-purge", conf.Scheduler.JanitorCron, func() {
		if n := app.Sessions.Purge(); n > 0 {
			appLogger.Info("Expired %d sessions", n)
		}
	}); err != nil {
		return err
	}
	janitor.Start()
	defer janitor.Stop()

	errCh := make(chan error, 2)

	// 2. HTTP server
	srv := server.NewHTTPServer(conf.MConfig, server.Deps{
		Analysis: app.Analysis,
		Users:    app.Auth,
		Sessions: app.Sessions,
	}, appLogger.Named("HTTPServer"))
	go func() {
		errCh <- srv.Start()
	}()

	// 3. gRPC control service
	var controlService *grpc_control.ControlService
	var grpcServer *grpc.Server
	if conf.GrpcPort != 0 {
		addr := fmt.Sprintf("%s:%d", conf.GrpcHost, conf.GrpcPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("grpc listen on %s: %w", addr, err)
		}

		controlService = grpc_control.NewControlService(conf, app.Sources, app.Cache, app.Sessions, configPath, appLogger.Named("ControlService"), app.Network)
		grpcServer = grpc_control.NewServer(controlService)
		appLogger.Info("gRPC control service listening on %s", addr)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	// 4. Wait for a signal or a server failure
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		appLogger.Info("Shutting down...")
	case err := <-errCh:
		if err != nil {
			appLogger.Error("Server failed: %v", err)
			return err
		}
	}

	if grpcServer != nil {
		controlService.Health.Shutdown()
		grpcServer.GracefulStop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
