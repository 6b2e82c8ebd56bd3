// Package main provides the schelper entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/osa030/schelper/internal/app/server"
	"github.com/osa030/schelper/internal/channel"
	"github.com/osa030/schelper/internal/logger"
	"github.com/osa030/schelper/internal/timezone"
	"github.com/osa030/schelper/internal/transport/rpc"
	zlog "github.com/rs/zerolog/log"
)

const (
	serviceName      = "schelper"
	defaultListen    = ":8080"
	defaultServerURL = "http://localhost:8080"
)

var (
	app     = kingpin.New(serviceName, "Device timezone method channel")
	verbose = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Envar("VERBOSE").Bool()
	logfile = app.Flag("logfile", "Path to log file (default: stderr)").Default("stderr").Envar("LOGFILE").String()

	serveCmd        = app.Command("serve", "Serve the timezone channel over HTTP and RPC (default)").Default()
	listen          = serveCmd.Flag("listen", "Listen address").Default(defaultListen).Envar("SCHELPER_LISTEN").String()
	shutdownTimeout = serveCmd.Flag("shutdown-timeout", "Graceful shutdown timeout").Default("5s").Envar("SCHELPER_SHUTDOWN_TIMEOUT").Duration()

	getCmd = app.Command("get", "Resolve the device timezone in-process")

	callCmd     = app.Command("call", "Invoke a channel method on a running server")
	serverURL   = callCmd.Flag("server", "Server address").Default(defaultServerURL).Envar("SCHELPER_SERVER_URL").String()
	callTimeout = callCmd.Flag("timeout", "Call timeout").Default("10s").Duration()
	callMethod  = callCmd.Arg("method", "Method name").Default(string(channel.MethodGetTimeZone)).String()
)

func init() {
	timezone.Init()
}

func main() {
	os.Exit(run())
}

// run returns the exit status so deferred cleanup happens before os.Exit.
func run() int {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	closeLog, err := logger.Init(serviceName, *verbose, *logfile)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close logger: %v\n", err)
		}
	}()

	switch command {
	case serveCmd.FullCommand():
		return serve()
	case getCmd.FullCommand():
		ch := server.NewTimezoneChannel(timezone.NewDefaultResolver())
		result := ch.Dispatch(context.Background(), channel.Call{Method: string(channel.MethodGetTimeZone)})
		return printResult(os.Stdout, os.Stderr, result)
	case callCmd.FullCommand():
		return call()
	}
	return exitFailure
}

func serve() int {
	cfg := server.Config{
		Listen:          *listen,
		ShutdownTimeout: *shutdownTimeout,
	}
	zlog.Debug().Msgf("config.listen:[%s]", cfg.Listen)
	zlog.Debug().Msgf("config.shutdown_timeout:[%s]", cfg.ShutdownTimeout)

	srv, err := server.NewServer(&cfg, server.NewTimezoneChannel(timezone.NewDefaultResolver()))
	if err != nil {
		zlog.Error().Msgf("Config validation failed: %v", err)
		zlog.Info().Msg("Please provide required settings via flags or environment variables.")
		return 1
	}
	if err := srv.Start(); err != nil {
		zlog.Error().Msgf("Failed to start server: %v", err)
		return 1
	}
	defer srv.Stop()

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
		return 0
	case err := <-srv.GetError():
		zlog.Error().Msgf("Server error: %v", err)
		return 1
	}
}

func call() int {
	cfg := rpc.ClientConfig{URL: *serverURL}
	if err := cfg.Validate(); err != nil {
		zlog.Error().Msgf("Config validation failed: %v", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *callTimeout)
	defer cancel()

	result, err := rpc.NewClient(&cfg).Invoke(ctx, *callMethod)
	if err != nil {
		zlog.Error().Msgf("Call failed: %v", err)
		return 1
	}
	return printResult(os.Stdout, os.Stderr, result)
}
