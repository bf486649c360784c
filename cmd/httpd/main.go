package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/frankli0324/go-httpd/internal/config"
	"github.com/frankli0324/go-httpd/internal/logging"
	"github.com/frankli0324/go-httpd/internal/nettools"
	"github.com/frankli0324/go-httpd/internal/server"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	srv.Use(server.AccessLog())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := nettools.Listen(ctx, cfg.Addr, nettools.ListenOptions{ReusePort: cfg.ReusePort})
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Addr).Msg("listen failed")
		return 1
	}
	color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "Listening for connections on %s\n", ln.Addr())
	color.New(color.FgCyan).Fprintf(os.Stdout, "Serving files from %s\n", srv.Root())

	if err := srv.Serve(ctx, ln); !errors.Is(err, server.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		return 1
	}
	return 0
}
