package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shibukawa/pestplay/server"
	"github.com/shibukawa/pestplay/workspace"
)

// ServeCmd serves the playground API.
type ServeCmd struct {
	Addr    string `help:"Listen address (overrides the configuration)"`
	Grammar string `short:"g" help:"Grammar file to open in the workspace"`
}

// Run executes the serve command
func (cmd *ServeCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		config.Server.Addr = cmd.Addr
	}

	ws, err := workspace.Load(config)
	if err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}
	defer func() {
		if err := ws.Close(); err != nil {
			log.Printf("failed to save settings: %v", err)
		}
	}()

	e := newEngine(config)
	if cmd.Grammar != "" {
		grammar, _, err := ws.Open(cmd.Grammar)
		if err != nil {
			return err
		}
		if _, err := e.Compile(grammar); err != nil {
			verbosef(ctx, "%s: %v", cmd.Grammar, err)
		}
	}

	srv := &http.Server{
		Addr:              config.Server.Addr,
		Handler:           server.New(e, ws).Handler(),
		ReadHeaderTimeout: config.Server.ReadTimeout,
		ReadTimeout:       config.Server.ReadTimeout,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if !ctx.Quiet {
			log.Printf("pestplay listening on http://%s%s", config.Server.Addr, server.APIPrefix)
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
