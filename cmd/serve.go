package cmd

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/events"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/orchestrator"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/prompt"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/tool"
	"github.com/tanpawarit/salon-onboarding-mcp/pkg/altegio"
	configx "github.com/tanpawarit/salon-onboarding-mcp/pkg/config"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ServerConfig is read with prefix SERVER.
type ServerConfig struct {
	Name            string        `default:"altegio-onboarding"`
	Version         string        `default:"1.0.0"`
	Transport       string        `default:"stdio"`
	Addr            string        `default:":8080"`
	EndpointPath    string        `split_words:"true" default:"/mcp"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

type serveOptions struct {
	transport string
	addr      string
	ephemeral bool
}

func newServeCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over stdio or streamable HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", "", "stdio or http (overrides SERVER_TRANSPORT)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address for http (overrides SERVER_ADDR)")
	cmd.Flags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep onboarding sessions in memory only")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	srvCfg, err := configx.New[ServerConfig]("SERVER")
	if err != nil {
		return err
	}
	if opts.transport != "" {
		srvCfg.Transport = opts.transport
	}
	if opts.addr != "" {
		srvCfg.Addr = opts.addr
	}

	altegioCfg, err := configx.New[altegio.Config]("ALTEGIO")
	if err != nil {
		return err
	}
	api, err := altegio.New(*altegioCfg)
	if err != nil {
		return err
	}

	storeCfg, err := configx.New[statex.StoreConfig]("ONBOARDING_STORE")
	if err != nil {
		return err
	}
	if opts.ephemeral {
		storeCfg.Driver = statex.DriverMemory
	}
	store, err := statex.Open(ctx, *storeCfg)
	if err != nil {
		return fmt.Errorf("open onboarding store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close onboarding store")
		}
	}()

	eventsCfg, err := configx.New[events.Config]("EVENTS")
	if err != nil {
		return err
	}
	publisher, err := events.Open(ctx, *eventsCfg)
	if err != nil {
		return fmt.Errorf("open event publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("close event publisher")
		}
	}()

	orchCfg, err := configx.New[orchestrator.Config]("ONBOARDING")
	if err != nil {
		return err
	}
	orch, err := orchestrator.New(store, api, publisher, *orchCfg)
	if err != nil {
		return err
	}

	catalog, err := tool.New(api, orch)
	if err != nil {
		return err
	}

	s := server.NewMCPServer(
		srvCfg.Name,
		srvCfg.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(prompt.LoadPromptSet().Instructions),
	)
	catalog.Register(s)

	log.Info().
		Str("transport", srvCfg.Transport).
		Str("store", storeCfg.Driver).
		Str("events", eventsCfg.Driver).
		Int("tools", len(catalog.Tools())).
		Msg("mcp server starting")

	switch strings.ToLower(strings.TrimSpace(srvCfg.Transport)) {
	case TransportStdio:
		return serveStdio(ctx, s)
	case TransportHTTP:
		return serveHTTP(ctx, s, *srvCfg)
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", srvCfg.Transport, TransportStdio, TransportHTTP)
	}
}

func serveStdio(ctx context.Context, s *server.MCPServer) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveHTTP(ctx context.Context, s *server.MCPServer, cfg ServerConfig) error {
	httpSrv := server.NewStreamableHTTPServer(s, server.WithEndpointPath(cfg.EndpointPath))

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("path", cfg.EndpointPath).Msg("listening")
		errCh <- httpSrv.Start(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	}
}
