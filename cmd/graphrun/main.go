// Command graphrun serves the data-quality workflow engine API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowforge/graphrun/api"
	"github.com/flowforge/graphrun/auth"
	"github.com/flowforge/graphrun/config"
	"github.com/flowforge/graphrun/engine"
	"github.com/flowforge/graphrun/logger"
	"github.com/flowforge/graphrun/observability"
	"github.com/flowforge/graphrun/quality"
	"github.com/flowforge/graphrun/server"
	"github.com/flowforge/graphrun/server/middleware"
	"github.com/flowforge/graphrun/store"
	"github.com/flowforge/graphrun/version"
)

const serviceName = "graphrun"

// Config is the full service configuration.
type Config struct {
	Log           logger.Config        `yaml:"log" mapstructure:"log"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`

	// WorkflowDirs are scanned for *.yaml graph definitions at startup.
	WorkflowDirs []string `yaml:"workflow_dirs" mapstructure:"workflow_dirs"`
	// StreamPaceMS spaces outbound stream events, in milliseconds.
	StreamPaceMS int `yaml:"stream_pace_ms" mapstructure:"stream_pace_ms"`
}

func main() {
	var cfg Config
	if err := config.Load(serviceName, &cfg); err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	cfg.Log.ApplyDefaults()
	cfg.Server.ApplyDefaults()
	cfg.Observability.ApplyDefaults()

	log := logger.New(cfg.Log, serviceName)
	logger.SetGlobal(log)

	if err := cfg.Server.Validate(); err != nil {
		log.Fatal("Invalid configuration", map[string]interface{}{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOtel, err := observability.Init(ctx, cfg.Observability, serviceName, version.GetShortVersion())
	if err != nil {
		log.Fatal("Failed to initialize observability", map[string]interface{}{
			"error": err.Error(),
		})
	}

	metrics, err := observability.NewRunMetrics(serviceName)
	if err != nil {
		log.Fatal("Failed to create metrics", map[string]interface{}{"error": err.Error()})
	}

	registry := buildRegistry(cfg.Observability.Enabled, log)
	graphs := store.NewGraphs()
	runs := store.NewRuns()

	preloadGraphs(cfg.WorkflowDirs, graphs, log)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(serviceName)

	if cfg.Auth.Enabled() {
		verifier := auth.NewVerifier(cfg.Auth)
		srv.GinEngine().Use(middleware.Auth(middleware.AuthConfig{
			TokenValidator: verifier.Verify,
			SkipPaths:      []string{"/health", "/version"},
		}))
		log.Info("Authentication enabled")
	}

	handler := api.New(api.Deps{
		Engine:     engine.New(log),
		Registry:   registry,
		Graphs:     graphs,
		Runs:       runs,
		Metrics:    metrics,
		Log:        log,
		StreamPace: time.Duration(cfg.StreamPaceMS) * time.Millisecond,
	})
	handler.Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		log.Fatal("Failed to start server", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Service started", map[string]interface{}{
		"version": version.GetShortVersion(),
		"addr":    srv.Addr(),
	})

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server stop error", map[string]interface{}{"error": err.Error()})
	}
	if err := shutdownOtel(shutdownCtx); err != nil {
		log.Error("Observability shutdown error", map[string]interface{}{"error": err.Error()})
	}

	log.Info("Service stopped")
	os.Exit(0)
}

// buildRegistry assembles the step registry, wrapping each step with
// logging and, when telemetry is on, a per-step span.
func buildRegistry(traced bool, log *logger.Logger) *engine.Registry {
	base := engine.NewRegistry()
	quality.RegisterSteps(base)

	reg := engine.NewRegistry()
	for _, name := range base.List() {
		step, _ := base.Get(name)
		step = engine.WithLogging(step, log)
		if traced {
			step = engine.WithTracing(step, "workflow")
		}
		reg.Register(step)
	}
	return reg
}

// preloadGraphs stores the built-in workflow plus any YAML definitions
// found in the configured directories.
func preloadGraphs(dirs []string, graphs *store.Graphs, log *logger.Logger) {
	graphs.Put(quality.GraphName, quality.DefaultGraph())

	if len(dirs) == 0 {
		return
	}
	loaded, err := engine.NewFileGraphLoader(dirs...).LoadAll()
	if err != nil {
		log.Warn("Failed to load workflow definitions", map[string]interface{}{
			"dirs":  dirs,
			"error": err.Error(),
		})
		return
	}
	for name, g := range loaded {
		graphs.Put(name, g)
		log.Info("Workflow loaded", map[string]interface{}{"name": name})
	}
}
