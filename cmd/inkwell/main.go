// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

// Command inkwell runs the content ability server: it loads configuration,
// opens the content store, registers the post abilities and exposes them to
// MCP clients over stdio or streamable HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/inkwell-cms/inkwell/pkg/ability"
	"github.com/inkwell-cms/inkwell/pkg/capability"
	"github.com/inkwell-cms/inkwell/pkg/config"
	"github.com/inkwell-cms/inkwell/pkg/content"
	inkmcp "github.com/inkwell-cms/inkwell/pkg/mcp"
	"github.com/inkwell-cms/inkwell/pkg/telemetry"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (yaml)")
	flag.Usage = printUsage
	flag.Parse()

	cmd := "serve"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, configPath)
	case "abilities":
		err = runAbilities(cfg)
	case "seed":
		err = runSeed(ctx, cfg, flag.Args()[1:])
	case "version":
		fmt.Println("inkwell " + version)
	case "help":
		printUsage()
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fatal(err)
	}
}

func runServe(ctx context.Context, cfg *config.Config, configPath string) error {
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitWithConfig(cfg.Server.Name, cfg.Server.Version, telemetry.Config{
			Exporter:           cfg.Telemetry.Exporter,
			OTLPEndpoint:       cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure:       cfg.Telemetry.OTLPInsecure,
			OTLPTimeoutSeconds: cfg.Telemetry.OTLPTimeoutSeconds,
		})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("telemetry shutdown failed", "error", err)
			}
		}()
	}

	reg, _, err := buildRegistry(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Telemetry.Enabled {
		metrics, err := telemetry.NewInvocationMetrics(ctx)
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
		reg.SetMetrics(metrics)
	}

	// Watch the config file while serving so log settings can be adjusted
	// without a restart. Everything else (store, caller, transport) is fixed
	// for the lifetime of the process.
	if configPath != "" {
		watcher, err := config.Watch(ctx, configPath,
			config.WithWatchLogger(telemetry.ComponentLogger("config")))
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
		defer watcher.Stop()
		watcher.OnChange(func(next *config.Config) {
			telemetry.ConfigureSlog(os.Stderr, next.Log.Level, next.Log.Format)
			slog.Info("log settings reloaded",
				"level", next.Log.Level, "format", next.Log.Format)
		})
	}

	caller := capability.NewStaticCaller(cfg.Caller.ID, cfg.Caller.Grants...)

	srv := inkmcp.NewServer(cfg.Server.Name, cfg.Server.Version)
	if err := srv.RegisterAbilities(reg, caller); err != nil {
		return fmt.Errorf("register abilities: %w", err)
	}

	slog.Info("inkwell starting",
		"transport", cfg.Server.Transport,
		"caller", cfg.Caller.ID,
		"store", cfg.Store.Path)

	switch cfg.Server.Transport {
	case "http":
		return srv.ServeStreamableHTTP(cfg.Server.Addr)
	case "stdio", "":
		return srv.ServeStdio()
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
}

// runAbilities prints the registered abilities, one per line, for quick
// inspection of a deployment's surface.
func runAbilities(cfg *config.Config) error {
	reg, _, err := buildRegistry(context.Background(), cfg)
	if err != nil {
		return err
	}

	defs := reg.List(ability.ListFilter{Visibility: ability.VisibilityPublic})
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tDESCRIPTION")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.ID, def.Label, def.Description)
	}
	return w.Flush()
}

// runSeed applies a seed file to the store and exits. The path argument wins
// over the configured one.
func runSeed(ctx context.Context, cfg *config.Config, args []string) error {
	path := cfg.Seed.Path
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("no seed file: pass a path or set seed.path")
	}

	types := content.NewTypeSet(content.GenericType())
	store, err := content.OpenSQLiteStore(cfg.Store.Path, types)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	seed, err := content.LoadSeed(path)
	if err != nil {
		return err
	}
	if err := content.ApplySeed(ctx, store, types, seed); err != nil {
		return err
	}
	slog.Info("seed applied", "types", len(seed.Types), "posts", len(seed.Posts))
	return nil
}

func buildRegistry(ctx context.Context, cfg *config.Config) (*ability.Registry, *content.SQLiteStore, error) {
	types := content.NewTypeSet(content.GenericType())
	store, err := content.OpenSQLiteStore(cfg.Store.Path, types)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	if cfg.Seed.Path != "" {
		seed, err := content.LoadSeed(cfg.Seed.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("load seed: %w", err)
		}
		if err := content.ApplySeed(ctx, store, types, seed); err != nil {
			return nil, nil, fmt.Errorf("apply seed: %w", err)
		}
	}

	reg := ability.NewRegistry()
	if err := content.RegisterAbilities(reg, store); err != nil {
		return nil, nil, err
	}
	return reg, store, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `inkwell - content ability server

Usage:
  inkwell [-config path] [command]

Commands:
  serve      start the MCP server (default)
  abilities  list registered abilities
  seed       apply a seed file to the store
  version    print version
  help       show this help

Environment variables prefixed INKWELL_ override file settings,
e.g. INKWELL_SERVER_TRANSPORT=http.
`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "inkwell:", err)
	os.Exit(1)
}
