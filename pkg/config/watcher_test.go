// Copyright 2026 © The Inkwell Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	w, err := Watch(ctx, path, WithWatchInterval(20*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

func TestWatchInitialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "server:\n  addr: localhost:1111\n")

	w := startWatcher(t, path)
	if w.Config().Server.Addr != "localhost:1111" {
		t.Errorf("expected addr 'localhost:1111', got %q", w.Config().Server.Addr)
	}
}

func TestWatchMissingFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "does-not-exist.yaml")
	if _, err := Watch(ctx, path); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestWatchDetectsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "log:\n  level: info\n")

	w := startWatcher(t, path)

	changes := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) {
		select {
		case changes <- cfg:
		default:
		}
	})

	// Let the first tick pass before updating, and push the mod time
	// forward explicitly: coarse filesystem timestamps would otherwise
	// hide a quick rewrite.
	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, "log:\n  level: debug\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to bump mod time: %v", err)
	}

	select {
	case cfg := <-changes:
		if cfg.Log.Level != "debug" {
			t.Errorf("expected reloaded level 'debug', got %q", cfg.Log.Level)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config change notification")
	}

	if w.Config().Log.Level != "debug" {
		t.Errorf("Config() not updated after reload: %q", w.Config().Log.Level)
	}
}

func TestWatchKeepsConfigOnBrokenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "server:\n  name: keeper\n")

	w := startWatcher(t, path)

	notified := make(chan struct{}, 1)
	w.OnChange(func(*Config) { notified <- struct{}{} })

	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, "{{{ not yaml\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to bump mod time: %v", err)
	}

	select {
	case <-notified:
		t.Fatal("listener notified for a failed reload")
	case <-time.After(200 * time.Millisecond):
	}
	if w.Config().Server.Name != "keeper" {
		t.Errorf("broken file replaced working config: %q", w.Config().Server.Name)
	}
}

func TestWatchStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "log: {}\n")

	ctx := context.Background()
	w, err := Watch(ctx, path, WithWatchInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("watcher.Stop() did not complete in time")
	}
}

func TestWatchMultipleListeners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "log:\n  level: info\n")

	w := startWatcher(t, path)

	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)
	w.OnChange(func(*Config) { first <- struct{}{} })
	w.OnChange(func(*Config) { second <- struct{}{} })

	time.Sleep(50 * time.Millisecond)
	writeConfig(t, path, "log:\n  level: warn\n")
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("failed to bump mod time: %v", err)
	}

	for name, ch := range map[string]chan struct{}{"first": first, "second": second} {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Errorf("listener %s was not notified", name)
		}
	}
}
