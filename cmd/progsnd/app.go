// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ik5/progsnd"
	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/internal/config"
	"github.com/ik5/progsnd/loader"
	"github.com/ik5/progsnd/table"
)

// app is the resolver stack every subcommand runs on.
type app struct {
	loader   *loader.FileLoader
	resolver *progsnd.Resolver
	banks    map[string]*table.Table
	// paths are the resolved table locations by bank name.
	paths map[string]string
}

func newApp(cfg config.Config, baseDir string, logger *slog.Logger) (*app, error) {
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("no tables configured")
	}
	active, err := cfg.ActiveTable()
	if err != nil {
		return nil, err
	}

	ld := loader.NewFileLoader(
		loader.WithRoot(resolvePath(baseDir, cfg.MediaRoot)),
		loader.WithMaxSounds(cfg.MaxSounds),
		loader.WithCacheTTL(cfg.CacheTTL),
		loader.WithLogger(logger),
	)

	a := &app{
		loader: ld,
		banks:  make(map[string]*table.Table, len(cfg.Tables)),
		paths:  make(map[string]string, len(cfg.Tables)),
	}
	for name, p := range cfg.Tables {
		path := resolvePath(baseDir, p)
		t, err := loadBank(name, path, ld.Registry())
		if err != nil {
			return nil, err
		}
		a.banks[name] = t
		a.paths[name] = path
	}

	a.resolver, err = progsnd.New(a.banks[active], ld,
		progsnd.WithLogger(logger),
		progsnd.WithStrict(cfg.Strict),
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// loadBank reads a YAML table, or scans a directory when path is one.
func loadBank(name, path string, reg *audio.Registry) (*table.Table, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}

	var t *table.Table
	if fi.IsDir() {
		t, err = table.FromDir(path, reg, loader.ModeSample)
	} else {
		t, err = table.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	return t.Rename(name), nil
}

func resolvePath(baseDir, p string) string {
	if p == "" || baseDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
