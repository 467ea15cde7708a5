// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jinterlante1206/Bookbound/cmd/bookbound/config"
	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
	"github.com/jinterlante1206/Bookbound/pkg/logging"
	"github.com/jinterlante1206/Bookbound/pkg/storage"
	"github.com/jinterlante1206/Bookbound/pkg/ux"
)

// =============================================================================
// Flags and shared state
// =============================================================================

var (
	flagConfig      string
	flagData        string
	flagStorage     string
	flagPersonality string
	flagLogLevel    string
	flagLogDir      string

	appCfg    config.BookboundConfig
	appLogger *logging.Logger
)

// =============================================================================
// Commands
// =============================================================================

// rootCmd starts the interactive mapping session.
//
// Description:
//
//	Restores the saved tree for the current book, then reads commands
//	(go, edit, back, undo, overview, tree, quit) until the user quits
//	or the input ends. State is saved after every mutating command.
var rootCmd = &cobra.Command{
	Use:   "bookbound",
	Short: "Map a choose-your-own-path gamebook as you read it",
	Long: `Bookbound is a reading companion for choose-your-own-path gamebooks.

As you read, tell it which paragraph you turned to and it builds the
book's decision tree: which choices you have taken, where the deaths
and battles are, and which branches remain unexplored.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := buildStore(appCfg, appLogger)
		if err != nil {
			return err
		}
		defer store.Close()

		reader := NewInteractiveInputReader(100)
		session := NewSession(appCfg, appLogger, store, reader, huhPrompter{}, os.Stdout)
		return session.Run()
	},
}

// treeCmd renders the exploration tree once and exits.
//
// Description:
//
//	Loads the saved tree and prints it from the given root paragraph
//	(default: the book's configured root). Suitable for piping; the
//	machine personality drops colors automatically.
var treeCmd = &cobra.Command{
	Use:   "tree [root]",
	Short: "Print the exploration tree and exit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := appCfg.Book.DefaultRoot
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 1 {
				return fmt.Errorf("%q is not a paragraph number", args[0])
			}
			root = parsed
		}

		registry, path, err := loadSavedState()
		if err != nil {
			return err
		}
		ShowTree(os.Stdout, registry, path, root)
		return nil
	},
}

// overviewCmd prints the book totals and current path once and exits.
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Print the book totals and current path, then exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, path, err := loadSavedState()
		if err != nil {
			return err
		}
		ShowOverview(os.Stdout, appCfg.Book.Title, registry, path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.bookbound/bookbound.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "override the snapshot path or badger directory")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "storage backend: file or badger")
	rootCmd.PersistentFlags().StringVar(&flagPersonality, "personality", "", "output personality: full, standard, minimal, machine")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "write JSON logs to this directory")

	rootCmd.PersistentPreRunE = setup
	rootCmd.AddCommand(treeCmd, overviewCmd)
}

// =============================================================================
// Wiring
// =============================================================================

// setup loads config and applies flag overrides before any command
// runs. Flags win over the config file; neither is written back.
func setup(cmd *cobra.Command, args []string) error {
	ux.InitPersonality()
	if flagPersonality != "" {
		ux.SetPersonalityLevel(ux.ParsePersonalityLevel(flagPersonality))
	}

	var err error
	if flagConfig != "" {
		appCfg, err = config.LoadFrom(flagConfig)
	} else {
		appCfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flagData != "" {
		appCfg.Storage.Path = flagData
	}
	if flagStorage != "" {
		if flagStorage != "file" && flagStorage != "badger" {
			return fmt.Errorf("unknown storage backend %q (want file or badger)", flagStorage)
		}
		appCfg.Storage.Backend = flagStorage
	}
	if flagLogLevel != "" {
		appCfg.Logging.Level = flagLogLevel
	}
	if flagLogDir != "" {
		appCfg.Logging.Dir = flagLogDir
	}

	appLogger = logging.New(logging.Config{
		Level:  logging.ParseLevel(appCfg.Logging.Level),
		LogDir: appCfg.Logging.Dir,
	})
	return nil
}

// buildStore opens the configured snapshot backend.
func buildStore(cfg config.BookboundConfig, logger *logging.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "badger":
		bcfg := storage.DefaultBadgerConfig(cfg.Storage.Path)
		bcfg.Logger = logger.Slog()
		return storage.OpenBadgerStore(bcfg)
	default:
		return storage.NewFileStore(cfg.Storage.Path), nil
	}
}

// loadSavedState restores the registry and path for the one-shot
// commands, closing the store before returning.
func loadSavedState() (registry *gamebook.Registry, path []int, err error) {
	store, err := buildStore(appCfg, appLogger)
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	snap, err := store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading the saved tree: %w", err)
	}
	reg, nav := snap.Restore()
	return reg, nav.Path(), nil
}
