// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/stickerdex"
	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/search"
	"github.com/poiesic/stickerdex/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "stickerdex",
		Usage: "Administer a sticker search index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Usage:  "Rebuild the inverted index from stored records",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "scoring",
						Usage: "Path to a YAML scoring config (field weights apply to new postings)",
					},
				},
			},
			{
				Name:      "remove-pack",
				Usage:     "Remove every sticker belonging to a pack",
				Action:    removePackCommand,
				ArgsUsage: "PACK_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a single sticker by its upstream identifier",
				Action:    removeCommand,
				ArgsUsage: "STICKER_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Report record and term counts",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*stickerdex.Database, error) {
	var opts []stickerdex.DatabaseOption
	if path := c.String("scoring"); path != "" {
		cfg, err := search.LoadScoringConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load scoring config: %w", err)
		}
		opts = append(opts, stickerdex.WithScoringConfig(cfg))
	}

	db, err := stickerdex.Open(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func reindexCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Indexer().Reindex(context.Background()); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Fprintln(os.Stderr, "Reindex complete")
	return nil
}

func removePackCommand(c *cli.Context) error {
	packId := c.Args().First()
	if packId == "" {
		return fmt.Errorf("pack id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Indexer().RemovePack(context.Background(), packId); err != nil {
		return fmt.Errorf("failed to remove pack %q: %w", packId, err)
	}

	fmt.Fprintf(os.Stderr, "Removed pack %s\n", packId)
	return nil
}

func removeCommand(c *cli.Context) error {
	stickerId := c.Args().First()
	if stickerId == "" {
		return fmt.Errorf("sticker id is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	id := core.IDFromContent(stickerId)
	if err := db.Indexer().Remove(context.Background(), id); err != nil {
		return fmt.Errorf("failed to remove sticker %q: %w", stickerId, err)
	}

	fmt.Fprintf(os.Stderr, "Removed sticker %s (%d)\n", stickerId, id)
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var records, terms, postings int
	err = db.Store().View(context.Background(), func(tx storage.Tx) error {
		if err := tx.IterRecords(func(*core.StickerRecord) error {
			records++
			return nil
		}); err != nil {
			return err
		}
		return tx.IterTerms(func(_ string, list core.PostingList) error {
			terms++
			postings += len(list)
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("failed to gather stats: %w", err)
	}

	fmt.Printf("records:  %d\n", records)
	fmt.Printf("terms:    %d\n", terms)
	fmt.Printf("postings: %d\n", postings)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
