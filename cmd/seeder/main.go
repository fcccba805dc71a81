package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/stickerdex"
	"github.com/poiesic/stickerdex/ingestion"
	"golang.org/x/sync/errgroup"
)

// packFile is the on-disk seed format: one pack per JSON file.
type packFile struct {
	PackId    string        `json:"packId"`
	PackTitle string        `json:"packTitle"`
	Stickers  []packSticker `json:"stickers"`
}

type packSticker struct {
	Id      string   `json:"id"`
	Emoji   []string `json:"emoji"`
	Caption string   `json:"caption"`
}

var builtinPacks = []packFile{
	{
		PackId:    "happy_cats",
		PackTitle: "Happy Cats",
		Stickers: []packSticker{
			{Id: "cat-grin", Emoji: []string{"😀", "🐱"}, Caption: "grinning tabby"},
			{Id: "cat-laugh", Emoji: []string{"😂"}, Caption: "cat laughing at a cucumber"},
			{Id: "cat-love", Emoji: []string{"😻"}, Caption: "heart eyes"},
			{Id: "cat-nap", Emoji: []string{"😴"}, Caption: "sunday afternoon nap"},
			{Id: "cat-box", Emoji: []string{"📦"}, Caption: "if it fits it sits"},
			{Id: "cat-keyboard", Emoji: []string{"⌨️"}, Caption: "helping with the deploy"},
		},
	},
	{
		PackId:    "sad_dogs",
		PackTitle: "Sad Dogs",
		Stickers: []packSticker{
			{Id: "dog-rain", Emoji: []string{"😢", "🐶"}, Caption: "left out in the rain"},
			{Id: "dog-vet", Emoji: []string{"😟"}, Caption: "we are not going to the park"},
			{Id: "dog-empty-bowl", Emoji: []string{"🥣"}, Caption: "the bowl is empty again"},
			{Id: "dog-monday", Emoji: []string{"😞"}, Caption: "monday morning walk"},
		},
	},
	{
		PackId:    "office_frogs",
		PackTitle: "Office Frogs",
		Stickers: []packSticker{
			{Id: "frog-coffee", Emoji: []string{"🐸", "☕"}, Caption: "but first, coffee"},
			{Id: "frog-meeting", Emoji: []string{"🐸", "📅"}, Caption: "this meeting could have been an email"},
			{Id: "frog-ship", Emoji: []string{"🐸", "🚀"}, Caption: "ship it friday at five"},
			{Id: "frog-bug", Emoji: []string{"🐸", "🐛"}, Caption: "works on my lily pad"},
		},
	},
}

var dbPath = flag.String("db", "./sticker_db", "path to the sticker database")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// loadPackFile reads and decodes one JSON pack file.
func loadPackFile(filename string) (packFile, error) {
	var pack packFile
	data, err := os.ReadFile(filename)
	if err != nil {
		return pack, err
	}
	if err := json.Unmarshal(data, &pack); err != nil {
		return pack, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return pack, nil
}

// updatesFromPack flattens a pack into ingestion updates.
func updatesFromPack(pack packFile, now time.Time) []ingestion.StickerUpdate {
	updates := make([]ingestion.StickerUpdate, 0, len(pack.Stickers))
	for _, s := range pack.Stickers {
		updates = append(updates, ingestion.StickerUpdate{
			StickerId:       s.Id,
			PackId:          pack.PackId,
			PackTitle:       pack.PackTitle,
			Emoji:           s.Emoji,
			Caption:         s.Caption,
			SourceTimestamp: now,
		})
	}
	return updates
}

func main() {
	db, err := stickerdex.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()
	now := time.Now()

	// Each pack file is loaded and ingested independently; the pipeline
	// serializes the actual index writes across its worker pool.
	group, gctx := errgroup.WithContext(ctx)
	if files := flag.Args(); len(files) > 0 {
		for _, filename := range files {
			group.Go(func() error {
				pack, err := loadPackFile(filename)
				if err != nil {
					return err
				}
				slog.Info("seeding pack", "pack", pack.PackId, "stickers", len(pack.Stickers))
				return pipeline.Ingest(gctx, updatesFromPack(pack, now)...)
			})
		}
	} else {
		for _, pack := range builtinPacks {
			group.Go(func() error {
				slog.Info("seeding pack", "pack", pack.PackId, "stickers", len(pack.Stickers))
				return pipeline.Ingest(gctx, updatesFromPack(pack, now)...)
			})
		}
	}

	if err := group.Wait(); err != nil {
		panic(err)
	}
}
