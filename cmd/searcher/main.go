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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/stickerdex"
	"github.com/poiesic/stickerdex/core"
	"github.com/poiesic/stickerdex/search"
)

var verbose = flag.Bool("v", false, "trace the search stages")

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// traceMonitor logs each search stage.
type traceMonitor struct{}

func (traceMonitor) Start(query string) { slog.Info("search", "query", query) }
func (traceMonitor) AfterNormalize(terms []string) {
	slog.Info("normalized", "terms", terms)
}
func (traceMonitor) AfterPostingFetch(term string, postings int) {
	slog.Info("postings", "term", term, "count", postings)
}
func (traceMonitor) AfterCandidateRetrieval(candidates int) {
	slog.Info("candidates", "count", candidates)
}
func (traceMonitor) Finish(results []core.ScoredResult) {
	slog.Info("ranked", "hits", len(results))
}

func main() {
	db, err := stickerdex.Open("./sticker_db")
	if err != nil {
		panic(err)
	}
	defer db.Close()
	searcher, err := db.NewSearcher()
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	query := "😀"
	if args := flag.Args(); len(args) > 0 {
		query = strings.Join(args, " ")
	}

	var monitor search.SearchMonitor
	if *verbose {
		monitor = traceMonitor{}
	}

	results, err := searcher.SearchWithMonitor(ctx, query, 10, 0, monitor)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s/%s %v '%s' (%d)[%0.3f]\n",
			i, hit.Record.PackId, hit.Record.PackTitle, hit.Record.Emoji,
			hit.Record.Caption, hit.Record.Id, hit.Score)
	}
}
