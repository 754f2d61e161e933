// Copyright 2025 Loreweave Systems
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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/loreweave/loreweave"
	"github.com/loreweave/loreweave/ai"
	"github.com/loreweave/loreweave/archive"
	"github.com/loreweave/loreweave/core"
	"github.com/loreweave/loreweave/ingestion"
	"github.com/loreweave/loreweave/reembed"
)

func main() {
	app := &cli.App{
		Name:  "loreweave",
		Usage: "Turn unstructured documents into a queryable knowledge graph",
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
				Name:      "ingest",
				Usage:     "Ingest the given files, one attempt each",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags:     append(databaseFlags(), aiFlags()...),
			},
			{
				Name:      "run",
				Usage:     "Scan a directory and ingest every supported file through the job queue",
				ArgsUsage: "DIR",
				Action:    runCommand,
				Flags: append(append(databaseFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Number of files ingested in parallel",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "rate-limit",
						Usage: "Maximum jobs started per minute (0 disables)",
					},
					&cli.IntFlag{
						Name:  "max-attempts",
						Usage: "Attempts per file before giving up",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "backoff-base",
						Usage: "Base delay for retry backoff",
						Value: 1 * time.Second,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Query the graph with hybrid vector+lexical retrieval",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append(append(databaseFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
				),
			},
			{
				Name:      "related",
				Usage:     "List the one-hop neighborhood of an entity (numeric id or document path)",
				ArgsUsage: "ID|PATH",
				Action:    relatedCommand,
				Flags:     append(databaseFlags(), aiFlags()...),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate the embedding of every document in the store",
				Action: reembedCommand,
				Flags: append(append(databaseFlags(), aiFlags()...),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func databaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL for both capabilities",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "classifier-model",
			Usage: "Model used for classification, validation, and command generation",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Model used for text embeddings",
			Value: "embeddinggemma",
		},
		&cli.BoolFlag{
			Name:  "validate",
			Usage: "Gate ingestion on a second-pass validation of each classification",
		},
		&cli.StringFlag{
			Name:  "archive",
			Usage: "Append ingested source files to this zstd tar container and delete the originals",
		},
	}
}

func openDatabase(c *cli.Context) (*loreweave.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithClassifierModel(c.String("classifier-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithValidation(c.Bool("validate")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := loreweave.NewDatabase(c.String("db"), loreweave.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// pipelineOptions builds the per-command pipeline configuration. The returned
// cleanup closes the archiver, if one was requested.
func pipelineOptions(c *cli.Context) ([]ingestion.PipelineOption, func(), error) {
	opts := []ingestion.PipelineOption{
		ingestion.WithValidation(c.Bool("validate")),
	}
	cleanup := func() {}

	if container := c.String("archive"); container != "" {
		arc, err := archive.New(container)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open archive container: %w", err)
		}
		opts = append(opts, ingestion.WithArchiver(arc))
		cleanup = func() { arc.Close() }
	}
	return opts, cleanup, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipelineOpts, cleanup, err := pipelineOptions(c)
	if err != nil {
		return err
	}
	defer cleanup()

	queue, err := db.NewQueue(pipelineOpts)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	defer queue.Release()

	group, ctx := errgroup.WithContext(context.Background())
	for _, path := range c.Args().Slice() {
		group.Go(func() error {
			if err := queue.Process(ctx, path); err != nil {
				return fmt.Errorf("ingesting %s: %w", path, err)
			}
			fmt.Fprintf(os.Stderr, "ingested %s\n", path)
			return nil
		})
	}
	return group.Wait()
}

func runCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one directory is required")
	}
	dir := c.Args().First()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipelineOpts, cleanup, err := pipelineOptions(c)
	if err != nil {
		return err
	}
	defer cleanup()

	queueOpts := []ingestion.QueueOption{
		ingestion.WithConcurrency(c.Int("concurrency")),
		ingestion.WithMaxAttempts(c.Int("max-attempts")),
		ingestion.WithBackoffBase(c.Duration("backoff-base")),
	}
	if max := c.Int("rate-limit"); max > 0 {
		queueOpts = append(queueOpts, ingestion.WithRateLimit(max, time.Minute))
	}

	queue, err := db.NewQueue(pipelineOpts, queueOpts...)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	defer queue.Release()

	enqueued, err := enqueueDirectory(queue, db, dir)
	if err != nil {
		return err
	}
	if enqueued == 0 {
		fmt.Fprintf(os.Stderr, "no supported files under %s\n", dir)
		return nil
	}
	fmt.Fprintf(os.Stderr, "enqueued %d files from %s\n", enqueued, dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx)

	if err := queue.WaitIdle(ctx); err != nil {
		return fmt.Errorf("waiting for queue: %w", err)
	}
	return nil
}

func enqueueDirectory(queue *ingestion.Queue, db *loreweave.Database, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read directory: %w", err)
	}

	enqueued := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !db.Extractor().Supported(path) {
			slog.Debug("skipping unsupported file", "path", path)
			continue
		}
		if _, err := queue.Enqueue(path, nil); err != nil {
			return enqueued, fmt.Errorf("enqueueing %s: %w", path, err)
		}
		enqueued++
	}
	return enqueued, nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(context.Background(), query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		title := hit.Metadata["title"]
		if title == "" {
			title = hit.Metadata["file_path"]
		}
		fmt.Printf("%d: %s (%d)[%s %0.4f]\n", i+1, title, hit.DocumentId, hit.MatchType, hit.Score)
		if summary := hit.Metadata["summary"]; summary != "" {
			fmt.Printf("   %s\n", summary)
		}
	}
	return nil
}

func relatedCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("an entity id or document path is required")
	}
	id := parseEntityRef(c.Args().First())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	entity, err := db.Store().GetEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("looking up entity %d: %w", id, err)
	}

	neighbors, err := db.Store().Relationships(ctx, id)
	if err != nil {
		return fmt.Errorf("listing relationships: %w", err)
	}

	fmt.Printf("%s (%d): %d neighbors\n", entityLabel(entity), entity.Id, len(neighbors))
	for _, n := range neighbors {
		arrow := "->"
		if n.Direction == core.DirectionIncoming {
			arrow = "<-"
		}
		fmt.Printf("  %s %s %s (%d)\n", arrow, n.Relationship.Class, entityLabel(n.Entity), n.Entity.Id)
	}
	return nil
}

// parseEntityRef accepts either a raw numeric id or a document path; paths
// hash to the same id the ingestion pipeline assigned.
func parseEntityRef(arg string) core.ID {
	if id, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return core.ID(id)
	}
	return core.DocumentID(arg)
}

func entityLabel(entity *core.Entity) string {
	if name := entity.Metadata["name"]; name != "" {
		return name
	}
	if title := entity.Metadata["title"]; title != "" {
		return title
	}
	return string(entity.Class)
}

func reembedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := db.NewReembedder(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("re-embedding failed: %w", err)
	}
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
