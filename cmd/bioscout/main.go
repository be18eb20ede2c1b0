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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/bioscout"
	"github.com/poiesic/bioscout/ai"
	"github.com/poiesic/bioscout/ai/mock"
	"github.com/poiesic/bioscout/ai/openai"
	"github.com/poiesic/bioscout/core"
	"github.com/poiesic/bioscout/corpus"
	badgerstore "github.com/poiesic/bioscout/store/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "bioscout",
		Usage: "Hybrid retrieval and enrichment over biopharma research records",
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
				Name:   "research",
				Usage:  "Run a research job: retrieve, rerank, enrich, and write the result workbook",
				Action: researchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Natural language research query",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "kind",
						Usage: "Record kinds to include (company, deal, trial, award, asset); default all",
					},
					&cli.StringFlag{
						Name:  "records",
						Usage: "Path to the corpus records JSON file",
						Value: "data/records.json",
					},
					&cli.StringFlag{
						Name:  "matrix",
						Usage: "Path to the corpus embedding matrix file",
						Value: "data/embeddings.npy",
					},
					&cli.StringFlag{
						Name:  "artifacts",
						Usage: "Path to the local artifact store directory",
						Value: "data/artifacts",
					},
					&cli.StringFlag{
						Name:  "job-id",
						Usage: "Job identifier; generated when omitted",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
					&cli.StringFlag{
						Name:  "generator-host",
						Usage: "Generative enrichment service host URL",
					},
					&cli.StringFlag{
						Name:  "generator-model",
						Usage: "Generative model name",
					},
					&cli.StringFlag{
						Name:  "reranker-host",
						Usage: "Cross-encoder reranking service host URL",
					},
					&cli.StringFlag{
						Name:  "reranker-model",
						Usage: "Cross-encoder model name",
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Generate a demo corpus: records JSON plus its embedding matrix",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory for records.json and embeddings.npy",
						Value: "data",
					},
					&cli.BoolFlag{
						Name:  "mock-embeddings",
						Usage: "Use deterministic embeddings instead of an embedding service",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
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

// aiConfigFromFlags builds the provider config, falling back to defaults for
// unset flags.
func aiConfigFromFlags(c *cli.Context) *ai.Config {
	var opts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		opts = append(opts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if host := c.String("generator-host"); host != "" {
		opts = append(opts, ai.WithGeneratorHost(host))
	}
	if model := c.String("generator-model"); model != "" {
		opts = append(opts, ai.WithGeneratorModel(model))
	}
	if host := c.String("reranker-host"); host != "" {
		opts = append(opts, ai.WithRerankerHost(host))
	}
	if model := c.String("reranker-model"); model != "" {
		opts = append(opts, ai.WithRerankerModel(model))
	}
	return ai.NewConfig(opts...)
}

func parseKinds(names []string) ([]core.Kind, error) {
	kinds := make([]core.Kind, 0, len(names))
	for _, name := range names {
		kind, err := core.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func researchCommand(c *cli.Context) error {
	ctx := context.Background()

	kinds, err := parseKinds(c.StringSlice("kind"))
	if err != nil {
		return err
	}

	config := aiConfigFromFlags(c)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	provider, err := openai.NewProvider(config)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	artifacts, err := badgerstore.Open(c.String("artifacts"), false)
	if err != nil {
		return fmt.Errorf("failed to open artifact store: %w", err)
	}
	defer artifacts.Close()

	manager := corpus.NewManager(c.String("records"), c.String("matrix"))
	service, err := bioscout.New(manager, provider, artifacts)
	if err != nil {
		return err
	}
	defer service.Close()

	jobID := c.String("job-id")
	if jobID == "" {
		jobID = uuid.NewString()
	}

	progress := func(p core.Progress) {
		slog.Info("progress", "state", p.State.String(), "current", p.Current, "total", p.Total, "percent", p.Percent)
	}

	result, err := service.Run(ctx, jobID, c.String("query"), kinds, progress)
	if err != nil {
		return err
	}

	url, err := service.DownloadURL(ctx, result, time.Hour)
	if err != nil {
		return err
	}

	fmt.Printf("Job %s complete\n", jobID)
	fmt.Printf("  artifact: %s\n", result.Key)
	fmt.Printf("  filename: %s\n", result.Filename)
	fmt.Printf("  download: %s\n", url)
	return nil
}

// demoRecords is a small seed corpus exercising every record kind.
var demoRecords = []map[string]string{
	{"type": "company", "company": "Acme Biotech", "combined_text": "Acme Biotech develops an oncology antibody targeting HER2-positive tumors"},
	{"type": "company", "company": "Helix Therapeutics", "combined_text": "Helix Therapeutics builds AAV gene therapies for rare retinal disease"},
	{"type": "company", "company": "Meridian Biosciences", "combined_text": "Meridian Biosciences advances a small molecule KRAS inhibitor for lung cancer"},
	{"type": "deal", "acquirer": "BigPharma", "acquired": "Acme Biotech", "combined_text": "Acme Biotech acquired by BigPharma for $500M upfront plus milestones"},
	{"type": "deal", "acquirer": "Global Pharma Group", "acquired": "Helix Therapeutics", "combined_text": "Global Pharma Group licenses Helix Therapeutics gene therapy platform in a $1.2B deal"},
	{"type": "trial", "phase": "II", "sponsor": "Acme Biotech", "combined_text": "Phase II oncology trial of ACM-101 in HER2-positive breast cancer"},
	{"type": "trial", "phase": "I", "sponsor": "Meridian Biosciences", "combined_text": "Phase I dose-escalation study of MB-201 in advanced solid tumors"},
	{"type": "award", "agency": "NIH", "amount": "2500000", "combined_text": "NIH SBIR award for development of a novel antibody-drug conjugate platform"},
	{"type": "asset", "name": "ACM-101", "combined_text": "ACM-101 is a humanized monoclonal antibody against HER2 in Phase II development"},
	{"type": "asset", "name": "HX-12", "combined_text": "HX-12 is an AAV5 gene therapy vector for X-linked retinitis pigmentosa"},
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	recordsPath := filepath.Join(outDir, "records.json")
	matrixPath := filepath.Join(outDir, "embeddings.npy")

	data, err := json.MarshalIndent(demoRecords, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(recordsPath, data, 0o644); err != nil {
		return err
	}

	records, err := corpus.LoadRecords(recordsPath)
	if err != nil {
		return fmt.Errorf("failed to reload seeded records: %w", err)
	}

	var embedder ai.Embedder
	if c.Bool("mock-embeddings") {
		embedder = mock.NewMockEmbedder()
	} else {
		config := aiConfigFromFlags(c)
		if err := config.Validate(); err != nil {
			return fmt.Errorf("invalid AI configuration: %w", err)
		}
		embedder, err = openai.NewEmbedder(config)
		if err != nil {
			return fmt.Errorf("failed to create embedder: %w", err)
		}
	}

	if err := corpus.BuildMatrix(ctx, embedder, records, matrixPath, corpus.DefaultEmbedConfig()); err != nil {
		return fmt.Errorf("failed to build embedding matrix: %w", err)
	}

	fmt.Printf("Seeded %d records\n", len(records))
	fmt.Printf("  records: %s\n", recordsPath)
	fmt.Printf("  matrix:  %s\n", matrixPath)
	return nil
}
