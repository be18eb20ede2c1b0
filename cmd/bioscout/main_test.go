package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Action: func(c *cli.Context) error { return nil },
	}

	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			err := app.Run([]string{"bioscout", "--log-level", level})
			assert.NoError(t, err, "level %s", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := app.Run([]string{"bioscout", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestParseKinds(t *testing.T) {
	t.Run("valid kinds", func(t *testing.T) {
		kinds, err := parseKinds([]string{"company", "trial"})
		require.NoError(t, err)
		assert.Len(t, kinds, 2)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := parseKinds([]string{"molecule"})
		assert.Error(t, err)
	})

	t.Run("empty means default", func(t *testing.T) {
		kinds, err := parseKinds(nil)
		require.NoError(t, err)
		assert.Empty(t, kinds)
	})
}

func TestDemoRecordsCoverAllKinds(t *testing.T) {
	seen := make(map[string]bool)
	for _, rec := range demoRecords {
		seen[rec["type"]] = true
		require.NotEmpty(t, rec["combined_text"])
	}
	for _, kind := range []string{"company", "deal", "trial", "award", "asset"} {
		assert.True(t, seen[kind], "demo corpus missing kind %s", kind)
	}
}

func TestSeedCommandWritesCorpus(t *testing.T) {
	outDir := t.TempDir()

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out"},
					&cli.BoolFlag{Name: "mock-embeddings"},
					&cli.StringFlag{Name: "embedding-host"},
					&cli.StringFlag{Name: "embedding-model"},
				},
			},
		},
	}

	err := app.Run([]string{"bioscout", "seed", "--out", outDir, "--mock-embeddings"})
	require.NoError(t, err)

	_, err = os.Stat(outDir + "/records.json")
	assert.NoError(t, err)
	_, err = os.Stat(outDir + "/embeddings.npy")
	assert.NoError(t, err)
}
