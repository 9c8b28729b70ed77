// ABOUTME: Ingestion pipeline walking the watched directory and indexing new files
// ABOUTME: Per-file failures are isolated; failed files are retried on the next run
package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/loader"
	"github.com/atelier-iris/companion/internal/models"
	"github.com/atelier-iris/companion/internal/storage"
)

// Pipeline ingests new documents from the watched directory into the store.
type Pipeline struct {
	cfg      *config.Config
	registry *loader.Registry
	chunker  *Chunker
	tracker  *Tracker
	embedder storage.Embedder
}

// RunResult summarizes one pipeline run.
type RunResult struct {
	NewFiles int // files loaded and marked processed this run
	Units    int // source units extracted from those files
	Chunks   int // chunks written to the store
	Skipped  int // files that failed to load (retried next run)
}

func NewPipeline(cfg *config.Config, registry *loader.Registry, chunker *Chunker, tracker *Tracker, embedder storage.Embedder) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: registry,
		chunker:  chunker,
		tracker:  tracker,
		embedder: embedder,
	}
}

// Run performs one incremental ingestion pass. Only files not yet in the
// processed set are loaded; a run with nothing new touches neither the
// store nor the state file.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	created, err := ensureDir(p.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("preparing watched directory: %w", err)
	}
	if created {
		log.Info("created watched directory, drop documents there and ingest again", "dir", p.cfg.DataDir)
		return result, nil
	}

	candidates, err := p.listSupportedFiles()
	if err != nil {
		return nil, err
	}

	processed := p.tracker.Load()
	newFiles := p.tracker.Diff(candidates, processed)
	if len(newFiles) == 0 {
		log.Debug("no new documents", "dir", p.cfg.DataDir)
		return result, nil
	}

	var units []models.SourceUnit
	var loaded []string
	for _, path := range newFiles {
		fileUnits, err := p.registry.Load(path)
		if err != nil {
			log.Warn("skipping unreadable document", "path", path, "error", err)
			result.Skipped++
			continue
		}
		units = append(units, fileUnits...)
		loaded = append(loaded, path)
	}

	if len(units) == 0 && len(loaded) == 0 {
		return result, nil
	}

	chunks, err := p.chunker.Split(units)
	if err != nil {
		return nil, fmt.Errorf("chunking documents: %w", err)
	}

	if len(chunks) > 0 {
		ix, err := storage.Open(p.cfg.StoreDir, p.embedder, p.cfg.EmbedBatch)
		if err != nil {
			return nil, err
		}
		defer ix.Close()

		if err := ix.Add(ctx, chunks); err != nil {
			return nil, fmt.Errorf("indexing chunks: %w", err)
		}
	}

	// Files that loaded but produced no chunks stay marked so they are
	// never retried; editing the file under a new name re-ingests it.
	for _, path := range loaded {
		processed.Add(path)
	}
	if err := p.tracker.Save(processed); err != nil {
		return nil, fmt.Errorf("saving processed state: %w", err)
	}

	result.NewFiles = len(loaded)
	result.Units = len(units)
	result.Chunks = len(chunks)
	log.Info("ingestion complete",
		"new_files", result.NewFiles, "units", result.Units,
		"chunks", result.Chunks, "skipped", result.Skipped)
	return result, nil
}

// FullReset wipes the watched directory's contents, the store directory and
// the processed-file state. The next Run starts from nothing.
func (p *Pipeline) FullReset() error {
	entries, err := os.ReadDir(p.cfg.DataDir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading watched directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(p.cfg.DataDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}

	if err := os.RemoveAll(p.cfg.StoreDir); err != nil {
		return fmt.Errorf("removing store directory: %w", err)
	}

	if err := p.tracker.Clear(); err != nil {
		return fmt.Errorf("clearing processed state: %w", err)
	}

	log.Info("knowledge reset", "data_dir", p.cfg.DataDir, "store_dir", p.cfg.StoreDir)
	return nil
}

// listSupportedFiles walks the watched directory and returns every file
// with a registered extension, in lexical order.
func (p *Pipeline) listSupportedFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(p.cfg.DataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if p.registry.Supports(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking watched directory: %w", err)
	}
	return paths, nil
}

// ensureDir creates dir when absent and reports whether it was created.
func ensureDir(dir string) (bool, error) {
	if _, err := os.Stat(dir); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}
	return true, nil
}
