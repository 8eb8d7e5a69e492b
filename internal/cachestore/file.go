package cachestore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileStore loads snapshots from the cache file on disk. The parsed
// snapshot is reused until the file's mtime changes, so concurrent
// requests share one read-only snapshot instead of re-parsing per call.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	cached *Snapshot
	mtime  time.Time
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load returns the current snapshot, re-reading the file if it changed.
// Any failure to read or decode the file is returned as-is: without a
// snapshot no digest can be computed.
func (s *FileStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return nil, fmt.Errorf("cache file %s: %w", s.path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil && info.ModTime().Equal(s.mtime) {
		return s.cached, nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read cache file %s: %w", s.path, err)
	}
	snap, err := parseSnapshot(raw, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("parse cache file %s: %w", s.path, err)
	}

	s.logger.Info("cache snapshot loaded",
		zap.String("path", s.path),
		zap.Int("documents", len(snap.Documents)),
		zap.Int("transcripts", len(snap.Transcripts)),
		zap.Int("panels", len(snap.Panels)))

	s.cached = snap
	s.mtime = info.ModTime()
	return snap, nil
}

// Ping reports whether the cache file is reachable.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("cache file %s: %w", s.path, err)
	}
	return nil
}
