package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"granolad/internal/cachestore"
	"granolad/internal/config"
	"granolad/internal/digest"
)

type snapshotStore interface {
	Load(context.Context) (*cachestore.Snapshot, error)
	Ping(context.Context) error
}

// Service implements the digest operations over one cache store. Every
// call loads a fresh snapshot so results always reflect the file on disk.
type Service struct {
	cfg      config.Config
	patterns digest.Patterns
	store    snapshotStore
	logger   *zap.Logger
}

func New(cfg config.Config, patterns digest.Patterns, store snapshotStore, logger *zap.Logger) *Service {
	return &Service{cfg: cfg, patterns: patterns, store: store, logger: logger}
}

// builderFor assembles a classifier for this snapshot's detected identity.
// Identity detection runs per snapshot: the cache's currentUser can change
// between loads when the desktop client re-authenticates.
func (s *Service) builderFor(snap *cachestore.Snapshot) *digest.Builder {
	identity := cachestore.DetectIdentity(snap, s.cfg.Identity())
	if identity.UserID == "" && identity.Email == "" && identity.Name == "" {
		s.logger.Warn("no identity configured or detected; ownership falls back to title rules")
	}
	return digest.NewBuilder(digest.NewClassifier(identity, s.patterns))
}

func (s *Service) RecentMeetings(ctx context.Context, limit int) ([]digest.MeetingRef, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, unavailable("cache unavailable", err.Error())
	}
	if limit <= 0 {
		limit = s.cfg.RecentLimit
	}
	return s.builderFor(snap).Recent(snap.Documents, limit), nil
}

func (s *Service) BuildDigest(ctx context.Context, daysBack int) (*digest.Digest, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, unavailable("cache unavailable", err.Error())
	}
	if daysBack <= 0 {
		daysBack = s.cfg.DaysBack
	}
	d := s.builderFor(snap).Build(snap.Documents, snap.Transcripts, snap.Panels, daysBack)
	s.logger.Info("digest built",
		zap.Int("days_back", daysBack),
		zap.Int("documents", d.TotalDocuments),
		zap.Int("filtered", d.FilteredDocuments))
	return d, nil
}

func (s *Service) Transcript(ctx context.Context, docID string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", unavailable("cache unavailable", err.Error())
	}
	if _, ok := snap.Documents[docID]; !ok {
		return "", notFound(fmt.Sprintf("document %s not found", docID))
	}
	return digest.NormalizeTranscript(snap.Transcripts[docID]), nil
}

func (s *Service) Summary(ctx context.Context, docID string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", unavailable("cache unavailable", err.Error())
	}
	raw, ok := snap.Documents[docID]
	if !ok {
		return "", notFound(fmt.Sprintf("document %s not found", docID))
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return "", nil
	}
	return digest.ResolveNotes(doc, docID, snap.Panels), nil
}

func (s *Service) Ownership(ctx context.Context, docID string) (digest.Decision, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return digest.Decision{}, unavailable("cache unavailable", err.Error())
	}
	raw, ok := snap.Documents[docID]
	if !ok {
		return digest.Decision{}, notFound(fmt.Sprintf("document %s not found", docID))
	}
	doc, ok := raw.(map[string]interface{})
	if !ok {
		return digest.Decision{Owned: false, Rule: "invalid_document"}, nil
	}
	identity := cachestore.DetectIdentity(snap, s.cfg.Identity())
	return digest.NewClassifier(identity, s.patterns).Classify(doc), nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// SampleTitles returns up to n document titles for diagnostics endpoints.
func (s *Service) SampleTitles(ctx context.Context, n int) (int, []string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return 0, nil, unavailable("cache unavailable", err.Error())
	}
	refs := s.builderFor(snap).Recent(snap.Documents, n)
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		title := ref.Title
		if strings.TrimSpace(title) == "" {
			title = "Untitled"
		}
		titles = append(titles, title)
	}
	return len(snap.Documents), titles, nil
}
