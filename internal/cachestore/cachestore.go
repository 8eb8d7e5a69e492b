// Package cachestore reads the note-taking app's on-disk cache into an
// in-memory snapshot. The cache is a single JSON file whose top-level
// "cache" field is itself a JSON-encoded string (a quirk of the writing
// application); everything of interest lives under cache.state.
package cachestore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is one immutable-for-the-caller view of the cache state. All
// maps are keyed by document id except Users (keyed by user id). Callers
// must treat the contained structures as read-only.
type Snapshot struct {
	Documents   map[string]interface{}
	Transcripts map[string]interface{}
	Panels      map[string]interface{}
	Users       map[string]interface{}
	CurrentUser map[string]interface{}
	LoadedAt    time.Time
}

func parseSnapshot(raw []byte, loadedAt time.Time) (*Snapshot, error) {
	var top struct {
		Cache json.RawMessage `json:"cache"`
	}
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("decode cache file: %w", err)
	}
	if len(top.Cache) == 0 {
		return nil, fmt.Errorf("cache file has no cache payload")
	}

	// The payload is usually double-encoded; tolerate a plain object too.
	var inner map[string]interface{}
	var encoded string
	if err := json.Unmarshal(top.Cache, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &inner); err != nil {
			return nil, fmt.Errorf("decode embedded cache payload: %w", err)
		}
	} else if err := json.Unmarshal(top.Cache, &inner); err != nil {
		return nil, fmt.Errorf("decode cache payload: %w", err)
	}

	state, _ := inner["state"].(map[string]interface{})

	return &Snapshot{
		Documents:   mapSection(state, "documents"),
		Transcripts: mapSection(state, "transcripts"),
		Panels:      mapSection(state, "documentPanels"),
		Users:       mapSection(state, "users"),
		CurrentUser: mapValue(state["currentUser"]),
		LoadedAt:    loadedAt,
	}, nil
}

func mapSection(state map[string]interface{}, key string) map[string]interface{} {
	if state == nil {
		return map[string]interface{}{}
	}
	if m, ok := state[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func mapValue(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}
