package cachestore

import (
	"sort"
	"strings"

	"granolad/internal/digest"
)

// DetectIdentity fills in identity fields missing from the configured
// overrides using what the cache itself records. An explicitly configured
// user id always wins; otherwise the cache's currentUser entry is used,
// then the users table is scanned for a profile matching the configured
// email or name. Users are visited in sorted key order so detection is
// deterministic when several profiles match.
func DetectIdentity(snap *Snapshot, configured digest.Identity) digest.Identity {
	id := configured
	if id.UserID != "" {
		return id
	}

	if cu := snap.CurrentUser; cu != nil {
		if v, ok := cu["id"].(string); ok && v != "" {
			id.UserID = v
			return id
		}
		if v, ok := cu["userId"].(string); ok && v != "" {
			id.UserID = v
			return id
		}
	}

	if id.Email == "" && id.Name == "" {
		return id
	}

	keys := make([]string, 0, len(snap.Users))
	for k := range snap.Users {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		user, ok := snap.Users[k].(map[string]interface{})
		if !ok {
			continue
		}
		if id.Email != "" {
			if email, _ := user["email"].(string); strings.EqualFold(email, id.Email) {
				id.UserID = k
				return id
			}
		}
		if id.Name != "" && userNameMatches(user, id.Name) {
			id.UserID = k
			return id
		}
	}
	return id
}

func userNameMatches(user map[string]interface{}, name string) bool {
	want := strings.ToLower(name)
	for _, key := range []string{"name", "displayName"} {
		if v, _ := user[key].(string); v != "" && strings.Contains(strings.ToLower(v), want) {
			return true
		}
	}
	return false
}
