// Package domain defines the access-control domain models and business rules.
//
// It covers host registration, per-subject auth records, named actions
// profiles, capability token claims, sessions, and one-time verification
// tokens. The coordinator use case orchestrates these models; nothing in this
// package performs I/O.
package domain

import (
	"encoding/json"

	"github.com/eventdesk/accessd/internal/errors"
	"github.com/eventdesk/accessd/internal/validation"
)

// HostEntry is a single host registration with its HMAC secret.
// A secret of "none" means no hash is required for the host; any other value
// must be a 64-hex-character HMAC key.
type HostEntry struct {
	Host   string `json:"host"`
	Secret string `json:"secret"`
}

// RequiresHash reports whether requests for this host must carry a valid hash.
func (e HostEntry) RequiresHash() bool {
	return e.Secret != NoSecret
}

// HostRegistry is the static table of known hosts, loaded once at process
// start and read-only for the process lifetime.
type HostRegistry struct {
	entries map[string]HostEntry
}

// NewHostRegistry builds a registry from the given entries. Every secret must
// be either "none" or a 64-hex-character key; anything else is a configuration
// error that must abort startup.
func NewHostRegistry(entries []HostEntry) (*HostRegistry, error) {
	byHost := make(map[string]HostEntry, len(entries))
	for _, entry := range entries {
		if entry.Host == "" {
			return nil, errors.Wrap(errors.ErrConfig, "host entry with empty host")
		}
		if entry.Secret != NoSecret {
			if err := validation.HexKey.Validate(entry.Secret); err != nil {
				return nil, errors.Wrap(ErrInvalidKeyFormat, entry.Host)
			}
		}
		byHost[entry.Host] = entry
	}
	return &HostRegistry{entries: byHost}, nil
}

// ParseHostRegistry builds a registry from a JSON-encoded list of
// {host, secret} entries, the format carried by the HOST_ACCESS setting.
func ParseHostRegistry(raw string) (*HostRegistry, error) {
	var entries []HostEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.Wrap(errors.ErrConfig, "host access is not a valid JSON list")
	}
	if len(entries) == 0 {
		return nil, errors.Wrap(errors.ErrConfig, "host access list is empty")
	}
	return NewHostRegistry(entries)
}

// Lookup returns the entry for a host. The second return value is false for
// hosts not present in the registry.
func (r *HostRegistry) Lookup(host string) (HostEntry, bool) {
	entry, ok := r.entries[host]
	return entry, ok
}

// Len returns the number of registered hosts.
func (r *HostRegistry) Len() int {
	return len(r.entries)
}
