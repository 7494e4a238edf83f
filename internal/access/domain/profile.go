package domain

import (
	"encoding/json"
	"slices"
)

// ActionsProfile is a named, reusable set of allowed operations. Profiles are
// assigned per host on a subject's auth record.
type ActionsProfile struct {
	Profile string
	Actions []string
}

// HasAction reports whether the operation is a member of the profile's
// actions set.
func (p *ActionsProfile) HasAction(operation string) bool {
	return slices.Contains(p.Actions, operation)
}

// DecodeActions normalizes a stored actions value into a list of operation
// strings. The value may arrive as a JSON list or as a JSON string that itself
// encodes a list; both decode to the same internal representation. Anything
// else fails with ErrProfileInvalidFormat. Duplicates are dropped since the
// actions value is a set.
func DecodeActions(raw []byte) ([]string, error) {
	var actions []string
	if err := json.Unmarshal(raw, &actions); err == nil {
		return dedupeActions(actions), nil
	}

	// Second encoding: a JSON string containing a JSON-encoded list.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, ErrProfileInvalidFormat
	}
	if err := json.Unmarshal([]byte(encoded), &actions); err != nil {
		return nil, ErrProfileInvalidFormat
	}
	return dedupeActions(actions), nil
}

// dedupeActions removes duplicate operations while preserving first-seen order.
func dedupeActions(actions []string) []string {
	seen := make(map[string]struct{}, len(actions))
	result := make([]string, 0, len(actions))
	for _, action := range actions {
		if _, ok := seen[action]; ok {
			continue
		}
		seen[action] = struct{}{}
		result = append(result, action)
	}
	return result
}
