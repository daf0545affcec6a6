package fhir

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Bundle represents a FHIR Bundle resource.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Type         string        `json:"type"`
	Total        *int          `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
	Search   *BundleSearch   `json:"search,omitempty"`
}

type BundleSearch struct {
	Mode  string   `json:"mode,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Search entry modes per FHIR R4.
const (
	SearchModeMatch   = "match"
	SearchModeOutcome = "outcome"
)

// IsMatch reports whether the entry is a primary search hit. Servers that omit
// search.mode are treated as returning matches only.
func (e BundleEntry) IsMatch() bool {
	return e.Search == nil || e.Search.Mode == "" || e.Search.Mode == SearchModeMatch
}

// DecodeMatches unmarshals every matched entry of the given resource type into T,
// preserving bundle order. Entries of other types, included entries and entries
// without a resource body are skipped.
func DecodeMatches[T any](b *Bundle, resourceType string) ([]T, error) {
	if b == nil {
		return nil, nil
	}
	out := make([]T, 0, len(b.Entry))
	for i, entry := range b.Entry {
		if !entry.IsMatch() || len(entry.Resource) == 0 {
			continue
		}
		var head Resource
		if err := json.Unmarshal(entry.Resource, &head); err != nil {
			return nil, fmt.Errorf("decode entry %d: %w", i, err)
		}
		if head.ResourceType != resourceType {
			continue
		}
		var r T
		if err := json.Unmarshal(entry.Resource, &r); err != nil {
			return nil, fmt.Errorf("decode %s entry %d: %w", resourceType, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Outcomes decodes the OperationOutcome entries a server attaches to a
// searchset with search mode "outcome".
func (b *Bundle) Outcomes() ([]OperationOutcome, error) {
	if b == nil {
		return nil, nil
	}
	var out []OperationOutcome
	for i, entry := range b.Entry {
		if entry.Search == nil || entry.Search.Mode != SearchModeOutcome || len(entry.Resource) == 0 {
			continue
		}
		var oo OperationOutcome
		if err := json.Unmarshal(entry.Resource, &oo); err != nil {
			return nil, fmt.Errorf("decode outcome entry %d: %w", i, err)
		}
		out = append(out, oo)
	}
	return out, nil
}

// ParseReference splits a relative literal reference of the form "Type/id".
// Anything else (absolute URLs, versioned references, empty parts) is reported
// as not ok.
func ParseReference(ref string) (resourceType, id string, ok bool) {
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ReferenceID returns the id of ref when it points at resourceType.
func ReferenceID(ref, resourceType string) (string, bool) {
	typ, id, ok := ParseReference(ref)
	if !ok || typ != resourceType {
		return "", false
	}
	return id, true
}
