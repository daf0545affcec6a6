package practitioner

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hcdl/provider-search/internal/platform/catalog"
	"github.com/hcdl/provider-search/internal/platform/fhir"
	"github.com/hcdl/provider-search/internal/platform/fhirclient"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// Query holds the practitioner search form.
type Query struct {
	Name  string `json:"name,omitempty"`
	State string `json:"state,omitempty"`
	Count int    `json:"count"`
}

// Normalize trims the inputs and validates the state and page size.
func (q Query) Normalize() (Query, error) {
	q.Name = strings.TrimSpace(q.Name)
	if strings.TrimSpace(q.State) == "" {
		q.State = ""
	} else {
		st, ok := catalog.NormalizeState(q.State)
		if !ok {
			return q, &fhir.FieldError{Field: "state", Message: fmt.Sprintf("unknown state code %q", q.State)}
		}
		q.State = st
	}
	if q.Count == 0 {
		q.Count = pagination.DefaultCount
	}
	if !pagination.IsAllowed(q.Count) {
		return q, &fhir.FieldError{Field: "_count", Message: fmt.Sprintf("must be one of %v", pagination.AllowedCounts)}
	}
	return q, nil
}

// Params renders the Practitioner search parameters.
func (q Query) Params() url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.State != "" {
		v.Set("address-state", q.State)
	}
	count := q.Count
	if count <= 0 {
		count = pagination.DefaultCount
	}
	v.Set("_count", strconv.Itoa(count))
	return v
}

type Service struct {
	directory fhirclient.Searcher
	logger    zerolog.Logger
}

func NewService(directory fhirclient.Searcher, logger zerolog.Logger) *Service {
	return &Service{directory: directory, logger: logger}
}

// Search runs a single Practitioner search and returns the matches in server
// order, duplicates included.
func (s *Service) Search(ctx context.Context, q Query) ([]Practitioner, error) {
	bundle, err := s.directory.Search(ctx, "Practitioner", q.Params())
	if err != nil {
		return nil, fmt.Errorf("practitioner search: %w", err)
	}
	ps, err := fhir.DecodeMatches[Practitioner](bundle, "Practitioner")
	if err != nil {
		return nil, fmt.Errorf("practitioner search: %w", err)
	}
	s.logger.Debug().Int("practitioners", len(ps)).Msg("practitioner search complete")
	return ps, nil
}

// SearchRows runs Search and collapses NPI duplicates.
func (s *Service) SearchRows(ctx context.Context, q Query) ([]Row, error) {
	ps, err := s.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	rows := Rows(ps)
	if dropped := len(ps) - len(rows); dropped > 0 {
		s.logger.Debug().Int("dropped", dropped).Msg("collapsed duplicate practitioners")
	}
	return rows, nil
}
