package healthcareservice

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/catalog"
	"github.com/hcdl/provider-search/internal/platform/fhir"
	"github.com/hcdl/provider-search/internal/platform/fhirclient"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// ServiceCategoryProvider restricts HealthcareService searches to providers.
const ServiceCategoryProvider = "prov"

var postalCodePattern = regexp.MustCompile(`^\d{1,5}(-\d{4})?$`)

// Query holds the provider search form.
type Query struct {
	Name       string `json:"name,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	Count      int    `json:"count"`
}

// Normalize trims the inputs, upper-cases the state and validates every field.
// A zero Count becomes pagination.DefaultCount.
func (q Query) Normalize() (Query, error) {
	q.Name = strings.TrimSpace(q.Name)
	q.PostalCode = strings.TrimSpace(q.PostalCode)
	q.Specialty = strings.TrimSpace(q.Specialty)

	if strings.TrimSpace(q.State) != "" {
		st, ok := catalog.NormalizeState(q.State)
		if !ok {
			return q, &fhir.FieldError{Field: "state", Message: fmt.Sprintf("unknown state code %q", q.State)}
		}
		q.State = st
	} else {
		q.State = ""
	}
	if q.PostalCode != "" && !postalCodePattern.MatchString(q.PostalCode) {
		return q, &fhir.FieldError{Field: "zip", Message: fmt.Sprintf("invalid zip code %q", q.PostalCode)}
	}
	if q.Specialty != "" && !catalog.IsSpecialtyCode(q.Specialty) {
		return q, &fhir.FieldError{Field: "specialty", Message: fmt.Sprintf("unknown specialty code %q", q.Specialty)}
	}
	if q.Count == 0 {
		q.Count = pagination.DefaultCount
	}
	if !pagination.IsAllowed(q.Count) {
		return q, &fhir.FieldError{Field: "_count", Message: fmt.Sprintf("must be one of %v", pagination.AllowedCounts)}
	}
	return q, nil
}

// Params renders the HealthcareService search parameters. Empty fields are omitted.
func (q Query) Params() url.Values {
	v := url.Values{}
	v.Set("service-category", ServiceCategoryProvider)
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.State != "" {
		v.Set("location.address-state", q.State)
	}
	if q.PostalCode != "" {
		v.Set("location.address-postalcode", q.PostalCode)
	}
	if q.Specialty != "" {
		v.Set("specialty", q.Specialty)
	}
	count := q.Count
	if count <= 0 {
		count = pagination.DefaultCount
	}
	v.Set("_count", strconv.Itoa(count))
	return v
}

// Result is one completed search cycle: the matched services and the index of
// the locations they reference. Rows can be re-derived from it at any time.
type Result struct {
	Services  []HealthcareService
	Locations LocationIndex
}

// Rows joins and orders the result.
func (r *Result) Rows(d *reconcile.SortDirective) []ServiceRow {
	if r == nil {
		return nil
	}
	return Rows(r.Services, r.Locations, d)
}

// Service runs provider searches against the directory server.
type Service struct {
	directory fhirclient.Searcher
	logger    zerolog.Logger
}

func NewService(directory fhirclient.Searcher, logger zerolog.Logger) *Service {
	return &Service{directory: directory, logger: logger}
}

// Search fetches matching services, then, only when at least one location
// reference was found, fetches those locations in one batched lookup. Either
// request failing fails the whole cycle so a partial index is never returned.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	bundle, err := s.directory.Search(ctx, "HealthcareService", q.Params())
	if err != nil {
		return nil, fmt.Errorf("healthcare service search: %w", err)
	}
	services, err := fhir.DecodeMatches[HealthcareService](bundle, "HealthcareService")
	if err != nil {
		return nil, fmt.Errorf("healthcare service search: %w", err)
	}

	result := &Result{Services: services, Locations: LocationIndex{}}

	ids := CollectLocationIDs(services)
	if len(ids) == 0 {
		s.logger.Debug().Int("services", len(services)).Msg("no location references, skipping lookup")
		return result, nil
	}

	params := url.Values{}
	params.Set("_id", strings.Join(ids, ","))
	params.Set("_count", strconv.Itoa(len(ids)))
	locBundle, err := s.directory.Search(ctx, "Location", params)
	if err != nil {
		return nil, fmt.Errorf("location lookup: %w", err)
	}
	locs, err := fhir.DecodeMatches[Location](locBundle, "Location")
	if err != nil {
		return nil, fmt.Errorf("location lookup: %w", err)
	}
	result.Locations = NewLocationIndex(locs)

	s.logger.Debug().
		Int("services", len(services)).
		Int("location_refs", len(ids)).
		Int("locations", len(result.Locations)).
		Msg("provider search complete")
	return result, nil
}
