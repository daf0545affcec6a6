package healthcareservice

import (
	"github.com/hcdl/provider-search/internal/platform/fhir"
)

// HealthcareService is the subset of the FHIR HealthcareService resource the
// directory search reads. Optional elements are empty slices or nil pointers.
type HealthcareService struct {
	fhir.Resource
	Active    *bool                  `json:"active,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Category  []fhir.CodeableConcept `json:"category,omitempty"`
	Specialty []fhir.CodeableConcept `json:"specialty,omitempty"`
	Location  []fhir.Reference       `json:"location,omitempty"`
	Telecom   []fhir.ContactPoint    `json:"telecom,omitempty"`
	Comment   string                 `json:"comment,omitempty"`
}

// SpecialtyCode returns specialty[0].coding[0].code.
func (hs HealthcareService) SpecialtyCode() (string, bool) {
	if len(hs.Specialty) == 0 {
		return "", false
	}
	c, ok := hs.Specialty[0].FirstCoding()
	if !ok || c.Code == "" {
		return "", false
	}
	return c.Code, true
}

// PrimaryLocationID returns the id behind the first location reference when
// that reference is a well-formed "Location/<id>".
func (hs HealthcareService) PrimaryLocationID() (string, bool) {
	if len(hs.Location) == 0 {
		return "", false
	}
	return fhir.ReferenceID(hs.Location[0].Reference, "Location")
}

// Location is the subset of the FHIR Location resource used for addresses.
type Location struct {
	fhir.Resource
	Name    string        `json:"name,omitempty"`
	Status  string        `json:"status,omitempty"`
	Address *fhir.Address `json:"address,omitempty"`
}

// LocationIndex maps Location id to Location. It is rebuilt for every search.
type LocationIndex map[string]Location

// NewLocationIndex indexes locs by id. Locations without an id are skipped;
// when an id repeats the later entry wins.
func NewLocationIndex(locs []Location) LocationIndex {
	idx := make(LocationIndex, len(locs))
	for _, l := range locs {
		if l.ID == "" {
			continue
		}
		idx[l.ID] = l
	}
	return idx
}

// CollectLocationIDs gathers the ids of every "Location/<id>" reference across
// services, unique and in first-seen order. References of other types and
// malformed references are ignored.
func CollectLocationIDs(services []HealthcareService) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, hs := range services {
		for _, ref := range hs.Location {
			id, ok := fhir.ReferenceID(ref.Reference, "Location")
			if !ok {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
