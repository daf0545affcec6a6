package practitioner

import (
	"regexp"
	"strings"

	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/fhir"
)

// Practitioner is the subset of the FHIR Practitioner resource shown in the
// practitioner search.
type Practitioner struct {
	fhir.Resource
	Active        *bool               `json:"active,omitempty"`
	Identifier    []fhir.Identifier   `json:"identifier,omitempty"`
	Name          []fhir.HumanName    `json:"name,omitempty"`
	Telecom       []fhir.ContactPoint `json:"telecom,omitempty"`
	Address       []fhir.Address      `json:"address,omitempty"`
	Qualification []Qualification     `json:"qualification,omitempty"`
}

type Qualification struct {
	Identifier []fhir.Identifier    `json:"identifier,omitempty"`
	Code       fhir.CodeableConcept `json:"code"`
	Issuer     *fhir.Reference      `json:"issuer,omitempty"`
}

// NPI returns the National Provider Identifier, the practitioner's natural key.
func (p Practitioner) NPI() (string, bool) {
	return fhir.FindIdentifier(p.Identifier, fhir.SystemNPI)
}

// NPIKey adapts NPI to reconcile.KeyFunc.
func NPIKey(p Practitioner) (string, bool) {
	return p.NPI()
}

// FullName joins the given names of the first name entry with its family name.
// A name carrying only text falls back to that text.
func (p Practitioner) FullName() string {
	if len(p.Name) == 0 {
		return ""
	}
	n := p.Name[0]
	parts := make([]string, 0, len(n.Given)+1)
	for _, g := range n.Given {
		if g = strings.TrimSpace(g); g != "" {
			parts = append(parts, g)
		}
	}
	if f := strings.TrimSpace(n.Family); f != "" {
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return strings.TrimSpace(n.Text)
	}
	return strings.Join(parts, " ")
}

// Phone returns the first phone contact with dashes removed.
func (p Practitioner) Phone() string {
	v, ok := fhir.FindContact(p.Telecom, "phone")
	if !ok {
		return ""
	}
	return strings.ReplaceAll(v, "-", "")
}

var degreePrefix = regexp.MustCompile(`(?i)^degree[-:\s]?`)

// Degree returns the display of the first qualification's first coding, minus
// the "Degree" label some directories prepend.
func (p Practitioner) Degree() string {
	if len(p.Qualification) == 0 {
		return ""
	}
	c, ok := p.Qualification[0].Code.FirstCoding()
	if !ok {
		return ""
	}
	return strings.TrimSpace(degreePrefix.ReplaceAllString(strings.TrimSpace(c.Display), ""))
}

// Row is a practitioner flattened for display.
type Row struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Degree string `json:"degree"`
	NPI    string `json:"npi"`
}

// Row keys usable with reconcile.Sort.
const (
	ColumnName   = "name"
	ColumnPhone  = "phone"
	ColumnDegree = "degree"
	ColumnNPI    = "npi"
)

func (r Row) Column(key string) (string, bool) {
	switch key {
	case ColumnName:
		return r.Name, true
	case ColumnPhone:
		return r.Phone, true
	case ColumnDegree:
		return r.Degree, true
	case ColumnNPI:
		return r.NPI, true
	}
	return "", false
}

// ToRow formats p, substituting the placeholder for every missing value.
func (p Practitioner) ToRow() Row {
	npi, _ := p.NPI()
	return Row{
		ID:     p.ID,
		Name:   reconcile.OrPlaceholder(p.FullName()),
		Phone:  reconcile.OrPlaceholder(p.Phone()),
		Degree: reconcile.OrPlaceholder(p.Degree()),
		NPI:    reconcile.OrPlaceholder(npi),
	}
}

// Rows drops NPI duplicates, keeping the first, and formats what remains.
func Rows(ps []Practitioner) []Row {
	unique := reconcile.Dedupe(ps, NPIKey)
	rows := make([]Row, len(unique))
	for i, p := range unique {
		rows[i] = p.ToRow()
	}
	return rows
}
