package practitioner

import (
	"testing"

	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/fhir"
)

func practitioner(id, npi string) Practitioner {
	p := Practitioner{Resource: fhir.Resource{ResourceType: "Practitioner", ID: id}}
	if npi != "" {
		p.Identifier = []fhir.Identifier{{System: fhir.SystemNPI, Value: npi}}
	}
	return p
}

func withDegree(p Practitioner, display string) Practitioner {
	p.Qualification = []Qualification{{Code: fhir.CodeableConcept{Coding: []fhir.Coding{{Display: display}}}}}
	return p
}

func TestPractitioner_NPI(t *testing.T) {
	p := practitioner("1", "")
	p.Identifier = []fhir.Identifier{
		{System: "urn:oid:2.16.840.1.113883.4.4", Value: "999"},
		{System: fhir.SystemNPI, Value: "1234567890"},
	}
	if npi, ok := p.NPI(); !ok || npi != "1234567890" {
		t.Errorf("expected NPI 1234567890, got %q", npi)
	}
	if _, ok := practitioner("2", "").NPI(); ok {
		t.Error("expected no NPI")
	}
}

func TestPractitioner_FullName(t *testing.T) {
	tests := []struct {
		name string
		in   []fhir.HumanName
		want string
	}{
		{"given and family", []fhir.HumanName{{Given: []string{"Jane", "Q"}, Family: "Smith"}}, "Jane Q Smith"},
		{"family only", []fhir.HumanName{{Family: "Smith"}}, "Smith"},
		{"text fallback", []fhir.HumanName{{Text: "Dr. Jane Smith"}}, "Dr. Jane Smith"},
		{"first entry wins", []fhir.HumanName{{Family: "First"}, {Family: "Second"}}, "First"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Practitioner{Name: tt.in}
			if got := p.FullName(); got != tt.want {
				t.Errorf("FullName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPractitioner_Phone(t *testing.T) {
	p := Practitioner{Telecom: []fhir.ContactPoint{
		{System: "email", Value: "a@b.org"},
		{System: "phone", Value: "512-555-0100"},
		{System: "phone", Value: "512-555-0199"},
	}}
	if got := p.Phone(); got != "5125550100" {
		t.Errorf("Phone() = %q", got)
	}
	if got := (Practitioner{}).Phone(); got != "" {
		t.Errorf("expected empty phone, got %q", got)
	}
}

func TestPractitioner_Degree(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"MD", "MD"},
		{"Degree-DO", "DO"},
		{"degree:NP", "NP"},
		{"DEGREE PA", "PA"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			if got := withDegree(Practitioner{}, tt.display).Degree(); got != tt.want {
				t.Errorf("Degree() = %q, want %q", got, tt.want)
			}
		})
	}
	if got := (Practitioner{}).Degree(); got != "" {
		t.Errorf("expected empty degree, got %q", got)
	}
}

func TestPractitioner_ToRow_Placeholders(t *testing.T) {
	row := Practitioner{}.ToRow()
	for name, v := range map[string]string{"name": row.Name, "phone": row.Phone, "degree": row.Degree, "npi": row.NPI} {
		if v != reconcile.Placeholder {
			t.Errorf("expected placeholder %s, got %q", name, v)
		}
	}
}

func TestRows_DedupesByNPI(t *testing.T) {
	smith := practitioner("smith", "123")
	smith.Name = []fhir.HumanName{{Family: "Smith"}}
	smyth := practitioner("smyth", "123")
	smyth.Name = []fhir.HumanName{{Family: "Smyth"}}

	rows := Rows([]Practitioner{smith, smyth, practitioner("a", ""), practitioner("b", "")})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Name != "Smith" || rows[0].NPI != "123" {
		t.Errorf("expected first occurrence kept, got %+v", rows[0])
	}
	if rows[1].ID != "a" || rows[2].ID != "b" {
		t.Errorf("expected keyless records to pass through, got %+v", rows)
	}
}

func TestRow_Column(t *testing.T) {
	row := Row{Name: "n", Phone: "p", Degree: "d", NPI: "1"}
	for _, key := range []string{ColumnName, ColumnPhone, ColumnDegree, ColumnNPI} {
		if _, ok := row.Column(key); !ok {
			t.Errorf("column %s missing", key)
		}
	}
	if _, ok := row.Column("city"); ok {
		t.Error("unexpected city column")
	}
}
