// Package catalog holds the static code tables offered by the search forms.
package catalog

import "strings"

// Specialty is a NUCC provider taxonomy code with its display name.
type Specialty struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Specialties offered by the search form, in display order.
var Specialties = []Specialty{
	{Name: "Family Medicine", Code: "207Q00000X"},
	{Name: "Internal Medicine", Code: "207R00000X"},
	{Name: "Pediatrics", Code: "208000000X"},
	{Name: "Cardiology", Code: "207RC0000X"},
	{Name: "Dermatology", Code: "207N00000X"},
	{Name: "Psychiatry", Code: "2084P0800X"},
	{Name: "Ophthalmology", Code: "207W00000X"},
	{Name: "Orthopedic Surgery", Code: "207X00000X"},
	{Name: "Radiology", Code: "2085R0202X"},
	{Name: "Emergency Medicine", Code: "207P00000X"},
}

var specialtyByCode = func() map[string]string {
	m := make(map[string]string, len(Specialties))
	for _, s := range Specialties {
		m[s.Code] = s.Name
	}
	return m
}()

// SpecialtyName resolves a taxonomy code to its display name.
func SpecialtyName(code string) (string, bool) {
	name, ok := specialtyByCode[code]
	return name, ok
}

// IsSpecialtyCode reports whether code is in the specialty table.
func IsSpecialtyCode(code string) bool {
	_, ok := specialtyByCode[code]
	return ok
}

// USStates are the two-letter state codes offered by the search forms.
var USStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA",
	"KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT",
	"VA", "WA", "WV", "WI", "WY",
}

// NormalizeState upper-cases s and reports whether it is a known state code.
func NormalizeState(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, st := range USStates {
		if st == s {
			return s, true
		}
	}
	return s, false
}
