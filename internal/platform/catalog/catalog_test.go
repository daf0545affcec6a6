package catalog

import "testing"

func TestSpecialtyName(t *testing.T) {
	if name, ok := SpecialtyName("207P00000X"); !ok || name != "Emergency Medicine" {
		t.Errorf("got %q, %v", name, ok)
	}
	if _, ok := SpecialtyName("000000000X"); ok {
		t.Error("expected unknown code to be rejected")
	}
}

func TestIsSpecialtyCode(t *testing.T) {
	if !IsSpecialtyCode("2084P0800X") || IsSpecialtyCode("") {
		t.Error("unexpected IsSpecialtyCode result")
	}
}

func TestSpecialties_UniqueCodes(t *testing.T) {
	if len(Specialties) != 10 {
		t.Fatalf("expected 10 specialties, got %d", len(Specialties))
	}
	seen := map[string]bool{}
	for _, s := range Specialties {
		if seen[s.Code] {
			t.Errorf("duplicate code %s", s.Code)
		}
		seen[s.Code] = true
	}
}

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{" tx ", "TX", true},
		{"ny", "NY", true},
		{"WY", "WY", true},
		{"DC", "DC", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeState(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NormalizeState(%q) = %q, %v", tt.in, got, ok)
			}
		})
	}
	if len(USStates) != 50 {
		t.Errorf("expected 50 states, got %d", len(USStates))
	}
}
