package session

import (
	"testing"

	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/fhir"
)

func result(names ...string) *healthcareservice.Result {
	r := &healthcareservice.Result{Locations: healthcareservice.LocationIndex{}}
	for _, n := range names {
		r.Services = append(r.Services, healthcareservice.HealthcareService{
			Resource: fhir.Resource{ResourceType: "HealthcareService", ID: n},
			Name:     n,
		})
	}
	return r
}

func TestNewState(t *testing.T) {
	if got := NewState(20).Services.PageSize; got != 20 {
		t.Errorf("expected page size 20, got %d", got)
	}
	if got := NewState(13).Services.PageSize; got != 10 {
		t.Errorf("expected fallback page size 10, got %d", got)
	}
	s := NewState(10)
	if s.Services.HasSearched || s.Services.Loading || s.Services.Sort != nil {
		t.Errorf("fresh state should be idle: %+v", s.Services)
	}
}

func TestReduce_SubmitThenComplete(t *testing.T) {
	s := NewState(20)
	s = Reduce(s, SubmitServiceSearch{Query: healthcareservice.Query{Name: "clinic", Count: 50}})

	if s.Services.Seq != 1 || !s.Services.Loading || !s.Services.HasSearched {
		t.Fatalf("unexpected state after submit: %+v", s.Services)
	}
	if s.Services.Query.Count != 20 {
		t.Errorf("expected page size to override count, got %d", s.Services.Query.Count)
	}

	s = Reduce(s, ServiceSearchCompleted{Seq: 1, Result: result("a", "b")})
	if s.Services.Loading {
		t.Error("expected loading to end")
	}
	if len(s.Services.Rows()) != 2 {
		t.Errorf("expected 2 rows, got %d", len(s.Services.Rows()))
	}
}

func TestReduce_StaleCompletionDiscarded(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, SubmitServiceSearch{Query: healthcareservice.Query{Name: "first"}})
	first := s.Services.Seq
	s = Reduce(s, SubmitServiceSearch{Query: healthcareservice.Query{Name: "second"}})
	second := s.Services.Seq

	if second <= first {
		t.Fatalf("sequence must increase: %d then %d", first, second)
	}

	s = Reduce(s, ServiceSearchCompleted{Seq: first, Result: result("stale")})
	if !s.Services.Loading || s.Services.Result != nil {
		t.Fatalf("stale completion was applied: %+v", s.Services)
	}
	s = Reduce(s, ServiceSearchFailed{Seq: first, Err: "boom"})
	if s.Services.Failed {
		t.Fatal("stale failure was applied")
	}

	s = Reduce(s, ServiceSearchCompleted{Seq: second, Result: result("fresh")})
	rows := s.Services.Rows()
	if len(rows) != 1 || rows[0].ProviderName != "fresh" {
		t.Errorf("expected fresh result, got %+v", rows)
	}
}

func TestReduce_Failure(t *testing.T) {
	s := Reduce(NewState(10), SubmitServiceSearch{})
	s = Reduce(s, ServiceSearchFailed{Seq: s.Services.Seq, Err: "upstream down"})
	if s.Services.Loading || !s.Services.Failed || s.Services.Err != "upstream down" {
		t.Errorf("unexpected state %+v", s.Services)
	}
	if len(s.Services.Rows()) != 0 {
		t.Error("failed search should show an empty table")
	}

	s = Reduce(s, SubmitServiceSearch{})
	if s.Services.Failed || s.Services.Err != "" {
		t.Error("new submit should clear the failure")
	}
}

func TestReduce_SubmitClearsPreviousResults(t *testing.T) {
	s := Reduce(NewState(10), SubmitServiceSearch{})
	s = Reduce(s, ServiceSearchCompleted{Seq: s.Services.Seq, Result: result("a")})
	s = Reduce(s, SubmitServiceSearch{})
	if s.Services.Result != nil {
		t.Error("expected results to be cleared on submit")
	}
}

func TestReduce_SortBy(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, SortBy{Column: healthcareservice.ColumnCity})
	if s.Services.Sort == nil || s.Services.Sort.Direction != reconcile.Ascending {
		t.Fatalf("expected ascending city, got %+v", s.Services.Sort)
	}
	s = Reduce(s, SortBy{Column: healthcareservice.ColumnCity})
	if s.Services.Sort.Direction != reconcile.Descending {
		t.Fatalf("expected descending city, got %+v", s.Services.Sort)
	}
	s = Reduce(s, SortBy{Column: healthcareservice.ColumnState})
	if s.Services.Sort.Column != healthcareservice.ColumnState || s.Services.Sort.Direction != reconcile.Ascending {
		t.Fatalf("expected ascending state, got %+v", s.Services.Sort)
	}

	before := s.Services.Sort
	s = Reduce(s, SortBy{Column: "npi"})
	if s.Services.Sort != before {
		t.Error("unknown column should leave the sort unchanged")
	}
}

func TestReduce_SortDoesNotRefetch(t *testing.T) {
	s := Reduce(NewState(10), SubmitServiceSearch{})
	s = Reduce(s, ServiceSearchCompleted{Seq: s.Services.Seq, Result: result("b", "A", "c")})
	seq := s.Services.Seq

	s = Reduce(s, SortBy{Column: healthcareservice.ColumnProviderName})
	if s.Services.Seq != seq || s.Services.Loading {
		t.Error("sorting must not start a search")
	}
	rows := s.Services.Rows()
	if rows[0].ProviderName != "A" || rows[2].ProviderName != "c" {
		t.Errorf("unexpected order %+v", rows)
	}
}

func TestReduce_SetPageSize(t *testing.T) {
	s := Reduce(NewState(10), SetPageSize{Count: 50})
	if s.Services.PageSize != 50 {
		t.Errorf("expected 50, got %d", s.Services.PageSize)
	}
	s = Reduce(s, SetPageSize{Count: 30})
	if s.Services.PageSize != 50 {
		t.Errorf("invalid size should be ignored, got %d", s.Services.PageSize)
	}
	s = Reduce(s, SubmitServiceSearch{})
	if s.Services.Query.Count != 50 {
		t.Errorf("expected next search to use 50, got %d", s.Services.Query.Count)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := NewState(10)
	next := Reduce(s, SubmitServiceSearch{Query: healthcareservice.Query{Name: "x"}})
	if s.Services.Seq != 0 || s.Services.Query.Name != "" {
		t.Errorf("input state changed: %+v", s.Services)
	}
	if next.Services.Seq != 1 {
		t.Errorf("expected seq 1, got %d", next.Services.Seq)
	}
}

func TestReduce_Practitioners(t *testing.T) {
	s := Reduce(NewState(10), SubmitPractitionerSearch{Query: practitioner.Query{Name: "smith", Count: 10}})
	first := s.Practitioners.Seq
	s = Reduce(s, SubmitPractitionerSearch{Query: practitioner.Query{Name: "jones", Count: 10}})

	s = Reduce(s, PractitionerSearchCompleted{Seq: first, Rows: []practitioner.Row{{Name: "Stale"}}})
	if s.Practitioners.Rows != nil {
		t.Fatal("stale practitioner rows applied")
	}
	s = Reduce(s, PractitionerSearchCompleted{Seq: s.Practitioners.Seq, Rows: []practitioner.Row{{Name: "Jones"}}})
	if len(s.Practitioners.Rows) != 1 || s.Practitioners.Loading {
		t.Errorf("unexpected practitioner state %+v", s.Practitioners)
	}

	s = Reduce(s, SubmitPractitionerSearch{})
	s = Reduce(s, PractitionerSearchFailed{Seq: s.Practitioners.Seq, Err: "down"})
	if !s.Practitioners.Failed || s.Practitioners.Rows != nil {
		t.Errorf("unexpected failure state %+v", s.Practitioners)
	}

	if s.Services.Seq != 0 {
		t.Error("practitioner actions must not touch the provider search")
	}
}
