package session

import (
	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// Action is a user action or a search completion.
type Action interface {
	isAction()
}

// SubmitServiceSearch starts a provider search. The query's Count is replaced
// by the page size in effect.
type SubmitServiceSearch struct {
	Query healthcareservice.Query
}

// ServiceSearchCompleted delivers the result of the search tagged Seq.
type ServiceSearchCompleted struct {
	Seq    uint64
	Result *healthcareservice.Result
}

// ServiceSearchFailed reports that the search tagged Seq failed.
type ServiceSearchFailed struct {
	Seq uint64
	Err string
}

// SortBy toggles the sort on Column.
type SortBy struct {
	Column string
}

// SetPageSize changes the page size used by the next provider search.
type SetPageSize struct {
	Count int
}

type SubmitPractitionerSearch struct {
	Query practitioner.Query
}

type PractitionerSearchCompleted struct {
	Seq  uint64
	Rows []practitioner.Row
}

type PractitionerSearchFailed struct {
	Seq uint64
	Err string
}

func (SubmitServiceSearch) isAction() {}
func (ServiceSearchCompleted) isAction() {}
func (ServiceSearchFailed) isAction() {}
func (SortBy) isAction() {}
func (SetPageSize) isAction() {}
func (SubmitPractitionerSearch) isAction() {}
func (PractitionerSearchCompleted) isAction() {}
func (PractitionerSearchFailed) isAction() {}

// Reduce returns the state that follows s after a. It never modifies s.
// Completions whose sequence number is not the latest issued are discarded,
// as are sorts on unknown columns and page sizes outside the allowed choices.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SubmitServiceSearch:
		q := a.Query
		q.Count = s.Services.PageSize
		s.Services.Query = q
		s.Services.Seq++
		s.Services.Loading = true
		s.Services.HasSearched = true
		s.Services.Failed = false
		s.Services.Err = ""
		s.Services.Result = nil

	case ServiceSearchCompleted:
		if a.Seq != s.Services.Seq {
			return s
		}
		s.Services.Loading = false
		s.Services.Result = a.Result

	case ServiceSearchFailed:
		if a.Seq != s.Services.Seq {
			return s
		}
		s.Services.Loading = false
		s.Services.Failed = true
		s.Services.Err = a.Err
		s.Services.Result = nil

	case SortBy:
		if !healthcareservice.IsColumn(a.Column) {
			return s
		}
		s.Services.Sort = reconcile.Toggle(s.Services.Sort, a.Column)

	case SetPageSize:
		if !pagination.IsAllowed(a.Count) {
			return s
		}
		s.Services.PageSize = a.Count

	case SubmitPractitionerSearch:
		s.Practitioners.Query = a.Query
		s.Practitioners.Seq++
		s.Practitioners.Loading = true
		s.Practitioners.HasSearched = true
		s.Practitioners.Failed = false
		s.Practitioners.Err = ""
		s.Practitioners.Rows = nil

	case PractitionerSearchCompleted:
		if a.Seq != s.Practitioners.Seq {
			return s
		}
		s.Practitioners.Loading = false
		s.Practitioners.Rows = a.Rows

	case PractitionerSearchFailed:
		if a.Seq != s.Practitioners.Seq {
			return s
		}
		s.Practitioners.Loading = false
		s.Practitioners.Failed = true
		s.Practitioners.Err = a.Err
		s.Practitioners.Rows = nil
	}
	return s
}
