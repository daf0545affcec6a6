// Package session holds the per-browser search state of the HTML pages. State
// is an immutable value: every user action produces a new State through
// Reduce, and Store serializes those steps per session.
package session

import (
	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// ServiceSearch is the provider search page.
type ServiceSearch struct {
	Query       healthcareservice.Query
	PageSize    int
	Seq         uint64
	Loading     bool
	HasSearched bool
	Failed      bool
	Err         string
	Result      *healthcareservice.Result
	Sort        *reconcile.SortDirective
}

// Rows derives the table from the last result and the active sort.
func (s ServiceSearch) Rows() []healthcareservice.ServiceRow {
	return s.Result.Rows(s.Sort)
}

// PractitionerSearch is the practitioner search page.
type PractitionerSearch struct {
	Query       practitioner.Query
	Seq         uint64
	Loading     bool
	HasSearched bool
	Failed      bool
	Err         string
	Rows        []practitioner.Row
}

type State struct {
	Services      ServiceSearch
	Practitioners PractitionerSearch
}

// NewState returns the state of a fresh session. A page size outside the
// allowed choices falls back to pagination.DefaultCount.
func NewState(pageSize int) State {
	if !pagination.IsAllowed(pageSize) {
		pageSize = pagination.DefaultCount
	}
	return State{Services: ServiceSearch{PageSize: pageSize}}
}
