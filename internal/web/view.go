package web

import (
	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/catalog"
	"github.com/hcdl/provider-search/internal/session"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// Table texts shown instead of rows.
const (
	MessageSearching           = "Searching…"
	MessageServicesPrompt      = "Use the entry fields above to search for providers."
	MessageNoServices          = "No providers found."
	MessagePractitionersPrompt = "Use the entry fields above to search for practitioners."
	MessageNoPractitioners     = "No practitioners found."
)

// Sort indicators of the table headers.
const (
	IndicatorUnsorted   = "⇅"
	IndicatorAscending  = "▲"
	IndicatorDescending = "▼"
)

type header struct {
	Key       string
	Title     string
	Indicator string
	Active    bool
}

func indicator(d *reconcile.SortDirective, column string) string {
	if d == nil || d.Column != column {
		return IndicatorUnsorted
	}
	if d.Direction == reconcile.Descending {
		return IndicatorDescending
	}
	return IndicatorAscending
}

func headers(d *reconcile.SortDirective) []header {
	out := make([]header, len(healthcareservice.Columns))
	for i, col := range healthcareservice.Columns {
		out[i] = header{
			Key:       col.Key,
			Title:     col.Title,
			Indicator: indicator(d, col.Key),
			Active:    d != nil && d.Column == col.Key,
		}
	}
	return out
}

type servicesView struct {
	Nav         string
	Query       healthcareservice.Query
	States      []string
	Specialties []catalog.Specialty
	PageSizes   []int
	PageSize    int
	Headers     []header
	Rows        []healthcareservice.ServiceRow
	Message     string
	Error       string
}

func newServicesView(st session.ServiceSearch) servicesView {
	v := servicesView{
		Nav:         PageServices,
		Query:       st.Query,
		States:      catalog.USStates,
		Specialties: catalog.Specialties,
		PageSizes:   pagination.AllowedCounts,
		PageSize:    st.PageSize,
		Headers:     headers(st.Sort),
		Rows:        st.Rows(),
	}
	switch {
	case st.Loading:
		v.Message = MessageSearching
	case !st.HasSearched:
		v.Message = MessageServicesPrompt
	case len(v.Rows) == 0:
		v.Message = MessageNoServices
	}
	return v
}

type practitionersView struct {
	Nav       string
	Query     practitioner.Query
	States    []string
	PageSizes []int
	Rows      []practitioner.Row
	Message   string
	Error     string
}

func newPractitionersView(st session.PractitionerSearch) practitionersView {
	q := st.Query
	if q.Count == 0 {
		q.Count = pagination.DefaultCount
	}
	v := practitionersView{
		Nav:       PagePractitioners,
		Query:     q,
		States:    catalog.USStates,
		PageSizes: pagination.AllowedCounts,
		Rows:      st.Rows,
	}
	switch {
	case st.Loading:
		v.Message = MessageSearching
	case !st.HasSearched:
		v.Message = MessagePractitionersPrompt
	case len(v.Rows) == 0:
		v.Message = MessageNoPractitioners
	}
	return v
}
