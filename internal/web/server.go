// Package web serves the server-rendered search pages. Every browser gets a
// session whose state advances only through session.Reduce.
package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcdl/provider-search/internal/domain/healthcareservice"
	"github.com/hcdl/provider-search/internal/domain/practitioner"
	"github.com/hcdl/provider-search/internal/session"
	"github.com/hcdl/provider-search/pkg/pagination"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "provider_search_session"

type Server struct {
	services      *healthcareservice.Service
	practitioners *practitioner.Service
	sessions      *session.Store
	logger        zerolog.Logger
	secureCookie  bool
}

func NewServer(services *healthcareservice.Service, practitioners *practitioner.Service, sessions *session.Store, logger zerolog.Logger, secureCookie bool) *Server {
	return &Server{
		services:      services,
		practitioners: practitioners,
		sessions:      sessions,
		logger:        logger,
		secureCookie:  secureCookie,
	}
}

// RegisterRoutes mounts the pages and their static assets on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/", s.ServicesPage)
	e.GET("/search", s.SearchServices)
	e.GET("/sort", s.Sort)
	e.GET("/page-size", s.PageSize)
	e.GET("/practitioners", s.PractitionersPage)
	e.GET("/practitioners/search", s.SearchPractitioners)
	e.StaticFS("/static", staticFS())
}

// session returns the caller's session id, starting a new session when the
// cookie is missing or its session has expired.
func (s *Server) session(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookie); err == nil {
		if _, ok := s.sessions.Get(ck.Value); ok {
			return ck.Value
		}
	}
	id := s.sessions.Create()
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// dispatch applies a to the session, recreating a session that expired
// between reading the cookie and this step.
func (s *Server) dispatch(c echo.Context, id *string, a session.Action) session.State {
	st, err := s.sessions.Dispatch(*id, a)
	if errors.Is(err, session.ErrNotFound) {
		*id = s.session(c)
		st, _ = s.sessions.Dispatch(*id, a)
	}
	return st
}

func (s *Server) state(c echo.Context) session.State {
	id := s.session(c)
	st, _ := s.sessions.Get(id)
	return st
}

func (s *Server) ServicesPage(c echo.Context) error {
	return c.Render(http.StatusOK, PageServices, newServicesView(s.state(c).Services))
}

// SearchServices submits the provider search form, waits for the cycle to
// finish and redirects back to the results page.
func (s *Server) SearchServices(c echo.Context) error {
	id := s.session(c)
	q, err := healthcareservice.Query{
		Name:       c.QueryParam("name"),
		State:      c.QueryParam("state"),
		PostalCode: c.QueryParam("zip"),
		Specialty:  c.QueryParam("specialty"),
	}.Normalize()
	if err != nil {
		st, _ := s.sessions.Get(id)
		v := newServicesView(st.Services)
		v.Query = q
		v.Error = err.Error()
		return c.Render(http.StatusBadRequest, PageServices, v)
	}

	st := s.dispatch(c, &id, session.SubmitServiceSearch{Query: q})
	seq := st.Services.Seq

	var done session.Action
	result, err := s.services.Search(c.Request().Context(), st.Services.Query)
	if err != nil {
		s.logger.Warn().Err(err).Uint64("seq", seq).Msg("provider search failed")
		done = session.ServiceSearchFailed{Seq: seq, Err: err.Error()}
	} else {
		done = session.ServiceSearchCompleted{Seq: seq, Result: result}
	}

	st = s.dispatch(c, &id, done)
	if st.Services.Seq != seq {
		s.logger.Debug().Uint64("seq", seq).Uint64("latest", st.Services.Seq).Msg("discarded stale provider search")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Sort toggles the sort column. Rows are re-derived from the stored result.
func (s *Server) Sort(c echo.Context) error {
	column := c.QueryParam("column")
	if !healthcareservice.IsColumn(column) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown sort column "+column)
	}
	id := s.session(c)
	s.dispatch(c, &id, session.SortBy{Column: column})
	return c.Redirect(http.StatusSeeOther, "/")
}

// PageSize sets the number of results requested by the next search.
func (s *Server) PageSize(c echo.Context) error {
	n, err := pagination.ParseCount(c.QueryParam("count"), 0)
	if err != nil || n == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid page size")
	}
	id := s.session(c)
	s.dispatch(c, &id, session.SetPageSize{Count: n})
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) PractitionersPage(c echo.Context) error {
	return c.Render(http.StatusOK, PagePractitioners, newPractitionersView(s.state(c).Practitioners))
}

// SearchPractitioners submits the practitioner form and redirects back to the
// practitioner page.
func (s *Server) SearchPractitioners(c echo.Context) error {
	id := s.session(c)
	count, countErr := pagination.ParseCount(c.QueryParam("count"), pagination.DefaultCount)
	q, err := practitioner.Query{
		Name:  c.QueryParam("name"),
		State: c.QueryParam("state"),
		Count: count,
	}.Normalize()
	if countErr != nil {
		err = countErr
	}
	if err != nil {
		st, _ := s.sessions.Get(id)
		v := newPractitionersView(st.Practitioners)
		v.Query = q
		if v.Query.Count == 0 {
			v.Query.Count = pagination.DefaultCount
		}
		v.Error = err.Error()
		return c.Render(http.StatusBadRequest, PagePractitioners, v)
	}

	st := s.dispatch(c, &id, session.SubmitPractitionerSearch{Query: q})
	seq := st.Practitioners.Seq

	var done session.Action
	rows, err := s.practitioners.SearchRows(c.Request().Context(), q)
	if err != nil {
		s.logger.Warn().Err(err).Uint64("seq", seq).Msg("practitioner search failed")
		done = session.PractitionerSearchFailed{Seq: seq, Err: err.Error()}
	} else {
		done = session.PractitionerSearchCompleted{Seq: seq, Rows: rows}
	}

	st = s.dispatch(c, &id, done)
	if st.Practitioners.Seq != seq {
		s.logger.Debug().Uint64("seq", seq).Uint64("latest", st.Practitioners.Seq).Msg("discarded stale practitioner search")
	}
	return c.Redirect(http.StatusSeeOther, "/practitioners")
}
