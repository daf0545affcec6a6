package practitioner

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcdl/provider-search/internal/platform/fhir"
	"github.com/hcdl/provider-search/pkg/pagination"
)

type Handler struct {
	svc          *Service
	defaultCount int
}

func NewHandler(svc *Service, defaultCount int) *Handler {
	return &Handler{svc: svc, defaultCount: defaultCount}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/practitioners", h.SearchPractitioners)
}

// QueryFromContext reads name, state (or address-state) and _count.
func QueryFromContext(c echo.Context, defaultCount int) (Query, error) {
	pg, err := pagination.FromContext(c, defaultCount)
	if err != nil {
		return Query{}, &fhir.FieldError{Field: "_count", Message: err.Error()}
	}
	state := c.QueryParam("state")
	if state == "" {
		state = c.QueryParam("address-state")
	}
	q := Query{Name: c.QueryParam("name"), State: state, Count: pg.Count}
	return q.Normalize()
}

func (h *Handler) SearchPractitioners(c echo.Context) error {
	q, err := QueryFromContext(c, h.defaultCount)
	if err != nil {
		var fe *fhir.FieldError
		if errors.As(err, &fe) {
			return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(fe.Field, fe.Message))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rows, err := h.svc.SearchRows(c.Request().Context(), q)
	if err != nil {
		if ctxErr := c.Request().Context().Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return ctxErr
		}
		return c.JSON(http.StatusBadGateway, fhir.UpstreamOutcome(err.Error()))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, len(rows), q.Count))
}
