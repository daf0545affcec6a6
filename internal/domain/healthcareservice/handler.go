package healthcareservice

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hcdl/provider-search/internal/domain/reconcile"
	"github.com/hcdl/provider-search/internal/platform/catalog"
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
	api.GET("/healthcare-services", h.SearchHealthcareServices)
	api.GET("/specialties", h.ListSpecialties)
	api.GET("/states", h.ListStates)
}

// QueryFromContext reads the provider search form from the query string.
// The state may be passed as "state" or "address-state", the zip as "zip" or
// "postalCode".
func QueryFromContext(c echo.Context, defaultCount int) (Query, error) {
	pg, err := pagination.FromContext(c, defaultCount)
	if err != nil {
		return Query{}, &fhir.FieldError{Field: "_count", Message: err.Error()}
	}
	q := Query{
		Name:       c.QueryParam("name"),
		State:      firstNonEmpty(c.QueryParam("state"), c.QueryParam("address-state")),
		PostalCode: firstNonEmpty(c.QueryParam("zip"), c.QueryParam("postalCode")),
		Specialty:  c.QueryParam("specialty"),
		Count:      pg.Count,
	}
	return q.Normalize()
}

// SortFromContext reads the single-column _sort parameter. An absent
// parameter yields a nil directive.
func SortFromContext(c echo.Context) (*reconcile.SortDirective, error) {
	spec, ok := fhir.PrimarySort(c.QueryParam("_sort"))
	if !ok {
		return nil, nil
	}
	if !IsColumn(spec.Field) {
		return nil, &fhir.FieldError{Field: "_sort", Message: "unknown column " + spec.Field}
	}
	return reconcile.NewDirective(spec.Field, spec.Descending), nil
}

func (h *Handler) SearchHealthcareServices(c echo.Context) error {
	q, err := QueryFromContext(c, h.defaultCount)
	if err != nil {
		return validationError(c, err)
	}
	d, err := SortFromContext(c)
	if err != nil {
		return validationError(c, err)
	}

	result, err := h.svc.Search(c.Request().Context(), q)
	if err != nil {
		// A spent request deadline is answered by the timeout middleware.
		if ctxErr := c.Request().Context().Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			return ctxErr
		}
		return c.JSON(http.StatusBadGateway, fhir.UpstreamOutcome(err.Error()))
	}
	rows := result.Rows(d)
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, len(rows), q.Count))
}

func (h *Handler) ListSpecialties(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.Specialties)
}

func (h *Handler) ListStates(c echo.Context) error {
	return c.JSON(http.StatusOK, catalog.USStates)
}

func validationError(c echo.Context, err error) error {
	var fe *fhir.FieldError
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(fe.Field, fe.Message))
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
