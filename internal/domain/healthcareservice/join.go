package healthcareservice

import (
	"github.com/hcdl/provider-search/internal/domain/reconcile"
)

// Sortable column keys of a ServiceRow.
const (
	ColumnProviderName  = "providerName"
	ColumnSpecialtyName = "specialtyName"
	ColumnAddressLine   = "addressLine"
	ColumnCity          = "city"
	ColumnState         = "state"
	ColumnPostalCode    = "postalCode"
)

// Column describes one result table column.
type Column struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Columns lists the result table columns in display order.
var Columns = []Column{
	{Key: ColumnProviderName, Title: "Provider Name"},
	{Key: ColumnSpecialtyName, Title: "Specialty"},
	{Key: ColumnAddressLine, Title: "Address Line"},
	{Key: ColumnCity, Title: "City"},
	{Key: ColumnState, Title: "State"},
	{Key: ColumnPostalCode, Title: "Postal Code"},
}

// IsColumn reports whether key names a ServiceRow column.
func IsColumn(key string) bool {
	for _, c := range Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// ServiceRow is a HealthcareService flattened together with the address of
// its primary Location. Every field holds either a value or the placeholder.
type ServiceRow struct {
	ID            string `json:"id"`
	ProviderName  string `json:"providerName"`
	SpecialtyName string `json:"specialtyName"`
	AddressLine   string `json:"addressLine"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
}

// Column implements reconcile.Columnar.
func (r ServiceRow) Column(key string) (string, bool) {
	switch key {
	case ColumnProviderName:
		return r.ProviderName, true
	case ColumnSpecialtyName:
		return r.SpecialtyName, true
	case ColumnAddressLine:
		return r.AddressLine, true
	case ColumnCity:
		return r.City, true
	case ColumnState:
		return r.State, true
	case ColumnPostalCode:
		return r.PostalCode, true
	}
	return "", false
}

// Join produces one row per service, resolving each service's first location
// reference against idx. Unresolvable references leave the address columns at
// the placeholder.
func Join(services []HealthcareService, idx LocationIndex) []ServiceRow {
	rows := make([]ServiceRow, len(services))
	for i, hs := range services {
		rows[i] = joinOne(hs, idx)
	}
	return rows
}

func joinOne(hs HealthcareService, idx LocationIndex) ServiceRow {
	code, _ := hs.SpecialtyCode()
	row := ServiceRow{
		ID:            hs.ID,
		ProviderName:  reconcile.OrPlaceholder(hs.Name),
		SpecialtyName: SpecialtyName(code),
		AddressLine:   reconcile.Placeholder,
		City:          reconcile.Placeholder,
		State:         reconcile.Placeholder,
		PostalCode:    reconcile.Placeholder,
	}

	id, ok := hs.PrimaryLocationID()
	if !ok {
		return row
	}
	loc, ok := idx[id]
	if !ok || loc.Address == nil {
		return row
	}

	addr := loc.Address
	if len(addr.Line) > 0 {
		row.AddressLine = reconcile.OrPlaceholder(addr.Line[0])
	}
	row.City = reconcile.OrPlaceholder(addr.City)
	row.State = reconcile.OrPlaceholder(addr.State)
	row.PostalCode = reconcile.OrPlaceholder(addr.PostalCode)
	return row
}

// Rows joins and then orders the rows; a nil directive keeps fetch order.
func Rows(services []HealthcareService, idx LocationIndex, d *reconcile.SortDirective) []ServiceRow {
	return reconcile.Sort(Join(services, idx), d)
}
