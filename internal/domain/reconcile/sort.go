package reconcile

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Direction represents ordering direction for a sortable column.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortDirective is the active sort: a column key plus a direction. A nil
// *SortDirective means no sort is applied.
type SortDirective struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// NewDirective builds a directive for column in the given direction.
func NewDirective(column string, descending bool) *SortDirective {
	d := &SortDirective{Column: column, Direction: Ascending}
	if descending {
		d.Direction = Descending
	}
	return d
}

// Toggle returns the directive after the user selects column: a new column
// starts ascending, the current column flips.
func Toggle(current *SortDirective, column string) *SortDirective {
	if current != nil && current.Column == column {
		return &SortDirective{Column: column, Direction: current.Direction.Flip()}
	}
	return &SortDirective{Column: column, Direction: Ascending}
}

// Columnar rows expose their display values by column key.
type Columnar interface {
	Column(key string) (string, bool)
}

type keyedRow[R any] struct {
	row R
	key string
}

// Sort returns a new slice ordered by the directive's column. Keys are the
// lower-cased column values; unknown columns key as "". Ties keep input order
// in both directions. With a nil directive the rows come back in input order.
func Sort[R Columnar](rows []R, d *SortDirective) []R {
	if rows == nil {
		return nil
	}
	if d == nil {
		out := make([]R, len(rows))
		copy(out, rows)
		return out
	}

	lower := cases.Lower(language.Und)
	keyed := make([]keyedRow[R], len(rows))
	for i, r := range rows {
		v, _ := r.Column(d.Column)
		keyed[i] = keyedRow[R]{row: r, key: lower.String(v)}
	}

	sign := 1
	if d.Direction == Descending {
		sign = -1
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		return sign*strings.Compare(keyed[i].key, keyed[j].key) < 0
	})

	out := make([]R, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out
}
