package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Gateway is the generic query interface of the remote table store. All row
// access in the application goes through it, which keeps the wire protocol
// out of the state layer and makes it trivial to fake in tests.
type Gateway interface {
	// Select fetches the rows of table matching q and decodes them into dest,
	// which must be a pointer to a slice.
	Select(ctx context.Context, table string, q Query, dest interface{}) error

	// Insert writes one row (struct) or several (slice) and, when dest is
	// non-nil, decodes the inserted rows back into it.
	Insert(ctx context.Context, table string, rows interface{}, dest interface{}) error

	// Update applies patch to all rows matching the filters.
	Update(ctx context.Context, table string, patch interface{}, filters []Filter) error

	// Delete removes all rows matching the filters.
	Delete(ctx context.Context, table string, filters []Filter) error
}

// Filter is a single column condition
type Filter struct {
	Column string
	Op     string // eq, neq, is, in
	Value  string
}

// Eq builds an equality filter
func Eq(column, value string) Filter {
	return Filter{Column: column, Op: "eq", Value: value}
}

// EqBool builds an equality filter on a boolean column
func EqBool(column string, value bool) Filter {
	return Filter{Column: column, Op: "eq", Value: fmt.Sprintf("%t", value)}
}

// In builds a membership filter over a set of values
func In(column string, values []string) Filter {
	return Filter{Column: column, Op: "in", Value: "(" + strings.Join(values, ",") + ")"}
}

// Order is a single ordering term
type Order struct {
	Column     string
	Descending bool
}

// Asc builds an ascending order term
func Asc(column string) Order { return Order{Column: column} }

// Desc builds a descending order term
func Desc(column string) Order { return Order{Column: column, Descending: true} }

// Query carries the filters and ordering of a Select
type Query struct {
	Filters []Filter
	Order   []Order
}

// Where returns a copy of q with an extra filter appended
func (q Query) Where(f Filter) Query {
	q.Filters = append(append([]Filter{}, q.Filters...), f)
	return q
}

// encode renders the query as PostgREST-style URL parameters
func (q Query) encode() url.Values {
	values := url.Values{}
	for _, f := range q.Filters {
		values.Add(f.Column, fmt.Sprintf("%s.%s", f.Op, f.Value))
	}
	if len(q.Order) > 0 {
		terms := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			if o.Descending {
				terms = append(terms, o.Column+".desc")
			} else {
				terms = append(terms, o.Column+".asc")
			}
		}
		values.Set("order", strings.Join(terms, ","))
	}
	return values
}

// Error is a failed gateway call, carrying the HTTP status and the message
// reported by the server.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s (%d)", e.Message, e.Status)
}
