package postgres

import (
	"fmt"
	"strconv"
	"strings"
)

// predicate accumulates AND-ed WHERE clauses with positional parameters.
// Clauses passed to arg contain a single %s that receives the $n
// placeholder of the bound value.
type predicate struct {
	clauses []string
	args    []any
}

func newPredicate(args ...any) *predicate {
	return &predicate{args: args}
}

// arg binds value and appends clause with its placeholder substituted.
func (p *predicate) arg(clause string, value any) {
	p.args = append(p.args, value)
	p.clauses = append(p.clauses, fmt.Sprintf(clause, "$"+strconv.Itoa(len(p.args))))
}

// raw appends a clause that binds no value.
func (p *predicate) raw(clause string) {
	p.clauses = append(p.clauses, clause)
}

// where renders " AND c1 AND c2" or the empty string.
func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " AND " + strings.Join(p.clauses, " AND ")
}
