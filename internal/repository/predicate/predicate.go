// Package predicate models optional WHERE-clause terms for goqu queries.
//
// A filter field that is not set yields an absent Optional rather than a
// TRUE/FALSE literal or a nil expression. Folding with All drops absent terms,
// so one missing field never short-circuits the conjunction and a fold with
// nothing present produces no WHERE clause at all.
package predicate

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

// Optional is a predicate that may be absent. The zero value is absent.
type Optional struct {
	expr    exp.Expression
	present bool
}

// Of wraps e as a present predicate. A nil e is treated as absent.
func Of(e exp.Expression) Optional {
	if e == nil {
		return Optional{}
	}
	return Optional{expr: e, present: true}
}

// None returns an absent predicate.
func None() Optional { return Optional{} }

// When builds the predicate only if cond holds.
func When(cond bool, build func() exp.Expression) Optional {
	if !cond {
		return None()
	}
	return Of(build())
}

// Present reports whether the predicate constrains anything.
func (o Optional) Present() bool { return o.present }

// Get returns the wrapped expression and whether it is present.
func (o Optional) Get() (exp.Expression, bool) { return o.expr, o.present }

// And combines two optionals; an absent side is ignored.
func (o Optional) And(other Optional) Optional {
	switch {
	case !o.present:
		return other
	case !other.present:
		return o
	default:
		return Of(goqu.And(o.expr, other.expr))
	}
}

// All folds the present predicates into one conjunction. The result is an
// empty expression list when none are present; callers check IsEmpty before
// adding a WHERE clause.
func All(opts ...Optional) exp.ExpressionList {
	terms := make([]exp.Expression, 0, len(opts))
	for _, o := range opts {
		if e, ok := o.Get(); ok {
			terms = append(terms, e)
		}
	}
	return goqu.And(terms...)
}

// HasText reports whether s contains at least one non-whitespace rune.
// Blank strings count as "unset" throughout the search filters.
func HasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
