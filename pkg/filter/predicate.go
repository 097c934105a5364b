package filter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedOp is returned when a comparison cannot be rendered as SQL.
var ErrUnsupportedOp = errors.New("unsupported comparison operator")

// Predicate decides whether a record belongs to a result set.
type Predicate[T any] interface {
	// Match evaluates the predicate against rec.
	Match(rec T) bool

	// Clause renders the predicate as a SQL boolean expression.
	Clause(args *Args) (string, error)
}

// Args accumulates positional SQL arguments.
type Args struct {
	values []any
}

// Add binds v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values returns the bound arguments in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

type equal[T any, V comparable] struct {
	column string
	get    func(T) V
	want   V
}

// Equal matches records whose field equals want.
func Equal[T any, V comparable](column string, get func(T) V, want V) Predicate[T] {
	return equal[T, V]{column: column, get: get, want: want}
}

func (p equal[T, V]) Match(rec T) bool {
	return p.get(rec) == p.want
}

func (p equal[T, V]) Clause(args *Args) (string, error) {
	return fmt.Sprintf("%s = %s", p.column, args.Add(p.want)), nil
}

type containsFold[T any] struct {
	column string
	get    func(T) string
	substr string
	lower  string
}

// ContainsFold matches records whose field contains substr, ignoring case.
//
// Match folds with Unicode simple lowercasing. Clause folds with the
// database's lower(), which follows the column's collation: under the C
// collation only ASCII letters are folded, so the two agree on ASCII text
// and may differ on other scripts.
func ContainsFold[T any](column string, get func(T) string, substr string) Predicate[T] {
	return containsFold[T]{column: column, get: get, substr: substr, lower: strings.ToLower(substr)}
}

func (p containsFold[T]) Match(rec T) bool {
	return strings.Contains(strings.ToLower(p.get(rec)), p.lower)
}

func (p containsFold[T]) Clause(args *Args) (string, error) {
	return fmt.Sprintf("strpos(lower(%s), lower(%s)) > 0", p.column, args.Add(p.substr)), nil
}

// Op is a numeric comparison operator.
type Op string

const (
	GreaterThan Op = ">"
	LessThan    Op = "<"
)

type compare[T any] struct {
	column string
	get    func(T) decimal.Decimal
	op     Op
	bound  decimal.Decimal
}

// Compare matches records whose numeric field compares to bound with op.
func Compare[T any](column string, get func(T) decimal.Decimal, op Op, bound decimal.Decimal) Predicate[T] {
	return compare[T]{column: column, get: get, op: op, bound: bound}
}

func (p compare[T]) Match(rec T) bool {
	v := p.get(rec)
	switch p.op {
	case GreaterThan:
		return v.GreaterThan(p.bound)
	case LessThan:
		return v.LessThan(p.bound)
	default:
		return false
	}
}

func (p compare[T]) Clause(args *Args) (string, error) {
	switch p.op {
	case GreaterThan, LessThan:
	default:
		return "", fmt.Errorf("%w %q", ErrUnsupportedOp, p.op)
	}
	return fmt.Sprintf("%s %s %s::numeric", p.column, p.op, args.Add(p.bound.String())), nil
}

type anyElement[T, E any] struct {
	column string
	get    func(T) []E
	match  func(E) bool
	probe  any
}

// AnyElement matches records where at least one element of a list-valued
// field satisfies match. In SQL the field is a JSONB array and probe is the
// partial element used for containment, e.g. map[string]any{"name": "Acme"}.
func AnyElement[T, E any](column string, get func(T) []E, match func(E) bool, probe any) Predicate[T] {
	return anyElement[T, E]{column: column, get: get, match: match, probe: probe}
}

func (p anyElement[T, E]) Match(rec T) bool {
	for _, e := range p.get(rec) {
		if p.match(e) {
			return true
		}
	}
	return false
}

func (p anyElement[T, E]) Clause(args *Args) (string, error) {
	b, err := json.Marshal([]any{p.probe})
	if err != nil {
		return "", fmt.Errorf("marshal containment probe for %s: %w", p.column, err)
	}
	return fmt.Sprintf("%s @> %s::jsonb", p.column, args.Add(string(b))), nil
}

type or[T any] struct {
	preds []Predicate[T]
}

// Or matches records satisfying at least one of preds.
func Or[T any](preds ...Predicate[T]) Predicate[T] {
	return or[T]{preds: preds}
}

func (p or[T]) Match(rec T) bool {
	for _, pred := range p.preds {
		if pred.Match(rec) {
			return true
		}
	}
	return false
}

func (p or[T]) Clause(args *Args) (string, error) {
	if len(p.preds) == 0 {
		return "FALSE", nil
	}
	parts := make([]string, 0, len(p.preds))
	for _, pred := range p.preds {
		c, err := pred.Clause(args)
		if err != nil {
			return "", err
		}
		parts = append(parts, c)
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}
