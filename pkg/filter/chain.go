package filter

import "strings"

// Chain is a conjunction of predicates. A nil or empty Chain matches everything.
type Chain[T any] struct {
	preds []Predicate[T]
}

// New returns an empty chain.
func New[T any]() *Chain[T] {
	return &Chain[T]{}
}

// Where appends p to the chain.
func (c *Chain[T]) Where(p Predicate[T]) *Chain[T] {
	c.preds = append(c.preds, p)
	return c
}

// Len returns the number of predicates.
func (c *Chain[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.preds)
}

// Match reports whether rec satisfies every predicate.
func (c *Chain[T]) Match(rec T) bool {
	if c == nil {
		return true
	}
	for _, p := range c.preds {
		if !p.Match(rec) {
			return false
		}
	}
	return true
}

// Apply returns the matching records in input order. The result is never nil.
func (c *Chain[T]) Apply(recs []T) []T {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Clause renders the chain as "a AND b ...". An empty chain renders "".
func (c *Chain[T]) Clause(args *Args) (string, error) {
	if c.Len() == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(c.preds))
	for _, p := range c.preds {
		s, err := p.Clause(args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " AND "), nil
}
