// Package filter composes record predicates from a small closed set of kinds.
//
// Every predicate can be evaluated two ways:
//
//   - Match tests a record in memory.
//   - Clause renders an equivalent PostgreSQL boolean expression, binding its
//     operands as positional arguments through Args.
//
// A Chain is a conjunction of predicates. Callers append a predicate only when
// the corresponding parameter was supplied, so an unconstrained query is an
// empty chain rather than a chain of no-op predicates.
//
// # Kinds
//
//	Equal         col = $n
//	ContainsFold  strpos(lower(col), lower($n)) > 0  (non-ASCII folding follows the collation)
//	Compare       col > $n::numeric / col < $n::numeric
//	AnyElement    col @> $n::jsonb
//	Or            (a OR b ...)
//
// # Usage
//
//	chain := filter.New[model.Trade]().
//		Where(filter.ContainsFold("symbol", func(t model.Trade) string { return t.Symbol }, "aa"))
//
//	matches := chain.Apply(records)
//
//	var args filter.Args
//	where, err := chain.Clause(&args)
//	rows, err := pool.Query(ctx, "SELECT ... WHERE "+where, args.Values()...)
package filter
