// Package seq implements range expansion over token trees.
//
// An invocation `N in low..high { body }` is parsed (ParseInvocation), its body is
// classified (Classify) as either full replication or partial marking around the
// first `#( ... )*` marker, and the classification is expanded (Expand) with the
// binder substituted by each value of the range (Substitute). ExpandCalls finds
// `seq!( ... )` calls in a larger stream and splices each expansion in place.
//
// The engine is pure: every function returns fresh nodes and never mutates its
// input. Malformed fusions are collected rather than aborting; syntax errors and
// ambiguous markers abort the one invocation they belong to.
package seq
