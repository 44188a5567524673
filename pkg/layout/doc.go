// Package layout assigns workflow states to levels for diagram rendering.
//
// # Overview
//
// [Compute] takes a scenario's states and transitions and returns a
// deterministic layered layout: an ordered list of levels, each an ordered
// list of state names, plus the reverse index from state name to level. The
// result drives the diagram builder, which turns levels into coordinates.
//
// # Algorithm
//
//  1. Build an adjacency list and incoming-edge counts, ignoring transitions
//     whose endpoints are not known states.
//  2. Root candidates are states with no incoming edges, in input order.
//  3. Walk depth-first from each root. A state takes the depth at which it is
//     first reached and is never re-leveled (first assignment wins).
//  4. States still unreached (cycles, islands) are swept in input order, each
//     starting a new walk one level below the deepest assigned level.
//
// When no root candidate exists, or no transition connects two known
// states, the engine falls back to [Sequential]: states in input order,
// [NodesPerLevel] per level.
//
// # Guarantees
//
// Every state appears exactly once, levels are contiguous from 0, and equal
// inputs produce equal outputs. Compute never fails; malformed input degrades
// to one of the two layouts above. The walk uses an explicit stack, so deep
// chains cannot exhaust the goroutine stack.
//
// # Concurrency
//
// Compute holds no package state and may be called from any number of
// goroutines. Callers must not mutate a [Result] they share.
package layout
