// Package rollup aggregates per-account positions into asset groups,
// account-level drill-downs and portfolio totals.
//
// Every function in this package is pure: inputs are never modified and
// results depend only on the arguments, so the same snapshot can be shared
// between callers. Nothing here returns an error; malformed input degrades
// to zero values and every ratio goes through SafeDiv.
package rollup
