// Package resolver turns selection events into annotated vocabulary entries.
//
// Each trimmed selection is looked up at most once at a time: concurrent
// selections of the same text share one Dictionary call, and text that is
// already annotated is only highlighted again. Failed lookups still produce
// a visible placeholder entry so the reader can delete it.
package resolver
