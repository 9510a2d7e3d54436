// Package lang classifies text into the two supported scripts and splits a
// document into display tokens. Both operations are pure functions of their
// input.
package lang
