// Package annotation holds the vocabulary collected during a reading session:
// the resolved words, most recent first, and the set of word texts currently
// highlighted in the document.
package annotation
