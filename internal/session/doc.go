// Package session holds the state of one reading session: the document, its
// tokens, the vocabulary store and highlights, the speaking slot and the
// export view. All mutation goes through Session methods.
package session
