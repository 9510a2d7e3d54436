// Package proxy serves the translation proxy used by `glossa serve`. It keeps
// provider credentials on the server: clients post {text, from} and get the
// dictionary provider's response back unchanged. It also drafts speeches for
// clients that cannot reach a chat model themselves.
package proxy
