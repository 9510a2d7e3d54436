// Package processor wires the configured adapters into reading sessions and
// runs the glossa commands: single lookups, headless annotation with
// exports, speech drafting, the translation proxy and the desktop reader.
package processor
