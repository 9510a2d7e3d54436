// Package speech owns the single "currently speaking" slot.
//
// A Controller drives a speech Engine: starting an utterance cancels the
// active one first, and completion events are matched to the utterance that
// produced them so a cancelled utterance can never end a newer one.
package speech
