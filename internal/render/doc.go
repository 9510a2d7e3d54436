// Package render draws a reading session without a display.
//
// Layout is the view model the export pipeline manipulates: a container,
// the "article" and "words" scroll panes, and the toolbar and per-word
// controls. Rasterizer paints a Layout honouring each pane's style, so a
// clipped pane shows only its viewport and an expanded pane shows all of
// its content.
package render
