// Package export turns the live view into a paginated document.
//
// The pipeline snapshots the view's presentation, expands its scroll panes
// and hides ephemeral controls, rasterizes the container, restores the view
// and slices the raster into page-height bands handed to a Writer.
package export
