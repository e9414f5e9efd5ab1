// Package viz renders point-mass surveys in the terminal.
//
// The package provides:
//
//   - [RenderProfile]: asciigraph line chart of one grid row
//   - [Summary]: styled range summary of a finished run
//   - [ExploreModel]: bubbletea program for browsing grids, levels and rows
//
// Values are shown in display units (µJ/kg for potential, mGal for vertical
// effect) so chart labels stay readable.
package viz
