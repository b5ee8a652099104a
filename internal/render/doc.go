// Package render draws panel states onto a [Surface].
//
// Rendering is a pure function of a [rowstate.State] and a [Layout]: the
// same input always yields the same drawing calls. Surfaces decide what a
// call means:
//
//   - [Raster]: anti-aliased RGBA image, encoded as PNG
//   - [Vector]: SVG document
//
// The terminal UI provides a third surface on a Braille canvas.
//
// # Layout
//
// Each row is a horizontal guide line with outlined squares at the centre,
// at min and at max, and a filled square at pos. A value v sits at
// x = width/2 + v*increments. The border is green when every panel
// matches and yellow otherwise.
package render
