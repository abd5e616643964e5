// Package text measures the labels breeze draws.
//
// A Measurer shapes a string with go-text/typesetting's HarfBuzz shaper and
// reports its advance width and line height at a given size. Fonts are
// registered once by handle; handle 0 is the built-in Go Regular font.
//
// Measured bounds are cached in a sharded LRU keyed by (content, font,
// size), so a label that does not change between frames is shaped once.
//
// # Example usage
//
//	m, err := text.NewMeasurer(0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	b := m.Measure("Hello, Breeze!", 0, 16)
//	fmt.Println(b.Width, b.Height)
package text
