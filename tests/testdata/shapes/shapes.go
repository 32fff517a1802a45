// Package shapes is a test fixture for the indexer.
package shapes

import "io"

// Shape is the common base of all shapes. See [Square] for an example.
type Shape struct {
	// Name labels the shape.
	Name string `json:"name" yaml:"name"`

	// Tags are free-form labels.
	Tags []string

	id int
}

// Area returns the area of the shape.
func (s *Shape) Area() float64 { return 0 }

// Describe writes a description to w, as [io.Writer] users expect.
func (s Shape) Describe(w io.Writer, verbose bool) (int, error) { return 0, nil }

func (s *Shape) reset() {}

// Rectangle is a [Shape] with two sides.
type Rectangle struct {
	Shape

	Width, Height float64
}

// Scale multiplies both sides by each factor in turn.
func (r *Rectangle) Scale(factors ...float64) {}

// Square is a [Rectangle] with equal sides. Its corners pair up as [Pair].
type Square struct {
	*Rectangle

	// Parent may be nil.
	Parent *Square
}

// Pair holds two values.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Sizer is not a struct and is skipped.
type Sizer interface {
	Size() int
}

type hidden struct{}
