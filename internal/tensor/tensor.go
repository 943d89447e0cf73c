// Package tensor defines the contiguous float buffer exchanged across
// pipeline stage boundaries.
package tensor

// Tensor is a contiguous float buffer plus its shape. Ownership is
// exclusive to whoever currently holds it; it is handed off by transfer,
// never shared mutably, across stage boundaries.
type Tensor struct {
	Data  []float32
	Shape []int
}

// New wraps data with shape, without copying.
func New(data []float32, shape []int) Tensor {
	return Tensor{Data: data, Shape: shape}
}

// Len returns the product of the shape dimensions.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}
