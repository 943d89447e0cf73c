// Package model defines the interface the inference runner dispatches
// through. Concrete backends (internal/onnxmodel) implement it.
package model

import "github.com/screenager/ocrcore/internal/tensor"

// Model is a single-method dynamic-dispatch boundary around a model
// session: tensor in, tensor out. Implementations must be safe to call
// concurrently only to the degree their own session allows; the runner
// serializes calls through an executor so implementations may assume
// effectively-serial access if their session requires it.
type Model interface {
	Run(in tensor.Tensor) (tensor.Tensor, error)
}
