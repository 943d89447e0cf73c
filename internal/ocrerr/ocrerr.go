// Package ocrerr defines the sentinel error kinds shared across the OCR
// core. Callers test with errors.Is; call sites wrap with fmt.Errorf and %w
// the same way the rest of this repo wraps os/json errors.
package ocrerr

import "errors"

var (
	// BadDimensions is returned by relief map construction when the data
	// length does not match width*height, or either dimension is <= 0.
	BadDimensions = errors.New("ocr: bad dimensions")

	// EmptyImage is returned when pre-processing is asked to operate on a
	// zero-size image.
	EmptyImage = errors.New("ocr: empty image")

	// BadShape is returned by the inference runner when a tensor shape is
	// invalid (an empty shape).
	BadShape = errors.New("ocr: bad tensor shape")

	// InferenceFailed wraps a model-runtime failure for a single image or
	// region; it never propagates to other in-flight work.
	InferenceFailed = errors.New("ocr: inference failed")

	// AlreadyTraced is returned by ReliefMap.TraceAllBoundaries on any call
	// after the first.
	AlreadyTraced = errors.New("ocr: relief map already traced")

	// ForeignToken is returned by Log-Book.LogEnd for a token this
	// log-book never minted.
	ForeignToken = errors.New("ocr: foreign log-book token")

	// Cancelled is returned by cooperative cancellation of a job that had
	// not yet started executing.
	Cancelled = errors.New("ocr: cancelled")

	// CapacityExhausted is returned when the pipeline's admission
	// semaphore or result stream is closed during shutdown.
	CapacityExhausted = errors.New("ocr: capacity exhausted")
)
