// Package onnxmodel is the concrete model.Model backend: an ONNX Runtime
// session wrapped behind the tensor-in/tensor-out contract the inference
// runner dispatches through. Single input/output name pair, CPU-threaded
// session options.
package onnxmodel

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/screenager/ocrcore/internal/tensor"
)

// Session wraps a single ONNX Runtime model with one input and one
// single-precision float output, matching both the detector's
// text-probability map and the recognizer's per-timestep class tensor.
type Session struct {
	session   *ort.DynamicAdvancedSession
	inputName string
}

// Options configures session construction.
type Options struct {
	// OrtLibPath points at the onnxruntime shared library; "" uses the
	// system default.
	OrtLibPath string
	// NumThreads controls intra-op parallelism; 0 picks min(4, NumCPU).
	NumThreads int
	InputName  string
	OutputName string
}

// New loads the ONNX model at modelPath and prepares a session for Run.
func New(modelPath string, opts Options) (*Session, error) {
	if opts.OrtLibPath != "" {
		ort.SetSharedLibraryPath(opts.OrtLibPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("onnxmodel: init environment: %w", err)
	}

	numThreads := opts.NumThreads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
		if numThreads > 4 {
			numThreads = 4
		}
	}

	so, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnxmodel: session options: %w", err)
	}
	defer so.Destroy()
	if err := so.SetIntraOpNumThreads(numThreads); err != nil {
		return nil, fmt.Errorf("onnxmodel: set intra threads: %w", err)
	}
	if err := so.SetInterOpNumThreads(1); err != nil {
		return nil, fmt.Errorf("onnxmodel: set inter threads: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{opts.InputName}, []string{opts.OutputName}, so)
	if err != nil {
		return nil, fmt.Errorf("onnxmodel: create session: %w", err)
	}

	return &Session{session: session, inputName: opts.InputName}, nil
}

// Close releases the underlying ONNX Runtime session.
func (s *Session) Close() {
	if s.session != nil {
		s.session.Destroy()
	}
}

// Run satisfies model.Model: in.Shape already carries the leading batch
// dimension prepended by the runner.
func (s *Session) Run(in tensor.Tensor) (tensor.Tensor, error) {
	shape := make([]int64, len(in.Shape))
	for i, d := range in.Shape {
		shape[i] = int64(d)
	}

	inTensor, err := ort.NewTensor(ort.NewShape(shape...), in.Data)
	if err != nil {
		return tensor.Tensor{}, fmt.Errorf("onnxmodel: input tensor: %w", err)
	}
	defer inTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{inTensor}, outputs); err != nil {
		return tensor.Tensor{}, fmt.Errorf("onnxmodel: run: %w", err)
	}
	defer func() {
		if outputs[0] != nil {
			outputs[0].Destroy()
		}
	}()

	outTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return tensor.Tensor{}, fmt.Errorf("onnxmodel: unexpected output type")
	}

	outShapeI64 := outTensor.GetShape()
	outShape := make([]int, len(outShapeI64))
	for i, d := range outShapeI64 {
		outShape[i] = int(d)
	}

	data := outTensor.GetData()
	cp := make([]float32, len(data))
	copy(cp, data)

	return tensor.New(cp, outShape), nil
}
