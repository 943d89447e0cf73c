// Package ctc implements greedy collapsed CTC decoding with geometric-mean
// confidence aggregation.
package ctc

import (
	"math"
	"strings"

	"github.com/screenager/ocrcore/internal/dictionary"
)

// Result is the decoded text and its confidence for one region.
type Result struct {
	Text       string
	Confidence float64
}

// Decode greedily collapses a [T, C] class-probability tensor (row-major,
// t*classes+c) into text. Class 0 is the CTC blank. Ties at argmax resolve
// to the smallest class index.
func Decode(data []float64, timesteps, classes int) Result {
	if timesteps == 0 || classes == 0 {
		return Result{}
	}

	var sb strings.Builder
	var probs []float64
	prevK := -1 // no timestep -1 exists, so the first emission is never suppressed as a repeat

	for t := 0; t < timesteps; t++ {
		row := data[t*classes : (t+1)*classes]
		k, p := argmax(row)
		if k != dictionary.Blank && k != prevK {
			sb.WriteRune(dictionary.IndexToChar(k))
			probs = append(probs, p)
		}
		prevK = k
	}

	if len(probs) == 0 {
		return Result{}
	}
	return Result{Text: sb.String(), Confidence: geometricMean(probs)}
}

// argmax returns the index and value of the largest element in row,
// preferring the smallest index on ties.
func argmax(row []float64) (int, float64) {
	bestIdx := 0
	bestVal := row[0]
	for i := 1; i < len(row); i++ {
		if row[i] > bestVal {
			bestVal = row[i]
			bestIdx = i
		}
	}
	return bestIdx, bestVal
}

func geometricMean(ps []float64) float64 {
	sumLog := 0.0
	for _, p := range ps {
		sumLog += math.Log(p)
	}
	return math.Exp(sumLog / float64(len(ps)))
}
