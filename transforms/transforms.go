package transforms

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// This file provides the input-side transforms applied to raw tabular
// feature rows before they are handed to a task consumer.
//
// A Transform turns a single feature row into a gomlx tensor. The split
// operator fetches the transform from the class-selection dataset and
// applies it once per example when a task is built, so transforms should
// be cheap and stateless.

// Transform converts a raw feature row into the tensor form consumed by
// training code. Implementations must not retain or mutate the row.
type Transform func(row []float32) (*tensors.Tensor, error)

// ToTensor returns the default input transform: it copies the feature
// row into a 1-D float32 gomlx tensor.
func ToTensor() Transform {
	return func(row []float32) (*tensors.Tensor, error) {
		if len(row) == 0 {
			return nil, fmt.Errorf("cannot convert empty feature row to tensor")
		}
		out := make([]float32, len(row))
		copy(out, row)
		return tensors.FromAnyValue(out), nil
	}
}

// ClassAugmentation derives a variant row from a base row, producing a
// new synthetic class from an existing one. Implementations must return
// a fresh slice and leave the input untouched.
type ClassAugmentation func(row []float32) []float32

// Scale returns a class augmentation that multiplies every feature by
// the given factor.
func Scale(factor float32) ClassAugmentation {
	return func(row []float32) []float32 {
		out := make([]float32, len(row))
		for i, v := range row {
			out[i] = v * factor
		}
		return out
	}
}
