package meta

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// TaskExample is a single example in a task.
type TaskExample struct {
	// Input is the transformed feature tensor, nil when the dataset
	// carries no input transform.
	Input *tensors.Tensor

	// Target is the task-local class target produced by the target
	// transform.
	Target int

	// Label is the original class label.
	Label string

	// Row is the raw feature row before the input transform.
	Row []float32
}

// Task is one N-way classification task: a train split with k examples
// per class and a test split with the configured number of test
// examples per class.
type Task struct {
	Train []TaskExample
	Test  []TaskExample
}

// TrainTensors stacks the train split's raw rows and targets into
// [n, features] and [n] gomlx tensors.
func (t *Task) TrainTensors() (inputs, labels *tensors.Tensor, err error) {
	return stackExamples(t.Train)
}

// TestTensors stacks the test split's raw rows and targets into
// [n, features] and [n] gomlx tensors.
func (t *Task) TestTensors() (inputs, labels *tensors.Tensor, err error) {
	return stackExamples(t.Test)
}

func stackExamples(exs []TaskExample) (*tensors.Tensor, *tensors.Tensor, error) {
	if len(exs) == 0 {
		return nil, nil, fmt.Errorf("cannot stack an empty task split")
	}
	dim := len(exs[0].Row)
	rows := make([][]float32, len(exs))
	targets := make([]int32, len(exs))
	for i, ex := range exs {
		if len(ex.Row) != dim {
			return nil, nil, fmt.Errorf("inconsistent feature dimensions at example %d: expected %d, got %d",
				i, dim, len(ex.Row))
		}
		rows[i] = ex.Row
		targets[i] = int32(ex.Target)
	}
	return tensors.FromAnyValue(rows), tensors.FromAnyValue(targets), nil
}

// Yield samples the next task and returns its train split as a single
// batch, implementing gomlx's train.Dataset interface.
func (t *TaskDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	task, err := t.Sample()
	if err != nil {
		return nil, nil, nil, err
	}
	in, lab, err := task.TrainTensors()
	if err != nil {
		return nil, nil, nil, err
	}
	return nil, []*tensors.Tensor{in}, []*tensors.Tensor{lab}, nil
}

// Restart resets the dataset for a new epoch. Task sampling has no
// epoch state, so there is nothing to reset.
func (t *TaskDataset) Restart() error { return nil }

// Name returns the name of the dataset.
func (t *TaskDataset) Name() string {
	if named, ok := t.ds.(interface{ Name() string }); ok {
		return "TaskDataset(" + named.Name() + ")"
	}
	return "TaskDataset"
}
