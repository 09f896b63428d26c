package transforms

import "fmt"

// TargetTransform maps an original class label (the raw value found in
// the dataset's label column) to the integer target used in a task.
type TargetTransform interface {
	TransformTarget(label string) (int, error)
}

// TaskScoped is implemented by target transforms that keep per-task
// state. The split operator calls BeginTask before encoding the labels
// of a newly built task.
type TaskScoped interface {
	BeginTask()
}

// Categorical encodes class labels as integer indices in
// [0, NumClasses). Indices are assigned in order of first appearance
// within a task; BeginTask discards the mapping so every task starts
// from index 0. It is the default target transform for N-way
// classification, with NumClasses set to the number of ways.
type Categorical struct {
	// NumClasses is the number of distinct labels a single task may
	// contain. Encoding a label beyond this budget is an error.
	NumClasses int

	indices map[string]int
}

// NewCategorical creates a Categorical transform for tasks with up to
// numClasses distinct labels.
func NewCategorical(numClasses int) *Categorical {
	return &Categorical{NumClasses: numClasses}
}

// BeginTask resets the label-to-index mapping for a new task.
func (c *Categorical) BeginTask() {
	c.indices = make(map[string]int)
}

// TransformTarget returns the index assigned to label, assigning the
// next free one on first sight.
func (c *Categorical) TransformTarget(label string) (int, error) {
	if c.indices == nil {
		c.indices = make(map[string]int)
	}
	if idx, ok := c.indices[label]; ok {
		return idx, nil
	}
	if len(c.indices) >= c.NumClasses {
		return 0, fmt.Errorf("categorical transform saw label %q after all %d indices were assigned", label, c.NumClasses)
	}
	idx := len(c.indices)
	c.indices[label] = idx
	return idx, nil
}
