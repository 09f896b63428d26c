package meta

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Noofbiz/metatab/transforms"
)

// ClassDataset is the minimal interface the split operator requires
// from a class-selection dataset. This keeps meta decoupled from the
// concrete datasets package while allowing callers to pass the
// repository's Covertype or Letter datasets (they match these methods).
type ClassDataset interface {
	// NumClasses returns the number of classes available for sampling.
	NumClasses() int
	// NumClassesPerTask is N in N-way classification.
	NumClassesPerTask() int
	// ClassLabel returns the label of class i.
	ClassLabel(i int) string
	// ClassExamples returns the raw feature rows of class i.
	ClassExamples(i int) ([][]float32, error)
	// Transform returns the input transform applied to every row of a
	// task, or nil to skip tensor conversion.
	Transform() transforms.Transform
	// TargetTransform returns the transform mapping class labels to
	// task targets, or nil to use the class position within the task.
	TargetTransform() transforms.TargetTransform
}

// SplitConfig configures how each class's examples are cut into the
// train and test halves of a task.
type SplitConfig struct {
	// Shuffle randomizes row order within each class before cutting.
	Shuffle bool

	// NumTrainPerClass is k in k-shot classification.
	NumTrainPerClass int

	// NumTestPerClass is the number of test examples per class.
	NumTestPerClass int
}

// TaskDataset wraps a class-selection dataset and samples N-way k-shot
// tasks from it. Construct it with ClassSplitter. A TaskDataset also
// satisfies gomlx's train.Dataset interface through Yield/Restart/Name,
// yielding each sampled task's train split as one batch.
type TaskDataset struct {
	ds  ClassDataset
	cfg SplitConfig
	rng *rand.Rand
}

// ClassSplitter wraps ds with the train/test split operator.
func ClassSplitter(ds ClassDataset, cfg SplitConfig) (*TaskDataset, error) {
	if ds == nil {
		return nil, fmt.Errorf("class dataset is nil")
	}
	if cfg.NumTrainPerClass <= 0 {
		return nil, fmt.Errorf("NumTrainPerClass must be positive, got %d", cfg.NumTrainPerClass)
	}
	if cfg.NumTestPerClass <= 0 {
		return nil, fmt.Errorf("NumTestPerClass must be positive, got %d", cfg.NumTestPerClass)
	}
	return &TaskDataset{
		ds:  ds,
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Seed resets the task sampling randomness. A nil seed restores the
// default time-based source, which is not the same as Seed of zero.
func (t *TaskDataset) Seed(seed *int64) {
	if seed == nil {
		t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		return
	}
	t.rng = rand.New(rand.NewSource(*seed))
}

// Len returns the number of classes available for sampling.
func (t *TaskDataset) Len() int { return t.ds.NumClasses() }

// Sample draws NumClassesPerTask distinct classes and builds a task
// from them.
func (t *TaskDataset) Sample() (*Task, error) {
	n := t.ds.NumClasses()
	k := t.ds.NumClassesPerTask()
	if k <= 0 {
		return nil, fmt.Errorf("dataset reports %d classes per task", k)
	}
	if k > n {
		return nil, fmt.Errorf("task needs %d classes but the dataset only has %d", k, n)
	}
	return t.Task(t.rng.Perm(n)[:k])
}

// Task builds a task from the given class indices, cutting each class's
// rows into NumTrainPerClass train and NumTestPerClass test examples.
func (t *TaskDataset) Task(classIndices []int) (*Task, error) {
	tt := t.ds.TargetTransform()
	if scoped, ok := tt.(transforms.TaskScoped); ok {
		scoped.BeginTask()
	}
	transform := t.ds.Transform()
	need := t.cfg.NumTrainPerClass + t.cfg.NumTestPerClass

	task := &Task{}
	for pos, ci := range classIndices {
		label := t.ds.ClassLabel(ci)
		rows, err := t.ds.ClassExamples(ci)
		if err != nil {
			return nil, err
		}
		if len(rows) < need {
			return nil, fmt.Errorf("class %q has %d examples, need %d per task", label, len(rows), need)
		}

		order := make([]int, len(rows))
		for i := range order {
			order[i] = i
		}
		if t.cfg.Shuffle {
			t.rng.Shuffle(len(order), func(i, j int) {
				order[i], order[j] = order[j], order[i]
			})
		}

		target := pos
		if tt != nil {
			target, err = tt.TransformTarget(label)
			if err != nil {
				return nil, err
			}
		}

		for j := 0; j < need; j++ {
			ex := TaskExample{
				Row:    rows[order[j]],
				Target: target,
				Label:  label,
			}
			if transform != nil {
				ex.Input, err = transform(ex.Row)
				if err != nil {
					return nil, fmt.Errorf("input transform failed for class %q: %w", label, err)
				}
			}
			if j < t.cfg.NumTrainPerClass {
				task.Train = append(task.Train, ex)
			} else {
				task.Test = append(task.Test, ex)
			}
		}
	}
	return task, nil
}
