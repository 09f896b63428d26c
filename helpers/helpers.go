// Package helpers assembles ready-to-sample N-way k-shot task datasets
// for the tabular datasets in this repository. Each entry point
// resolves defaults for the transforms, wraps the class-selection
// dataset with the train/test split operator and seeds its task
// sampling.
package helpers

import (
	"github.com/Noofbiz/metatab/datasets"
	"github.com/Noofbiz/metatab/meta"
	"github.com/Noofbiz/metatab/transforms"

	"k8s.io/klog/v2"
)

// Warnf emits non-fatal configuration warnings. Warnings never abort
// construction. Replace it to route warnings elsewhere or to capture
// them in tests.
var Warnf = func(format string, args ...any) {
	klog.Warningf(format, args...)
}

// Constructor builds a class-selection dataset rooted at folder.
type Constructor func(folder string, cfg datasets.ClassConfig) (meta.ClassDataset, error)

// Config holds the optional arguments of the builder. The zero value
// disables shuffling; use DefaultConfig for the documented defaults.
type Config struct {
	// Shuffle randomizes example order when cutting each task's
	// train/test splits. DefaultConfig sets it to true.
	Shuffle bool

	// TestShots is the number of test examples per class in each task.
	// Zero means "same as the number of training shots".
	TestShots int

	// Seed seeds the task sampling of the returned dataset. A nil Seed
	// leaves the sampler on its default time-based source, which is
	// not the same as an explicit seed of zero.
	Seed *int64

	// Transform converts raw feature rows. When nil, the defaults
	// mapping or transforms.ToTensor() is used.
	Transform transforms.Transform

	// TargetTransform maps class labels to task targets. When nil, the
	// defaults mapping or transforms.NewCategorical(ways) is used.
	TargetTransform transforms.TargetTransform

	// ClassAugmentations derive synthetic classes from the base ones.
	// When nil, the defaults mapping is consulted; the fallback is no
	// augmentation.
	ClassAugmentations []transforms.ClassAugmentation

	// NumClassesPerTask, when positive, overrides the ways argument.
	// Setting both is reported through Warnf.
	NumClassesPerTask int

	// MetaSplit selects the class split to draw tasks from: "train"
	// (default when empty), "val" or "test".
	MetaSplit string

	// Extra carries additional dataset options, forwarded to the
	// dataset constructor untouched.
	Extra map[string]any
}

// DefaultConfig returns the Config used when an entry point is called
// with a nil Config.
func DefaultConfig() *Config {
	return &Config{Shuffle: true}
}

// Defaults supplies fallback values used by Build when the caller left
// the corresponding Config field unset. The entry points in this
// package pass nil Defaults, falling back to ToTensor and Categorical.
type Defaults struct {
	Transform          transforms.Transform
	TargetTransform    transforms.TargetTransform
	ClassAugmentations []transforms.ClassAugmentation
}

// Build resolves cfg against defaults in a fixed order, constructs the
// class-selection dataset via ctor, wraps it with the split operator
// and seeds it.
//
// folder is the root directory where the dataset CSV files live. shots
// is k in k-shot classification: the number of training examples per
// class in each task. ways is N in N-way classification: the number of
// classes per task, overridden by cfg.NumClassesPerTask when both are
// set. Errors from the dataset constructor or the split operator
// propagate unmodified.
func Build(ctor Constructor, folder string, shots, ways int, cfg *Config, defaults *Defaults) (*meta.TaskDataset, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		// Resolution happens on a copy so the caller's Config is not
		// mutated.
		resolved := *cfg
		cfg = &resolved
	}
	if defaults == nil {
		defaults = &Defaults{}
	}

	if cfg.NumClassesPerTask > 0 {
		Warnf("both ways (%d) and NumClassesPerTask (%d) were set for the number of classes per task; ignoring ways",
			ways, cfg.NumClassesPerTask)
		ways = cfg.NumClassesPerTask
	}
	if cfg.Transform == nil {
		cfg.Transform = defaults.Transform
		if cfg.Transform == nil {
			cfg.Transform = transforms.ToTensor()
		}
	}
	if cfg.TargetTransform == nil {
		cfg.TargetTransform = defaults.TargetTransform
		if cfg.TargetTransform == nil {
			cfg.TargetTransform = transforms.NewCategorical(ways)
		}
	}
	if cfg.ClassAugmentations == nil {
		cfg.ClassAugmentations = defaults.ClassAugmentations
	}
	testShots := cfg.TestShots
	if testShots == 0 {
		testShots = shots
	}

	ds, err := ctor(folder, datasets.ClassConfig{
		NumClassesPerTask:  ways,
		Transform:          cfg.Transform,
		TargetTransform:    cfg.TargetTransform,
		ClassAugmentations: cfg.ClassAugmentations,
		MetaSplit:          cfg.MetaSplit,
		Extra:              cfg.Extra,
	})
	if err != nil {
		return nil, err
	}

	taskDS, err := meta.ClassSplitter(ds, meta.SplitConfig{
		Shuffle:          cfg.Shuffle,
		NumTrainPerClass: shots,
		NumTestPerClass:  testShots,
	})
	if err != nil {
		return nil, err
	}
	taskDS.Seed(cfg.Seed)
	return taskDS, nil
}

// warnSplitSize reports a requested ways count that the default class
// splits cannot satisfy.
func warnSplitSize(ways int, split [3]int) {
	if ways > split[0] {
		Warnf("the number of ways is (%d), but the default splits train/val/test contain only %d/%d/%d classes respectively; "+
			"unless a custom split or class augmentations are used there may not be enough classes in the split",
			ways, split[0], split[1], split[2])
	}
}

// Covertype creates a task dataset for the Covertype dataset.
//
// Covertype has 7 classes in total with default train/val/test class
// splits of 3/2/2. Requesting more ways than the train split holds is
// reported through Warnf but does not block construction.
func Covertype(folder string, shots, ways int, cfg *Config) (*meta.TaskDataset, error) {
	warnSplitSize(ways, datasets.CovertypeSplit)
	ctor := func(folder string, c datasets.ClassConfig) (meta.ClassDataset, error) {
		return datasets.NewCovertype(folder, c)
	}
	return Build(ctor, folder, shots, ways, cfg, nil)
}

// Letter creates a task dataset for the Letter Image Recognition
// dataset.
//
// Letter has 26 classes in total, of which the default train/val/test
// class splits cover 3/2/2. Requesting more ways than the train split
// holds is reported through Warnf but does not block construction.
func Letter(folder string, shots, ways int, cfg *Config) (*meta.TaskDataset, error) {
	warnSplitSize(ways, datasets.LetterSplit)
	ctor := func(folder string, c datasets.ClassConfig) (meta.ClassDataset, error) {
		return datasets.NewLetter(folder, c)
	}
	return Build(ctor, folder, shots, ways, cfg, nil)
}
