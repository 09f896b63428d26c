package datasets

import "github.com/Noofbiz/metatab/transforms"

// This file documents the class-selection datasets and their shared
// configuration.
//
// Both datasets load CSV data found under a root folder and present it
// grouped by class, which is the shape the split operator needs to cut
// N-way k-shot tasks. They use lazy loading - the constructor scans the
// CSV files once to build a class index (label -> row locations) and
// the actual feature rows are only read when a class is materialized,
// minimizing memory usage for large tables.
//
// Layout and intended usage:
//
// Covertype
//   - Forest cover type table: numeric feature columns plus a
//     "cover_type" label column, 7 classes in total.
//   - Default train/val/test class split: 3/2/2.
//
// Letter
//   - Letter image recognition table: 16 numeric features plus a
//     "letter" label column, 26 classes in total.
//   - Default train/val/test class split: 3/2/2.
//
// The datasets satisfy the meta package's ClassDataset interface so
// they can be wrapped by meta.ClassSplitter.

// ClassConfig configures a class-selection dataset. The zero value is
// usable: it exposes the meta-train class split with no transforms and
// no augmentations.
type ClassConfig struct {
	// NumClassesPerTask is N in N-way classification: the number of
	// classes the split operator draws for each task.
	NumClassesPerTask int

	// Transform converts a raw feature row for consumers. The dataset
	// stores it; the split operator applies it when building tasks.
	Transform transforms.Transform

	// TargetTransform maps class labels to task targets. Stored here,
	// applied by the split operator.
	TargetTransform transforms.TargetTransform

	// ClassAugmentations derive synthetic classes from the base ones.
	// Each augmentation adds one variant of every base class; variant
	// rows pass through the augmentation before Transform.
	ClassAugmentations []transforms.ClassAugmentation

	// MetaSplit selects which class split to expose: "train" (default
	// when empty), "val" or "test".
	MetaSplit string

	// Extra carries additional dataset options, forwarded untouched.
	// Recognized keys:
	//   "pattern"      - CSV glob relative to the root folder
	//                    (default "*.csv")
	//   "label_column" - header name of the label column, overriding
	//                    the dataset's own candidates
	// Unknown keys are ignored.
	Extra map[string]any
}
