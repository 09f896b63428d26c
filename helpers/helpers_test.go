package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Noofbiz/metatab/datasets"
	"github.com/Noofbiz/metatab/meta"
	"github.com/Noofbiz/metatab/transforms"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// captureWarnings replaces Warnf for the duration of the test and
// returns a counter of emitted warnings.
func captureWarnings(t *testing.T) *int {
	t.Helper()
	count := 0
	old := Warnf
	Warnf = func(format string, args ...any) { count++ }
	t.Cleanup(func() { Warnf = old })
	return &count
}

// stubClassDataset is an in-memory class-selection dataset whose
// constructor records the ClassConfig it was built with.
type stubClassDataset struct {
	cfg          datasets.ClassConfig
	classes      []string
	rowsPerClass int
}

func (s *stubClassDataset) NumClasses() int         { return len(s.classes) }
func (s *stubClassDataset) NumClassesPerTask() int  { return s.cfg.NumClassesPerTask }
func (s *stubClassDataset) ClassLabel(i int) string { return s.classes[i] }
func (s *stubClassDataset) ClassExamples(i int) ([][]float32, error) {
	rows := make([][]float32, s.rowsPerClass)
	for r := range rows {
		rows[r] = []float32{float32(i * 100), float32(r)}
	}
	return rows, nil
}
func (s *stubClassDataset) Transform() transforms.Transform             { return s.cfg.Transform }
func (s *stubClassDataset) TargetTransform() transforms.TargetTransform { return s.cfg.TargetTransform }

// recordingCtor returns a Constructor over an in-memory dataset and a
// pointer to the last recorded ClassConfig.
func recordingCtor(classes []string, rowsPerClass int) (Constructor, *datasets.ClassConfig) {
	recorded := &datasets.ClassConfig{}
	ctor := func(folder string, cfg datasets.ClassConfig) (meta.ClassDataset, error) {
		*recorded = cfg
		return &stubClassDataset{cfg: cfg, classes: classes, rowsPerClass: rowsPerClass}, nil
	}
	return ctor, recorded
}

func TestBuild_TestShotsDefaultsToShots(t *testing.T) {
	_ = captureWarnings(t)
	ctor, _ := recordingCtor([]string{"a", "b", "c"}, 10)

	ds, err := Build(ctor, "unused", 3, 2, nil, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	task, err := ds.Sample()
	if err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if got := len(task.Test); got != 2*3 {
		t.Fatalf("test split size = %d, want 6 (test shots defaulting to shots)", got)
	}

	cfg := DefaultConfig()
	cfg.TestShots = 1
	ds, err = Build(ctor, "unused", 3, 2, cfg, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	task, err = ds.Sample()
	if err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if got := len(task.Test); got != 2*1 {
		t.Fatalf("test split size = %d, want 2 (explicit test shots)", got)
	}
}

func TestBuild_NumClassesPerTaskOverridesWays(t *testing.T) {
	warnings := captureWarnings(t)
	ctor, recorded := recordingCtor([]string{"a", "b", "c", "d"}, 10)

	cfg := DefaultConfig()
	cfg.NumClassesPerTask = 2
	if _, err := Build(ctor, "unused", 1, 3, cfg, nil); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if *warnings != 1 {
		t.Errorf("expected exactly 1 configuration warning, got %d", *warnings)
	}
	if recorded.NumClassesPerTask != 2 {
		t.Errorf("dataset built with %d classes per task, want 2", recorded.NumClassesPerTask)
	}
	cat, ok := recorded.TargetTransform.(*transforms.Categorical)
	if !ok {
		t.Fatalf("default target transform is %T, want *transforms.Categorical", recorded.TargetTransform)
	}
	if cat.NumClasses != 2 {
		t.Errorf("default Categorical built for %d classes, want the overridden 2", cat.NumClasses)
	}
}

func TestBuild_DefaultResolution(t *testing.T) {
	_ = captureWarnings(t)
	ctor, recorded := recordingCtor([]string{"a", "b"}, 10)

	// With nil defaults the fixed fallbacks apply.
	if _, err := Build(ctor, "unused", 1, 2, nil, nil); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if recorded.Transform == nil {
		t.Fatalf("no input transform was passed to the dataset constructor")
	}
	if tensor, err := recorded.Transform([]float32{1, 2}); err != nil || tensor == nil {
		t.Errorf("fallback transform failed: tensor=%v err=%v", tensor, err)
	}
	cat, ok := recorded.TargetTransform.(*transforms.Categorical)
	if !ok || cat.NumClasses != 2 {
		t.Errorf("fallback target transform = %#v, want Categorical over 2 classes", recorded.TargetTransform)
	}
	if recorded.ClassAugmentations != nil {
		t.Errorf("fallback class augmentations = %v, want none", recorded.ClassAugmentations)
	}

	// A defaults mapping takes precedence over the fixed fallbacks.
	transformCalled := false
	defaults := &Defaults{
		Transform: func(row []float32) (*tensors.Tensor, error) {
			transformCalled = true
			return tensors.FromAnyValue(row), nil
		},
		TargetTransform:    transforms.NewCategorical(9),
		ClassAugmentations: []transforms.ClassAugmentation{transforms.Scale(2)},
	}
	if _, err := Build(ctor, "unused", 1, 2, nil, defaults); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := recorded.Transform([]float32{1}); err != nil {
		t.Fatalf("defaults transform failed: %v", err)
	}
	if !transformCalled {
		t.Errorf("the defaults transform was not the one passed to the dataset constructor")
	}
	if cat := recorded.TargetTransform.(*transforms.Categorical); cat.NumClasses != 9 {
		t.Errorf("defaults target transform not used: got Categorical over %d classes", cat.NumClasses)
	}
	if len(recorded.ClassAugmentations) != 1 {
		t.Errorf("defaults class augmentations not used: %v", recorded.ClassAugmentations)
	}

	// Caller-supplied fields win over the defaults mapping.
	cfg := DefaultConfig()
	cfg.TargetTransform = transforms.NewCategorical(5)
	if _, err := Build(ctor, "unused", 1, 2, cfg, defaults); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cat := recorded.TargetTransform.(*transforms.Categorical); cat.NumClasses != 5 {
		t.Errorf("caller target transform not used: got Categorical over %d classes", cat.NumClasses)
	}
}

func TestBuild_DoesNotMutateCallerConfig(t *testing.T) {
	_ = captureWarnings(t)
	ctor, _ := recordingCtor([]string{"a", "b"}, 10)

	cfg := DefaultConfig()
	if _, err := Build(ctor, "unused", 2, 2, cfg, nil); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Transform != nil || cfg.TargetTransform != nil || cfg.TestShots != 0 {
		t.Fatalf("Build mutated the caller's Config: %+v", cfg)
	}
}

func TestBuild_ConstructorErrorPropagates(t *testing.T) {
	_ = captureWarnings(t)
	ctorErr := fmt.Errorf("folder does not exist")
	ctor := func(folder string, cfg datasets.ClassConfig) (meta.ClassDataset, error) {
		return nil, ctorErr
	}
	if _, err := Build(ctor, "missing", 1, 2, nil, nil); err != ctorErr {
		t.Fatalf("expected the constructor error unmodified, got %v", err)
	}
}

// writeCovertypeCSV writes a covertype fixture with 7 classes and
// rowsPerClass rows each, returning the folder.
func writeCovertypeCSV(t *testing.T, rowsPerClass int) string {
	t.Helper()
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "covertype.csv"))
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "elevation,slope,cover_type")
	for class := 1; class <= 7; class++ {
		for r := 0; r < rowsPerClass; r++ {
			fmt.Fprintf(f, "%d,%d,%d\n", class*100+r, r, class)
		}
	}
	return dir
}

func TestCovertype_SplitSizeWarning(t *testing.T) {
	folder := writeCovertypeCSV(t, 4)

	warnings := captureWarnings(t)
	if _, err := Covertype(folder, 1, 5, nil); err != nil {
		t.Fatalf("Covertype with ways=5 must still construct: %v", err)
	}
	if *warnings != 1 {
		t.Fatalf("ways=5 must emit exactly 1 split-size warning, got %d", *warnings)
	}

	*warnings = 0
	if _, err := Covertype(folder, 1, 2, nil); err != nil {
		t.Fatalf("Covertype failed: %v", err)
	}
	if *warnings != 0 {
		t.Fatalf("ways=2 must emit no warning, got %d", *warnings)
	}
}

func TestCovertype_SeedReproducible(t *testing.T) {
	_ = captureWarnings(t)
	folder := writeCovertypeCSV(t, 5)
	seed := int64(7)

	sample := func() []string {
		cfg := DefaultConfig()
		cfg.Seed = &seed
		ds, err := Covertype(folder, 2, 2, cfg)
		if err != nil {
			t.Fatalf("Covertype failed: %v", err)
		}
		var sigs []string
		for i := 0; i < 8; i++ {
			task, err := ds.Sample()
			if err != nil {
				t.Fatalf("Sample error: %v", err)
			}
			sig := ""
			for _, ex := range task.Train {
				sig += fmt.Sprintf("%s:%v;", ex.Label, ex.Row)
			}
			sigs = append(sigs, sig)
		}
		return sigs
	}

	first := sample()
	second := sample()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("task %d differs across identically seeded builds:\n%s\n%s", i, first[i], second[i])
		}
	}
}

func TestCovertype_NilSeed(t *testing.T) {
	_ = captureWarnings(t)
	folder := writeCovertypeCSV(t, 4)

	ds, err := Covertype(folder, 1, 2, nil)
	if err != nil {
		t.Fatalf("Covertype failed: %v", err)
	}
	task, err := ds.Sample()
	if err != nil {
		t.Fatalf("Sample with unseeded dataset error: %v", err)
	}
	if len(task.Train) != 2 || len(task.Test) != 2 {
		t.Fatalf("unexpected task sizes: train=%d test=%d", len(task.Train), len(task.Test))
	}
}

func TestLetter_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "letter.csv"))
	if err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
	fmt.Fprintln(f, "letter,x-box,y-box")
	for i, l := range "ABCDE" {
		for r := 0; r < 4; r++ {
			fmt.Fprintf(f, "%c,%d,%d\n", l, i, r)
		}
	}
	f.Close()

	warnings := captureWarnings(t)
	ds, err := Letter(dir, 1, 4, nil)
	if err != nil {
		t.Fatalf("Letter with ways=4 must still construct: %v", err)
	}
	if *warnings != 1 {
		t.Fatalf("ways=4 must emit exactly 1 split-size warning, got %d", *warnings)
	}
	// The train split only holds 3 classes, so 4-way sampling fails.
	if _, err := ds.Sample(); err == nil {
		t.Fatalf("expected sampling error for 4 ways over 3 classes, got nil")
	}

	*warnings = 0
	ds, err = Letter(dir, 1, 3, nil)
	if err != nil {
		t.Fatalf("Letter failed: %v", err)
	}
	if *warnings != 0 {
		t.Fatalf("ways=3 must emit no warning, got %d", *warnings)
	}
	task, err := ds.Sample()
	if err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(task.Train) != 3 || len(task.Test) != 3 {
		t.Fatalf("unexpected task sizes: train=%d test=%d", len(task.Train), len(task.Test))
	}
	for _, ex := range task.Train {
		if ex.Input == nil {
			t.Fatalf("default transform left example without input tensor")
		}
		if ex.Target < 0 || ex.Target >= 3 {
			t.Fatalf("target %d outside [0, 3)", ex.Target)
		}
	}
}
