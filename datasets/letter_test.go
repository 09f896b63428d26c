package datasets

import (
	"fmt"
	"path/filepath"
	"testing"
)

// writeLetterFixture writes a letter-shaped CSV with the given letters
// and 4 rows each.
func writeLetterFixture(t *testing.T, dir string, letters string) string {
	t.Helper()
	header := "letter,x-box,y-box,width"
	var rows []string
	for i, l := range letters {
		for r := 0; r < 4; r++ {
			rows = append(rows, fmt.Sprintf("%c,%d,%d,%d", l, i, r, i+r))
		}
	}
	writeCSV(t, filepath.Join(dir, "letter.csv"), header, rows)
	return dir
}

func TestLetter_Splits(t *testing.T) {
	folder := writeLetterFixture(t, t.TempDir(), "ABCDEFG")

	train, err := NewLetter(folder, ClassConfig{NumClassesPerTask: 3})
	if err != nil {
		t.Fatalf("NewLetter failed: %v", err)
	}
	if got := train.NumClasses(); got != 3 {
		t.Fatalf("expected 3 train classes, got %d", got)
	}
	for i, want := range []string{"A", "B", "C"} {
		if got := train.ClassLabel(i); got != want {
			t.Errorf("ClassLabel(%d) = %q, want %q", i, got, want)
		}
	}

	val, err := NewLetter(folder, ClassConfig{MetaSplit: "val"})
	if err != nil {
		t.Fatalf("NewLetter(val) failed: %v", err)
	}
	if got := val.ClassLabel(0); got != "D" {
		t.Errorf("first val class = %q, want %q", got, "D")
	}
}

func TestLetter_LabelColumnFirst(t *testing.T) {
	// The label column is first in the header; features must still be
	// the remaining columns in order.
	folder := writeLetterFixture(t, t.TempDir(), "ABC")

	ds, err := NewLetter(folder, ClassConfig{})
	if err != nil {
		t.Fatalf("NewLetter failed: %v", err)
	}
	if got := ds.NumFeatures(); got != 3 {
		t.Fatalf("NumFeatures = %d, want 3", got)
	}
	rows, err := ds.ClassExamples(1)
	if err != nil {
		t.Fatalf("ClassExamples error: %v", err)
	}
	// class B (i=1), row 0: x-box 1, y-box 0, width 1
	if rows[0][0] != 1 || rows[0][1] != 0 || rows[0][2] != 1 {
		t.Fatalf("unexpected first row for class B: %v", rows[0])
	}
}

func TestLetter_NonNumericFeature(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, "letter.csv"), "letter,x-box", []string{
		"A,1",
		"B,oops",
	})

	ds, err := NewLetter(dir, ClassConfig{})
	if err != nil {
		t.Fatalf("NewLetter failed: %v", err)
	}
	if _, err := ds.ClassExamples(1); err == nil {
		t.Fatalf("expected parse error for non-numeric feature, got nil")
	}
}
