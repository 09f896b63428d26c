package datasets

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Noofbiz/metatab/transforms"
)

// tableSpec holds the per-dataset constants shared class-table
// machinery needs: a name for error messages, the header names that may
// carry the class label, and the default train/val/test class split.
type tableSpec struct {
	name            string
	labelCandidates []string
	splitSizes      [3]int
}

// rowRef locates a single data row: which CSV file and which data row
// (header excluded) within it.
type rowRef struct {
	fileIdx int
	row     int
}

// augClass names one exposed class: the base label it is built from and
// the index of the augmentation applied to its rows (-1 for the base
// class itself).
type augClass struct {
	label string
	base  string
	aug   int
}

// classTable is the shared implementation behind Covertype and Letter.
// It scans the CSV files under the root folder once to index rows by
// class label, restricts the class list to the selected meta split, and
// reads feature rows lazily when a class is materialized.
type classTable struct {
	spec tableSpec
	cfg  ClassConfig

	csvPaths     []string
	labelCol     int
	featureCols  []int
	featureNames []string

	// classRows maps a base class label to the locations of its rows,
	// in (file, row) order.
	classRows map[string][]rowRef

	// classes exposed for the selected meta split; augmented variants
	// are appended after the base classes.
	classes []augClass
}

// newClassTable builds the class index for the CSV files under folder.
func newClassTable(folder string, cfg ClassConfig, spec tableSpec) (*classTable, error) {
	if folder == "" {
		return nil, fmt.Errorf("%s: root folder is empty", spec.name)
	}

	pattern := "*.csv"
	if p, ok := cfg.Extra["pattern"].(string); ok && p != "" {
		pattern = p
	}
	csvPaths, err := filepath.Glob(filepath.Join(folder, pattern))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to glob pattern %s: %w", spec.name, pattern, err)
	}
	if len(csvPaths) == 0 {
		return nil, fmt.Errorf("%s: no CSV files found under %s matching %s", spec.name, folder, pattern)
	}
	sort.Strings(csvPaths)

	t := &classTable{
		spec:      spec,
		cfg:       cfg,
		csvPaths:  csvPaths,
		classRows: make(map[string][]rowRef),
	}

	// Column structure is taken from the first file, like every file in
	// the root shares one schema.
	if err := t.initializeColumns(); err != nil {
		return nil, err
	}
	if err := t.buildClassIndex(); err != nil {
		return nil, err
	}
	if err := t.selectSplit(); err != nil {
		return nil, err
	}
	return t, nil
}

// initializeColumns reads the first CSV header to locate the label
// column and the feature columns.
func (t *classTable) initializeColumns() error {
	file, err := os.Open(t.csvPaths[0])
	if err != nil {
		return fmt.Errorf("%s: failed to open first CSV %s: %w", t.spec.name, t.csvPaths[0], err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%s: failed to read header: %w", t.spec.name, err)
	}

	colIndex := make(map[string]int)
	normalized := make([]string, len(header))
	for i, col := range header {
		normalized[i] = strings.TrimSpace(strings.ToLower(col))
		colIndex[normalized[i]] = i
	}

	candidates := t.spec.labelCandidates
	if override, ok := t.cfg.Extra["label_column"].(string); ok && override != "" {
		candidates = []string{strings.ToLower(override)}
	}
	t.labelCol = -1
	for _, name := range candidates {
		if idx, ok := colIndex[name]; ok {
			t.labelCol = idx
			break
		}
	}
	if t.labelCol == -1 {
		return fmt.Errorf("%s: could not find label column (tried %s)", t.spec.name, strings.Join(candidates, ", "))
	}

	// Every other column is a feature, in header order.
	for i := range header {
		if i == t.labelCol {
			continue
		}
		t.featureCols = append(t.featureCols, i)
		t.featureNames = append(t.featureNames, normalized[i])
	}
	if len(t.featureCols) == 0 {
		return fmt.Errorf("%s: CSV has no feature columns", t.spec.name)
	}
	return nil
}

// buildClassIndex scans all files and records where each class's rows
// live.
func (t *classTable) buildClassIndex() error {
	for fileIdx, path := range t.csvPaths {
		if err := t.scanFile(fileIdx, path); err != nil {
			return fmt.Errorf("%s: failed to scan %s: %w", t.spec.name, path, err)
		}
	}
	return nil
}

func (t *classTable) scanFile(fileIdx int, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if t.labelCol >= len(record) {
			return fmt.Errorf("row %d has %d columns, label column is %d", rowIdx, len(record), t.labelCol)
		}
		label := strings.TrimSpace(record[t.labelCol])
		t.classRows[label] = append(t.classRows[label], rowRef{fileIdx: fileIdx, row: rowIdx})
		rowIdx++
	}
	return nil
}

// selectSplit restricts the class list to the configured meta split and
// appends one augmented variant per class augmentation.
func (t *classTable) selectSplit() error {
	labels := make([]string, 0, len(t.classRows))
	for label := range t.classRows {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	split := t.cfg.MetaSplit
	if split == "" {
		split = "train"
	}
	sizes := t.spec.splitSizes
	var lo, hi int
	switch split {
	case "train":
		lo, hi = 0, sizes[0]
	case "val":
		lo, hi = sizes[0], sizes[0]+sizes[1]
	case "test":
		lo, hi = sizes[0]+sizes[1], sizes[0]+sizes[1]+sizes[2]
	default:
		return fmt.Errorf("%s: unknown meta split %q (want train, val or test)", t.spec.name, split)
	}
	if lo > len(labels) {
		lo = len(labels)
	}
	if hi > len(labels) {
		hi = len(labels)
	}
	if lo >= hi {
		return fmt.Errorf("%s: meta split %q selects no classes (%d classes found)", t.spec.name, split, len(labels))
	}

	for _, label := range labels[lo:hi] {
		t.classes = append(t.classes, augClass{label: label, base: label, aug: -1})
	}
	for augIdx := range t.cfg.ClassAugmentations {
		for _, label := range labels[lo:hi] {
			t.classes = append(t.classes, augClass{
				label: fmt.Sprintf("%s/aug%d", label, augIdx+1),
				base:  label,
				aug:   augIdx,
			})
		}
	}
	return nil
}

// NumClasses returns the number of classes exposed by the selected meta
// split, augmented variants included.
func (t *classTable) NumClasses() int { return len(t.classes) }

// NumClassesPerTask returns N in N-way classification, as configured.
func (t *classTable) NumClassesPerTask() int { return t.cfg.NumClassesPerTask }

// ClassLabel returns the label of class i.
func (t *classTable) ClassLabel(i int) string { return t.classes[i].label }

// Transform returns the configured input transform (may be nil).
func (t *classTable) Transform() transforms.Transform { return t.cfg.Transform }

// TargetTransform returns the configured target transform (may be nil).
func (t *classTable) TargetTransform() transforms.TargetTransform { return t.cfg.TargetTransform }

// NumFeatures returns the number of feature columns.
func (t *classTable) NumFeatures() int { return len(t.featureCols) }

// ClassExamples reads all feature rows of class i from disk, applying
// the class augmentation for augmented variants.
func (t *classTable) ClassExamples(i int) ([][]float32, error) {
	if i < 0 || i >= len(t.classes) {
		return nil, fmt.Errorf("%s: class index %d out of range [0, %d)", t.spec.name, i, len(t.classes))
	}
	c := t.classes[i]
	refs := t.classRows[c.base]

	// refs are in (file, row) order, so reading file by file yields
	// rows in indexing order.
	rows := make([][]float32, 0, len(refs))
	start := 0
	for start < len(refs) {
		end := start
		for end < len(refs) && refs[end].fileIdx == refs[start].fileIdx {
			end++
		}
		fileRows, err := t.readRows(refs[start].fileIdx, refs[start:end])
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
		start = end
	}

	if c.aug >= 0 {
		augment := t.cfg.ClassAugmentations[c.aug]
		for j, row := range rows {
			rows[j] = augment(row)
		}
	}
	return rows, nil
}

// readRows streams one file and parses the referenced rows, which must
// all belong to that file and be sorted by row index.
func (t *classTable) readRows(fileIdx int, refs []rowRef) ([][]float32, error) {
	file, err := os.Open(t.csvPaths[fileIdx])
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open CSV: %w", t.spec.name, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", t.spec.name, err)
	}

	rows := make([][]float32, 0, len(refs))
	next := 0
	rowIdx := 0
	for next < len(refs) {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%s: row %d missing from %s", t.spec.name, refs[next].row, t.csvPaths[fileIdx])
		}
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read row: %w", t.spec.name, err)
		}
		if rowIdx == refs[next].row {
			row, err := t.parseFeatures(record)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d of %s: %w", t.spec.name, rowIdx, t.csvPaths[fileIdx], err)
			}
			rows = append(rows, row)
			next++
		}
		rowIdx++
	}
	return rows, nil
}

func (t *classTable) parseFeatures(record []string) ([]float32, error) {
	row := make([]float32, len(t.featureCols))
	for j, col := range t.featureCols {
		if col >= len(record) {
			return nil, fmt.Errorf("missing column %q", t.featureNames[j])
		}
		val, err := parseFloat32(record[col])
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", t.featureNames[j], err)
		}
		row[j] = val
	}
	return row, nil
}
