package datasets

// CovertypeClasses is the total number of classes in the Covertype
// table.
const CovertypeClasses = 7

// CovertypeSplit is the default train/val/test class split for
// Covertype.
var CovertypeSplit = [3]int{3, 2, 2}

// Covertype is the class-selection dataset over the forest cover type
// table. The root folder is expected to contain one or more CSV files
// sharing a header with numeric feature columns and a "cover_type"
// label column. Classes are sorted by label; the first 3 form the
// meta-train split, the next 2 meta-val, the last 2 meta-test.
type Covertype struct {
	classTable
}

// NewCovertype indexes the CSV files under folder and exposes the
// classes of the configured meta split.
func NewCovertype(folder string, cfg ClassConfig) (*Covertype, error) {
	t, err := newClassTable(folder, cfg, tableSpec{
		name:            "covertype",
		labelCandidates: []string{"cover_type", "covertype", "class", "label"},
		splitSizes:      CovertypeSplit,
	})
	if err != nil {
		return nil, err
	}
	return &Covertype{classTable: *t}, nil
}

// Name returns the dataset name.
func (d *Covertype) Name() string { return "Covertype" }
