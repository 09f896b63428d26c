package datasets

// LetterClasses is the total number of classes in the Letter table.
const LetterClasses = 26

// LetterSplit is the default train/val/test class split for Letter.
// Only 7 of the 26 letters take part in the default splits; use a
// custom split or class augmentations to reach the rest.
var LetterSplit = [3]int{3, 2, 2}

// Letter is the class-selection dataset over the letter image
// recognition table: 16 numeric features per row plus a "letter" label
// column holding the letter itself.
type Letter struct {
	classTable
}

// NewLetter indexes the CSV files under folder and exposes the classes
// of the configured meta split.
func NewLetter(folder string, cfg ClassConfig) (*Letter, error) {
	t, err := newClassTable(folder, cfg, tableSpec{
		name:            "letter",
		labelCandidates: []string{"letter", "lettr", "class", "label"},
		splitSizes:      LetterSplit,
	})
	if err != nil {
		return nil, err
	}
	return &Letter{classTable: *t}, nil
}

// Name returns the dataset name.
func (d *Letter) Name() string { return "Letter" }
