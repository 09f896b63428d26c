// Command fewshot builds an N-way k-shot task dataset over a tabular
// dataset folder, samples tasks from it, reports the nearest-centroid
// baseline accuracy, and can plot one sampled task.
//
// Example:
//
//	fewshot -dataset covertype -folder assets/covertype -shots 5 -ways 3 -tasks 50 -plot output
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/Noofbiz/metatab/baseline"
	"github.com/Noofbiz/metatab/helpers"
	"github.com/Noofbiz/metatab/meta"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func main() {
	var (
		dataset   = flag.String("dataset", "covertype", "dataset to build tasks from: covertype or letter")
		folder    = flag.String("folder", "assets", "root directory containing the dataset CSV files")
		shots     = flag.Int("shots", 5, "training examples per class in each task (k in k-shot)")
		ways      = flag.Int("ways", 3, "classes per task (N in N-way)")
		testShots = flag.Int("test-shots", 0, "test examples per class in each task (0 = same as -shots)")
		seed      = flag.Int64("seed", 0, "task sampling seed (only applied when the flag is set)")
		split     = flag.String("split", "train", "meta split to draw tasks from: train, val or test")
		noShuffle = flag.Bool("no-shuffle", false, "keep CSV row order when cutting task splits")
		tasks     = flag.Int("tasks", 20, "number of tasks to sample for the baseline evaluation")
		plotDir   = flag.String("plot", "", "directory to write a task scatter plot to (empty = no plot)")
	)
	flag.Parse()

	cfg := helpers.DefaultConfig()
	cfg.TestShots = *testShots
	cfg.MetaSplit = *split
	cfg.Shuffle = !*noShuffle
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = seed
		}
	})

	var (
		ds  *meta.TaskDataset
		err error
	)
	switch *dataset {
	case "covertype":
		ds, err = helpers.Covertype(*folder, *shots, *ways, cfg)
	case "letter":
		ds, err = helpers.Letter(*folder, *shots, *ways, cfg)
	default:
		log.Fatalf("unknown dataset %q (want covertype or letter)", *dataset)
	}
	if err != nil {
		log.Fatalf("failed to build task dataset: %v", err)
	}
	log.Printf("built %s: %d classes in split %q, %d-way %d-shot", ds.Name(), ds.Len(), *split, *ways, *shots)

	task, err := ds.Sample()
	if err != nil {
		log.Fatalf("failed to sample a task: %v", err)
	}
	printTask(task)

	eval := &baseline.NearestCentroid{Config: baseline.Config{Tasks: *tasks}}
	acc, err := eval.Evaluate(ds)
	if err != nil {
		log.Fatalf("baseline evaluation failed: %v", err)
	}
	log.Printf("nearest-centroid accuracy over %d tasks: %.3f", *tasks, acc)

	if *plotDir != "" {
		if err := plotTask(*plotDir, task); err != nil {
			log.Fatalf("failed to plot task: %v", err)
		}
		log.Printf("wrote task plot to %s", filepath.Join(*plotDir, "task_scatter.png"))
	}
}

// printTask logs the per-class example counts of a sampled task.
func printTask(task *meta.Task) {
	trainCounts := make(map[string]int)
	testCounts := make(map[string]int)
	for _, ex := range task.Train {
		trainCounts[ex.Label]++
	}
	for _, ex := range task.Test {
		testCounts[ex.Label]++
	}
	for label, n := range trainCounts {
		log.Printf("  class %q: %d train / %d test examples", label, n, testCounts[label])
	}
}

// taskPalette cycles through a handful of distinguishable colors.
var taskPalette = []color.RGBA{
	{R: 20, G: 80, B: 200, A: 220},
	{R: 200, G: 30, B: 30, A: 220},
	{R: 40, G: 140, B: 40, A: 220},
	{R: 200, G: 140, B: 20, A: 220},
	{R: 130, G: 40, B: 160, A: 220},
	{R: 120, G: 120, B: 120, A: 220},
}

// plotTask writes a PNG scattering the task's examples over their first
// two feature dimensions, one color per class.
func plotTask(outDir string, task *meta.Task) error {
	p := plot.New()
	p.Title.Text = "Sampled task: first two feature dimensions"
	p.X.Label.Text = "feature 0"
	p.Y.Label.Text = "feature 1"

	byLabel := make(map[string]plotter.XYs)
	var labels []string
	for _, ex := range append(append([]meta.TaskExample{}, task.Train...), task.Test...) {
		if len(ex.Row) < 2 {
			return fmt.Errorf("need at least 2 features to plot, got %d", len(ex.Row))
		}
		if _, ok := byLabel[ex.Label]; !ok {
			labels = append(labels, ex.Label)
		}
		byLabel[ex.Label] = append(byLabel[ex.Label], plotter.XY{X: float64(ex.Row[0]), Y: float64(ex.Row[1])})
	}

	for i, label := range labels {
		sc, err := plotter.NewScatter(byLabel[label])
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = taskPalette[i%len(taskPalette)]
		sc.GlyphStyle.Radius = vg.Points(2.2)
		p.Add(sc)
		p.Legend.Add(label, sc)
	}
	p.Add(plotter.NewGrid())

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, filepath.Join(outDir, "task_scatter.png"))
}
