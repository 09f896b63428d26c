// Package baseline provides a dependency-free reference evaluator for
// task datasets: a nearest-centroid classifier that fits each task's
// train split and scores its test split. It gives a quick sanity
// number for a dataset without bringing in a training framework.
package baseline

import (
	"errors"
	"fmt"

	"github.com/Noofbiz/metatab/meta"
)

// TaskSampler is the minimal interface this package requires from a
// task dataset. meta.TaskDataset matches it.
type TaskSampler interface {
	Sample() (*meta.Task, error)
}

// Config holds configurable parameters for evaluation.
type Config struct {
	// Tasks is the number of tasks to sample and score (default if 0
	// will be set by Evaluate to 100).
	Tasks int
}

// NearestCentroid classifies each test example by the closest train
// centroid of its task, using squared euclidean distance over the raw
// feature rows.
type NearestCentroid struct {
	Config Config
}

// Evaluate samples tasks from ds and returns the mean accuracy over
// all test examples.
func (n *NearestCentroid) Evaluate(ds TaskSampler) (float64, error) {
	if ds == nil {
		return 0, errors.New("task sampler is nil")
	}
	tasks := n.Config.Tasks
	if tasks <= 0 {
		tasks = 100
	}

	correct, total := 0, 0
	for i := 0; i < tasks; i++ {
		task, err := ds.Sample()
		if err != nil {
			return 0, err
		}
		c, t, err := scoreTask(task)
		if err != nil {
			return 0, err
		}
		correct += c
		total += t
	}
	if total == 0 {
		return 0, errors.New("no test examples were scored")
	}
	return float64(correct) / float64(total), nil
}

// scoreTask fits centroids on the train split and classifies the test
// split.
func scoreTask(task *meta.Task) (correct, total int, err error) {
	if len(task.Train) == 0 || len(task.Test) == 0 {
		return 0, 0, errors.New("task has an empty split")
	}
	dim := len(task.Train[0].Row)

	sums := make(map[int][]float32)
	counts := make(map[int]int)
	for _, ex := range task.Train {
		if len(ex.Row) != dim {
			return 0, 0, fmt.Errorf("inconsistent feature dimension: expected %d, got %d", dim, len(ex.Row))
		}
		sum, ok := sums[ex.Target]
		if !ok {
			sum = make([]float32, dim)
			sums[ex.Target] = sum
		}
		for j, v := range ex.Row {
			sum[j] += v
		}
		counts[ex.Target]++
	}
	for target := range sums {
		inv := float32(1.0 / float64(counts[target]))
		sum := sums[target]
		for j := range sum {
			sum[j] *= inv
		}
	}

	for _, ex := range task.Test {
		if len(ex.Row) != dim {
			return 0, 0, fmt.Errorf("inconsistent feature dimension: expected %d, got %d", dim, len(ex.Row))
		}
		best, bestDist := -1, float32(0)
		for target, centroid := range sums {
			dist := float32(0)
			for j, v := range ex.Row {
				d := v - centroid[j]
				dist += d * d
			}
			if best == -1 || dist < bestDist {
				best, bestDist = target, dist
			}
		}
		if best == ex.Target {
			correct++
		}
		total++
	}
	return correct, total, nil
}
