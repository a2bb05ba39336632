package model

import (
	"context"
	"fmt"
)

// tree is one decision tree in the flat array layout used by scikit-learn:
// node i is a leaf when left[i] == -1, otherwise a sample goes left when
// x[feature[i]] <= threshold[i]. value[i] holds per-class weights at the node.
type tree struct {
	left      []int
	right     []int
	feature   []int
	threshold []float64
	value     [][2]float64
}

// leafDistribution walks the tree and returns the normalized class distribution.
func (t *tree) leafDistribution(x []float64) ([2]float64, error) {
	node := 0
	for steps := 0; steps <= len(t.left); steps++ {
		if t.left[node] == -1 {
			v := t.value[node]
			total := v[0] + v[1]
			if total <= 0 {
				return [2]float64{}, fmt.Errorf("leaf %d has no weight", node)
			}
			return [2]float64{v[0] / total, v[1] / total}, nil
		}
		if x[t.feature[node]] <= t.threshold[node] {
			node = t.left[node]
		} else {
			node = t.right[node]
		}
	}
	return [2]float64{}, fmt.Errorf("tree walk did not reach a leaf")
}

// Forest averages the class distributions of its trees.
type Forest struct {
	features    []string
	version     string
	description string
	numFeatures int
	trees       []tree
}

func (m *Forest) Features() []string { return m.features }
func (m *Forest) NumFeatures() int   { return m.numFeatures }
func (m *Forest) Version() string    { return m.version }

func (m *Forest) Description() string { return m.description }

// Predict returns the class with the larger mean probability; a tie is NotAtRisk.
func (m *Forest) Predict(_ context.Context, features []float64) (Prediction, error) {
	if err := checkCount(features, m.numFeatures); err != nil {
		return Prediction{}, err
	}

	var sum [2]float64
	for i := range m.trees {
		dist, err := m.trees[i].leafDistribution(features)
		if err != nil {
			return Prediction{}, fmt.Errorf("tree %d: %w", i, err)
		}
		sum[0] += dist[0]
		sum[1] += dist[1]
	}
	n := float64(len(m.trees))
	p0, p1 := sum[0]/n, sum[1]/n

	label := NotAtRisk
	if p1 > p0 {
		label = AtRisk
	}
	return Prediction{Label: label, Probability: p1, HasProbability: true}, nil
}
