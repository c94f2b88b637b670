// Package ml implements the classifier stack: CART decision trees, a random
// forest over them, stratified data splitting, cross-validated grid search,
// and classification metrics. Class labels are dense integer ids 0..k-1;
// callers keep the id->name mapping.
package ml

import (
	"math"
	"math/rand"
	"sort"
)

// Config holds the tunable hyperparameters of a forest.
type Config struct {
	// NEstimators is the number of trees.
	NEstimators int `json:"n_estimators"`
	// MaxDepth limits tree depth; 0 means unlimited.
	MaxDepth int `json:"max_depth"`
	// MinSamplesSplit is the minimum node size eligible for splitting.
	MinSamplesSplit int `json:"min_samples_split"`
	// MinSamplesLeaf is the minimum sample count either side of a split.
	MinSamplesLeaf int `json:"min_samples_leaf"`
	// Seed drives all randomness (bootstrap, feature subsets); a fixed
	// seed makes training fully deterministic.
	Seed int64 `json:"seed"`
}

// DefaultConfig mirrors the baseline used before grid search.
func DefaultConfig() Config {
	return Config{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// node is one tree node in the flattened node array. Leaves have
// Feature == -1 and carry the class distribution of their training samples.
type node struct {
	Feature   int       `json:"f"`
	Threshold float64   `json:"t"`
	Left      int       `json:"l"`
	Right     int       `json:"r"`
	Dist      []float64 `json:"d,omitempty"`
}

// Tree is a CART classification tree using Gini impurity, grown over a
// random feature subset at each node.
type Tree struct {
	Nodes []node `json:"nodes"`
}

// treeBuilder carries the immutable training state during growth.
type treeBuilder struct {
	X          [][]float64
	y          []int
	numClasses int
	cfg        Config
	maxFeats   int
	rng        *rand.Rand
	nodes      []node
}

// growTree fits one tree on the given sample indices.
func growTree(X [][]float64, y []int, idx []int, numClasses int, cfg Config, rng *rand.Rand) Tree {
	numFeatures := 0
	if len(X) > 0 {
		numFeatures = len(X[0])
	}

	// sqrt(p) features per split, the standard choice for classification.
	maxFeats := int(math.Sqrt(float64(numFeatures)))
	if maxFeats < 1 {
		maxFeats = 1
	}

	b := &treeBuilder{
		X:          X,
		y:          y,
		numClasses: numClasses,
		cfg:        cfg,
		maxFeats:   maxFeats,
		rng:        rng,
	}
	b.build(idx, 1)
	return Tree{Nodes: b.nodes}
}

// build recursively grows the subtree for idx and returns its node index.
func (b *treeBuilder) build(idx []int, depth int) int {
	counts := b.classCounts(idx)

	if b.shouldStop(idx, counts, depth) {
		return b.leaf(counts, len(idx))
	}

	feature, threshold, ok := b.bestSplit(idx, counts)
	if !ok {
		return b.leaf(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	self := len(b.nodes)
	b.nodes = append(b.nodes, node{Feature: feature, Threshold: threshold})

	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[self].Left = l
	b.nodes[self].Right = r
	return self
}

func (b *treeBuilder) shouldStop(idx []int, counts []float64, depth int) bool {
	if len(idx) < b.cfg.MinSamplesSplit {
		return true
	}
	if b.cfg.MaxDepth > 0 && depth > b.cfg.MaxDepth {
		return true
	}
	// Pure node.
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

// leaf appends a leaf node holding the normalized class distribution.
func (b *treeBuilder) leaf(counts []float64, n int) int {
	dist := make([]float64, len(counts))
	if n > 0 {
		for i, c := range counts {
			dist[i] = c / float64(n)
		}
	}
	b.nodes = append(b.nodes, node{Feature: -1, Dist: dist})
	return len(b.nodes) - 1
}

func (b *treeBuilder) classCounts(idx []int) []float64 {
	counts := make([]float64, b.numClasses)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

// bestSplit searches a random subset of features for the split with the
// largest Gini impurity decrease that respects MinSamplesLeaf.
func (b *treeBuilder) bestSplit(idx []int, counts []float64) (feature int, threshold float64, ok bool) {
	n := float64(len(idx))
	parentGini := gini(counts, n)

	bestGain := 0.0
	numFeatures := len(b.X[0])

	for _, f := range b.sampleFeatures(numFeatures) {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.Slice(sorted, func(a, c int) bool {
			return b.X[sorted[a]][f] < b.X[sorted[c]][f]
		})

		leftCounts := make([]float64, b.numClasses)
		rightCounts := make([]float64, b.numClasses)
		copy(rightCounts, counts)

		for pos := 0; pos < len(sorted)-1; pos++ {
			cls := b.y[sorted[pos]]
			leftCounts[cls]++
			rightCounts[cls]--

			cur, next := b.X[sorted[pos]][f], b.X[sorted[pos+1]][f]
			if cur == next {
				continue
			}

			nLeft := pos + 1
			nRight := len(sorted) - nLeft
			if nLeft < b.cfg.MinSamplesLeaf || nRight < b.cfg.MinSamplesLeaf {
				continue
			}

			gain := parentGini -
				(float64(nLeft)/n)*gini(leftCounts, float64(nLeft)) -
				(float64(nRight)/n)*gini(rightCounts, float64(nRight))

			if gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (cur + next) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

// sampleFeatures draws maxFeats distinct feature indexes.
func (b *treeBuilder) sampleFeatures(numFeatures int) []int {
	if b.maxFeats >= numFeatures {
		all := make([]int, numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := b.rng.Perm(numFeatures)
	return perm[:b.maxFeats]
}

// gini computes the Gini impurity for the class counts of a node of size n.
func gini(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := c / n
		sum += p * p
	}
	return 1 - sum
}

// predictProba walks the tree for x and returns the leaf class distribution.
func (t *Tree) predictProba(x []float64) []float64 {
	i := 0
	for {
		nd := t.Nodes[i]
		if nd.Feature < 0 {
			return nd.Dist
		}
		if x[nd.Feature] <= nd.Threshold {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}
