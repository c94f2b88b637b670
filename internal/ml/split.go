package ml

import (
	"math"
	"math/rand"
)

// StratifiedSplit partitions sample indices into train and test sets,
// preserving the per-class label proportions. Deterministic for a fixed
// seed.
func StratifiedSplit(y []int, testFraction float64, seed int64) (train, test []int) {
	rng := rand.New(rand.NewSource(seed))

	for _, idx := range byClass(y) {
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})

		nTest := int(math.Round(testFraction * float64(len(idx))))
		if nTest >= len(idx) {
			nTest = len(idx) - 1
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}
	return train, test
}

// StratifiedKFold assigns sample indices to k folds, spreading each class
// round-robin across folds so label proportions stay roughly equal.
// Deterministic for a fixed seed.
func StratifiedKFold(y []int, k int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))
	folds := make([][]int, k)

	for _, idx := range byClass(y) {
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		for i, sample := range idx {
			f := i % k
			folds[f] = append(folds[f], sample)
		}
	}
	return folds
}

// byClass groups sample indices by label, ordered by class id so the
// grouping itself is deterministic.
func byClass(y []int) [][]int {
	maxClass := -1
	for _, c := range y {
		if c > maxClass {
			maxClass = c
		}
	}
	groups := make([][]int, maxClass+1)
	for i, c := range y {
		groups[c] = append(groups[c], i)
	}
	return groups
}

// gather selects the rows and labels at the given indices.
func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	gx := make([][]float64, len(idx))
	gy := make([]int, len(idx))
	for i, j := range idx {
		gx[i] = X[j]
		gy[i] = y[j]
	}
	return gx, gy
}
