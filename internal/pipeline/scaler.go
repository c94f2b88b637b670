package pipeline

import "gonum.org/v1/gonum/stat"

// StandardScaler standardizes columns with the per-column mean and standard
// deviation computed once at fit time. Inference reuses those exact moments;
// there is no refitting.
type StandardScaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column moments over the row-major matrix X.
// Columns with zero variance get a standard deviation of 1 so constant
// features standardize to 0 instead of NaN.
func FitScaler(X [][]float64) *StandardScaler {
	if len(X) == 0 {
		return &StandardScaler{}
	}

	cols := len(X[0])
	s := &StandardScaler{
		Means: make([]float64, cols),
		Stds:  make([]float64, cols),
	}

	col := make([]float64, len(X))
	for j := 0; j < cols; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Means[j] = stat.Mean(col, nil)
		sd := stat.PopStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		s.Stds[j] = sd
	}
	return s
}

// Transform returns a standardized copy of the vector x.
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Means[j]) / s.Stds[j]
	}
	return out
}

// TransformAll standardizes every row of X, returning a new matrix.
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}
