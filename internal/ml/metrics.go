package ml

import "strconv"

// ClassReport holds the per-class evaluation figures.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Evaluation is the full holdout evaluation: overall accuracy, macro
// averages, the per-class report, and the confusion matrix
// (rows = true class, columns = predicted class).
type Evaluation struct {
	Accuracy       float64                `json:"accuracy"`
	PrecisionMacro float64                `json:"precision_macro"`
	RecallMacro    float64                `json:"recall_macro"`
	F1Macro        float64                `json:"f1_macro"`
	PerClass       map[string]ClassReport `json:"per_class"`
	Confusion      [][]int                `json:"confusion_matrix"`
}

// Evaluate computes classification metrics for predictions yPred against
// ground truth yTrue, with class ids indexing into classes. Division by zero
// (a class never predicted, or absent from the truth) yields 0 for the
// affected metric rather than NaN.
func Evaluate(yTrue, yPred []int, classes []string) Evaluation {
	k := len(classes)
	confusion := make([][]int, k)
	for i := range confusion {
		confusion[i] = make([]int, k)
	}

	correct := 0
	for i := range yTrue {
		confusion[yTrue[i]][yPred[i]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	ev := Evaluation{
		PerClass:  make(map[string]ClassReport, k),
		Confusion: confusion,
	}
	if len(yTrue) > 0 {
		ev.Accuracy = float64(correct) / float64(len(yTrue))
	}

	for c := 0; c < k; c++ {
		tp := confusion[c][c]
		var fp, fn int
		for o := 0; o < k; o++ {
			if o == c {
				continue
			}
			fp += confusion[o][c]
			fn += confusion[c][o]
		}

		report := ClassReport{Support: tp + fn}
		if tp+fp > 0 {
			report.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			report.Recall = float64(tp) / float64(tp+fn)
		}
		if report.Precision+report.Recall > 0 {
			report.F1 = 2 * report.Precision * report.Recall / (report.Precision + report.Recall)
		}
		ev.PerClass[classes[c]] = report

		ev.PrecisionMacro += report.Precision
		ev.RecallMacro += report.Recall
		ev.F1Macro += report.F1
	}

	if k > 0 {
		ev.PrecisionMacro /= float64(k)
		ev.RecallMacro /= float64(k)
		ev.F1Macro /= float64(k)
	}
	return ev
}

// MacroF1 computes the macro-averaged F1 score over k classes, the scoring
// function used by the cross-validated grid search.
func MacroF1(yTrue, yPred []int, k int) float64 {
	classes := make([]string, k)
	for i := range classes {
		classes[i] = strconv.Itoa(i)
	}
	ev := Evaluate(yTrue, yPred, classes)
	return ev.F1Macro
}
