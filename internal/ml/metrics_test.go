package ml

import (
	"math"
	"testing"
)

func TestEvaluatePerfectPrediction(t *testing.T) {
	y := []int{0, 1, 1, 0, 1}
	ev := Evaluate(y, y, []string{"a", "b"})

	if ev.Accuracy != 1 || ev.F1Macro != 1 || ev.PrecisionMacro != 1 || ev.RecallMacro != 1 {
		t.Fatalf("perfect prediction metrics = %+v", ev)
	}
	if ev.PerClass["a"].Support != 2 || ev.PerClass["b"].Support != 3 {
		t.Fatalf("supports = %+v", ev.PerClass)
	}
}

func TestEvaluateMixedPrediction(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}

	ev := Evaluate(yTrue, yPred, []string{"a", "b"})

	if math.Abs(ev.Accuracy-0.75) > 1e-12 {
		t.Errorf("accuracy = %v, want 0.75", ev.Accuracy)
	}

	a := ev.PerClass["a"]
	if a.Precision != 1 || a.Recall != 0.5 {
		t.Errorf("class a = %+v, want precision 1 recall 0.5", a)
	}
	b := ev.PerClass["b"]
	if math.Abs(b.Precision-2.0/3.0) > 1e-12 || b.Recall != 1 {
		t.Errorf("class b = %+v, want precision 2/3 recall 1", b)
	}

	if ev.Confusion[0][1] != 1 || ev.Confusion[0][0] != 1 || ev.Confusion[1][1] != 2 {
		t.Errorf("confusion = %v", ev.Confusion)
	}
}

func TestEvaluateNeverPredictedClass(t *testing.T) {
	yTrue := []int{0, 1, 1}
	yPred := []int{1, 1, 1}

	ev := Evaluate(yTrue, yPred, []string{"a", "b"})

	// Class a is never predicted: precision, recall, and F1 degrade to 0
	// rather than NaN.
	a := ev.PerClass["a"]
	if a.Precision != 0 || a.Recall != 0 || a.F1 != 0 {
		t.Fatalf("never-predicted class metrics = %+v, want zeros", a)
	}
	if math.IsNaN(ev.F1Macro) {
		t.Fatal("macro F1 is NaN")
	}
}

func TestEvaluateEmptyInput(t *testing.T) {
	ev := Evaluate(nil, nil, []string{"a", "b"})
	if ev.Accuracy != 0 {
		t.Fatalf("accuracy on empty input = %v, want 0", ev.Accuracy)
	}
}

func TestMacroF1MatchesEvaluate(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	ev := Evaluate(yTrue, yPred, []string{"a", "b", "c"})
	if got := MacroF1(yTrue, yPred, 3); got != ev.F1Macro {
		t.Fatalf("MacroF1 = %v, Evaluate F1Macro = %v", got, ev.F1Macro)
	}
}
