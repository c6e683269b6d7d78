package featsel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// syntheticDataset has one informative feature, a duplicate of it, and
// pure noise, so every selection method has an obvious right answer.
func syntheticDataset(rows int) *Dataset {
	ds := &Dataset{Names: []string{"signal", "signal_copy", "noise"}}
	for i := 0; i < rows; i++ {
		target := float64(i % 2)
		jitter := float64(i%5) * 0.01
		signal := -1.0 + jitter
		if target == 1 {
			signal = 1.0 + jitter
		}
		noise := float64((i*7)%11) - 5
		ds.X = append(ds.X, []float64{signal, signal + 0.001, noise})
		ds.Target = append(ds.Target, target)
	}
	return ds
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	content := "a,b,label\n1.5,2,0\n3,4.25,1\n5,6,1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadCSV(path, "label")
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(ds.Names) != 2 || ds.Names[0] != "a" || ds.Names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", ds.Names)
	}
	if len(ds.X) != 3 || len(ds.Target) != 3 {
		t.Fatalf("got %d rows, %d targets, want 3 each", len(ds.X), len(ds.Target))
	}
	if ds.X[1][1] != 4.25 {
		t.Errorf("X[1][1] = %v, want 4.25", ds.X[1][1])
	}
	if ds.Target[0] != 0 || ds.Target[2] != 1 {
		t.Errorf("Target = %v, want [0 1 1]", ds.Target)
	}
}

func TestLoadCSVErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("missing target column", func(t *testing.T) {
		path := write("missing.csv", "a,b\n1,2\n")
		if _, err := LoadCSV(path, "label"); err == nil {
			t.Error("expected error for missing target column")
		}
	})

	t.Run("non-binary target", func(t *testing.T) {
		path := write("nonbinary.csv", "a,label\n1,2\n")
		if _, err := LoadCSV(path, "label"); err == nil {
			t.Error("expected error for non-binary target")
		}
	})

	t.Run("non-numeric cell", func(t *testing.T) {
		path := write("text.csv", "a,label\nhello,1\n")
		if _, err := LoadCSV(path, "label"); err == nil {
			t.Error("expected error for non-numeric cell")
		}
	})
}

func TestCorrelationFilter(t *testing.T) {
	ds := syntheticDataset(40)
	kept := CorrelationFilter(ds, 0.5)
	if len(kept) != 2 || kept[0] != "signal" || kept[1] != "signal_copy" {
		t.Errorf("kept = %v, want [signal signal_copy]", kept)
	}
}

func TestRedundancyFilter(t *testing.T) {
	ds := syntheticDataset(40)
	kept := RedundancyFilter(ds, []string{"signal", "signal_copy", "noise"}, 0.9)
	if len(kept) != 2 || kept[0] != "signal" || kept[1] != "noise" {
		t.Errorf("kept = %v, want [signal noise]", kept)
	}
}

func TestFScoresAndTopK(t *testing.T) {
	ds := syntheticDataset(40)
	scores := FScores(ds)
	if len(scores) != 3 {
		t.Fatalf("got %d scores, want 3", len(scores))
	}

	byName := make(map[string]float64)
	for _, s := range scores {
		byName[s.Name] = s.F
	}
	if byName["signal"] <= byName["noise"] {
		t.Errorf("F(signal)=%v not greater than F(noise)=%v", byName["signal"], byName["noise"])
	}

	top := TopK(scores, 2)
	if len(top) != 2 || top[0] != "signal" || top[1] != "signal_copy" {
		t.Errorf("TopK = %v, want [signal signal_copy]", top)
	}

	if got := TopK(scores, 10); len(got) != 3 {
		t.Errorf("TopK beyond length = %v, want all 3", got)
	}
}

func TestFStatisticConstantFeature(t *testing.T) {
	values := []float64{2, 2, 2, 2}
	target := []float64{0, 1, 0, 1}
	if f := fStatistic(values, target); f != 0 {
		t.Errorf("fStatistic on constant feature = %v, want 0", f)
	}
}

func TestEvaluateMetrics(t *testing.T) {
	// Weight 1, bias 0: predicts 1 exactly when the feature is >= 0.
	m := &LogReg{Weights: mat.NewVecDense(1, []float64{1}), Bias: 0}
	X := [][]float64{{1}, {2}, {-1}, {-2}, {3}, {-3}}
	y := []float64{1, 0, 0, 0, 1, 1}

	got := evaluate(m, X, y)
	// tp=2 (rows 0,4), fp=1 (row 1), tn=2 (rows 2,3), fn=1 (row 5).
	if math.Abs(got.Accuracy-4.0/6.0) > 1e-9 {
		t.Errorf("Accuracy = %v, want %v", got.Accuracy, 4.0/6.0)
	}
	if math.Abs(got.Precision-2.0/3.0) > 1e-9 {
		t.Errorf("Precision = %v, want %v", got.Precision, 2.0/3.0)
	}
	if math.Abs(got.Recall-2.0/3.0) > 1e-9 {
		t.Errorf("Recall = %v, want %v", got.Recall, 2.0/3.0)
	}
	if math.Abs(got.F1-2.0/3.0) > 1e-9 {
		t.Errorf("F1 = %v, want %v", got.F1, 2.0/3.0)
	}
}

func TestSplitIndicesDeterministic(t *testing.T) {
	train1, test1 := splitIndices(20, 0.7)
	train2, test2 := splitIndices(20, 0.7)

	if len(train1) != 14 || len(test1) != 6 {
		t.Errorf("split sizes = %d/%d, want 14/6", len(train1), len(test1))
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatalf("train split differs at %d: %d vs %d", i, train1[i], train2[i])
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatalf("test split differs at %d: %d vs %d", i, test1[i], test2[i])
		}
	}
}

func TestEvaluateSubsetSeparable(t *testing.T) {
	ds := syntheticDataset(40)
	got, err := ds.EvaluateSubset([]string{"signal"})
	if err != nil {
		t.Fatalf("EvaluateSubset: %v", err)
	}
	if got.Accuracy != 1.0 {
		t.Errorf("Accuracy = %v, want 1.0 on a separable feature", got.Accuracy)
	}
}

func TestEvaluateSubsetErrors(t *testing.T) {
	ds := syntheticDataset(40)

	if _, err := ds.EvaluateSubset(nil); err == nil {
		t.Error("expected error for empty subset")
	}
	if _, err := ds.EvaluateSubset([]string{"nope"}); err == nil {
		t.Error("expected error for unknown feature")
	}
}
