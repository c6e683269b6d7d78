package featsel

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LogReg is a logistic-regression classifier trained by batch gradient
// descent on standardized features.
type LogReg struct {
	Weights *mat.VecDense
	Bias    float64
}

// TrainLogReg fits weights on a row-major feature matrix and 0/1 labels.
func TrainLogReg(X [][]float64, y []float64, learningRate float64, epochs int) *LogReg {
	n := len(X)
	if n == 0 {
		return &LogReg{Weights: mat.NewVecDense(1, nil)}
	}
	d := len(X[0])

	flat := make([]float64, 0, n*d)
	for _, row := range X {
		flat = append(flat, row...)
	}
	xm := mat.NewDense(n, d, flat)
	w := mat.NewVecDense(d, nil)
	bias := 0.0

	p := mat.NewVecDense(n, nil)
	grad := mat.NewVecDense(d, nil)
	for epoch := 0; epoch < epochs; epoch++ {
		p.MulVec(xm, w)
		var biasGrad float64
		for i := 0; i < n; i++ {
			err := sigmoid(p.AtVec(i)+bias) - y[i]
			p.SetVec(i, err)
			biasGrad += err
		}
		grad.MulVec(xm.T(), p)
		for j := 0; j < d; j++ {
			w.SetVec(j, w.AtVec(j)-learningRate*grad.AtVec(j)/float64(n))
		}
		bias -= learningRate * biasGrad / float64(n)
	}
	return &LogReg{Weights: w, Bias: bias}
}

// Predict returns the 0/1 class at the usual 0.5 threshold.
func (m *LogReg) Predict(row []float64) float64 {
	z := m.Bias
	for j, v := range row {
		z += m.Weights.AtVec(j) * v
	}
	if sigmoid(z) >= 0.5 {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Metrics are the usual binary classification scores with class 1 as
// positive.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

func evaluate(m *LogReg, X [][]float64, y []float64) Metrics {
	var tp, tn, fp, fn float64
	for i, row := range X {
		pred := m.Predict(row)
		switch {
		case pred == 1 && y[i] == 1:
			tp++
		case pred == 0 && y[i] == 0:
			tn++
		case pred == 1 && y[i] == 0:
			fp++
		default:
			fn++
		}
	}
	var out Metrics
	if total := tp + tn + fp + fn; total > 0 {
		out.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		out.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		out.Recall = tp / (tp + fn)
	}
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}
	return out
}

// standardize rescales every column in place to zero mean and unit
// variance, using train-set statistics for both splits. Constant columns
// are left centered only.
func standardize(train, test [][]float64) {
	if len(train) == 0 {
		return
	}
	d := len(train[0])
	col := make([]float64, len(train))
	for j := 0; j < d; j++ {
		for i, row := range train {
			col[i] = row[j]
		}
		mean := stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		for _, rows := range [][][]float64{train, test} {
			for _, row := range rows {
				row[j] -= mean
				if std > 0 {
					row[j] /= std
				}
			}
		}
	}
}

// splitIndices shuffles row indices with a fixed seed and cuts them at
// the train ratio, so repeated runs see the same split.
func splitIndices(n int, trainRatio float64) (train, test []int) {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	cut := int(float64(n) * trainRatio)
	if cut < 1 {
		cut = 1
	}
	if cut >= n {
		cut = n - 1
	}
	return idx[:cut], idx[cut:]
}

// EvaluateSubset trains a classifier on the named features and reports
// held-out metrics on a deterministic 70/30 split.
func (ds *Dataset) EvaluateSubset(names []string) (Metrics, error) {
	if len(names) == 0 {
		return Metrics{}, fmt.Errorf("empty feature subset")
	}
	X, err := ds.Subset(names)
	if err != nil {
		return Metrics{}, err
	}
	if len(X) < 4 {
		return Metrics{}, fmt.Errorf("need at least 4 rows, have %d", len(X))
	}

	trainIdx, testIdx := splitIndices(len(X), 0.7)
	pick := func(idx []int) ([][]float64, []float64) {
		xs := make([][]float64, len(idx))
		ys := make([]float64, len(idx))
		for i, r := range idx {
			row := make([]float64, len(X[r]))
			copy(row, X[r])
			xs[i] = row
			ys[i] = ds.Target[r]
		}
		return xs, ys
	}
	trainX, trainY := pick(trainIdx)
	testX, testY := pick(testIdx)

	standardize(trainX, testX)
	model := TrainLogReg(trainX, trainY, 0.1, 500)
	return evaluate(model, testX, testY), nil
}
