package featsel

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CorrelationFilter keeps the features whose absolute Pearson correlation
// with the target meets the threshold. Constant features correlate NaN and
// are dropped.
func CorrelationFilter(ds *Dataset, threshold float64) []string {
	var kept []string
	for i, name := range ds.Names {
		r := stat.Correlation(ds.Column(i), ds.Target, nil)
		if !math.IsNaN(r) && math.Abs(r) >= threshold {
			kept = append(kept, name)
		}
	}
	return kept
}

// RedundancyFilter drops the later feature of every pair whose absolute
// pairwise correlation exceeds the threshold, keeping first-listed features.
func RedundancyFilter(ds *Dataset, names []string, threshold float64) []string {
	dropped := make(map[string]bool)
	for i := 0; i < len(names); i++ {
		if dropped[names[i]] {
			continue
		}
		ci := ds.Column(ds.index(names[i]))
		for j := i + 1; j < len(names); j++ {
			if dropped[names[j]] {
				continue
			}
			r := stat.Correlation(ci, ds.Column(ds.index(names[j])), nil)
			if !math.IsNaN(r) && math.Abs(r) > threshold {
				dropped[names[j]] = true
			}
		}
	}
	var kept []string
	for _, name := range names {
		if !dropped[name] {
			kept = append(kept, name)
		}
	}
	return kept
}

// Score pairs a feature name with its ANOVA F-statistic against the
// binary target.
type Score struct {
	Name string
	F    float64
}

// FScores computes the one-way ANOVA F-statistic of every feature split
// by the two target classes. Features with no within-group variance get
// F = +Inf when the group means differ.
func FScores(ds *Dataset) []Score {
	scores := make([]Score, len(ds.Names))
	for i, name := range ds.Names {
		scores[i] = Score{Name: name, F: fStatistic(ds.Column(i), ds.Target)}
	}
	return scores
}

// TopK returns the names of the k highest-scoring features, ties broken
// by original order.
func TopK(scores []Score, k int) []string {
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].F > sorted[j].F })

	if k > len(sorted) {
		k = len(sorted)
	}
	names := make([]string, k)
	for i := 0; i < k; i++ {
		names[i] = sorted[i].Name
	}
	return names
}

func fStatistic(values, target []float64) float64 {
	var g0, g1 []float64
	for i, v := range values {
		if target[i] == 0 {
			g0 = append(g0, v)
		} else {
			g1 = append(g1, v)
		}
	}
	if len(g0) == 0 || len(g1) == 0 {
		return 0
	}

	grand := stat.Mean(values, nil)
	m0 := stat.Mean(g0, nil)
	m1 := stat.Mean(g1, nil)

	ssb := float64(len(g0))*(m0-grand)*(m0-grand) + float64(len(g1))*(m1-grand)*(m1-grand)

	var ssw float64
	for _, v := range g0 {
		ssw += (v - m0) * (v - m0)
	}
	for _, v := range g1 {
		ssw += (v - m1) * (v - m1)
	}

	dfWithin := float64(len(values) - 2)
	if dfWithin <= 0 {
		return 0
	}
	if ssw == 0 {
		if ssb == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return ssb / (ssw / dfWithin)
}
