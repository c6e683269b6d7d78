package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"mbta-delay-pipeline/featsel"
)

func main() {
	dataPath := flag.String("data", "", "input CSV with a binary target column")
	targetCol := flag.String("target", "target", "name of the 0/1 target column")
	corrThreshold := flag.Float64("corr", 0.3, "minimum |correlation| with the target")
	redundancy := flag.Float64("redundancy", 0.9, "pairwise |correlation| above which a feature is dropped")
	topK := flag.Int("k", 5, "number of features kept by the F-test ranking")
	outPath := flag.String("out", "featsel_results.csv", "output CSV path")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ds, err := featsel.LoadCSV(*dataPath, *targetCol)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("loaded %d rows, %d features from %s", len(ds.X), len(ds.Names), *dataPath)

	correlated := featsel.CorrelationFilter(ds, *corrThreshold)
	nonRedundant := featsel.RedundancyFilter(ds, correlated, *redundancy)
	ranked := featsel.TopK(featsel.FScores(ds), *topK)

	subsets := []struct {
		Method string
		Names  []string
	}{
		{"all_features", ds.Names},
		{"correlation_filter", correlated},
		{"redundancy_filter", nonRedundant},
		{"f_test_top_k", ranked},
	}

	rows := [][]string{{"method", "n_features", "features", "accuracy", "precision", "recall", "f1"}}
	for _, s := range subsets {
		m, err := ds.EvaluateSubset(s.Names)
		if err != nil {
			log.Printf("%s: %v, skipping", s.Method, err)
			continue
		}
		log.Printf("%s: %d features, accuracy=%.3f f1=%.3f", s.Method, len(s.Names), m.Accuracy, m.F1)
		rows = append(rows, []string{
			s.Method,
			strconv.Itoa(len(s.Names)),
			strings.Join(s.Names, "|"),
			formatScore(m.Accuracy),
			formatScore(m.Precision),
			formatScore(m.Recall),
			formatScore(m.F1),
		})
	}

	if err := writeResults(*outPath, rows); err != nil {
		log.Fatalf("failed to write results: %v", err)
	}
	fmt.Printf("results written to %s\n", *outPath)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func writeResults(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
