// Package seed generates the synthetic classification dataset uploaded to
// the raw prefix before the pipeline first runs.
package seed

import (
	"math/rand"
	"strconv"
	"strings"
)

const (
	DefaultRows     = 200
	DefaultFeatures = 3
)

// BuildCSV renders a synthetic dataset: one header row f1..fN,label and
// `rows` data rows. Each feature is uniform in [0,1) rounded to four
// decimals; the label is 1 when the feature sum exceeds half the feature
// count. The rng is injected so tests can fix the output.
func BuildCSV(rows, features int, rng *rand.Rand) string {
	var b strings.Builder

	for i := 0; i < features; i++ {
		b.WriteString("f" + strconv.Itoa(i+1) + ",")
	}
	b.WriteString("label\n")

	for i := 0; i < rows; i++ {
		values, label := generateRow(features, rng)
		for _, v := range values {
			b.WriteString(v + ",")
		}
		b.WriteString(strconv.Itoa(label) + "\n")
	}

	return b.String()
}

func generateRow(features int, rng *rand.Rand) ([]string, int) {
	values := make([]string, features)
	sum := 0.0
	for i := range values {
		// Round first so the label matches the written values exactly.
		v, _ := strconv.ParseFloat(strconv.FormatFloat(rng.Float64(), 'f', 4, 64), 64)
		sum += v
		values[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}

	label := 0
	if sum > float64(features)*0.5 {
		label = 1
	}
	return values, label
}
