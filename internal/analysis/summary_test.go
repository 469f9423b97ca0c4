package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

func TestSummarize(t *testing.T) {
	tbl, err := dataset.NewTable("heart.csv",
		num("Age", 40, 50, math.NaN()),
		&dataset.Column{Name: "Sex", Kind: dataset.Categorical, Cats: []string{"M", "M", "F"}},
		num("Oldpeak", 0.123456789, 1, 2),
	)
	require.NoError(t, err)

	s := Summarize(tbl, 2)
	assert.Equal(t, 3, s.Rows)
	require.Len(t, s.Cols, 3)

	age := s.Cols[0]
	assert.Equal(t, 2, age.NonNull)
	assert.Equal(t, 1, age.Missing)
	assert.Equal(t, 40.0, age.Min)
	assert.Equal(t, 50.0, age.Max)
	assert.InDelta(t, 45, age.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(50), age.Std, 1e-12)

	sex := s.Cols[1]
	assert.Equal(t, 2, sex.Unique)
	assert.Equal(t, []CategoryCount{{"M", 2}, {"F", 1}}, sex.TopValues)

	assert.Len(t, s.Samples, 2)
	assert.Equal(t, []string{"Age still has 1 missing values"}, s.Warnings)

	md := s.Markdown()
	for _, want := range []string{"[DATASET SUMMARY]", "File: heart.csv", "Rows: 3", "[SCHEMA]", "[HEAD ROWS]", "[NOTES]", "M(2), F(1)", "| Age | Sex | Oldpeak |"} {
		assert.Contains(t, md, want)
	}
	assert.Contains(t, md, "0.1235")
}

func TestSummarize_DefaultSampleRows(t *testing.T) {
	tbl, err := dataset.NewTable("", num("x", 1, 2, 3, 4, 5, 6, 7))
	require.NoError(t, err)
	s := Summarize(tbl, 0)
	assert.Len(t, s.Samples, 5)
	assert.NotContains(t, s.Markdown(), "[NOTES]")
}
