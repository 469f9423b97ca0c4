package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/heartlens/internal/analysis"
)

func init() { color.NoColor = true }

func TestClassify(t *testing.T) {
	cases := []struct {
		r    float64
		want string
	}{
		{0.55, "strong positive"},
		{0.5, "moderate positive"},
		{0.3, "moderate positive"},
		{0.2, "weak or negligible"},
		{0.0, "weak or negligible"},
		{-0.1, "weak or negligible"},
		{-0.2, "moderate negative"},
		{-0.3, "moderate negative"},
		{-0.5, "moderate negative"},
		{-0.6, "strong negative"},
		{math.NaN(), "weak or negligible"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.r).Label(), "r=%v", tc.r)
	}
}

func TestExplain(t *testing.T) {
	assert.NotEqual(t, noExplanation, Explain("Age"))
	assert.Equal(t, "No explanation available.", Explain("Weight"))
}

func TestWrite(t *testing.T) {
	corrs := []analysis.Correlation{
		{Feature: "HeartDisease", R: 1},
		{Feature: "ST_Slope", R: 0.55},
		{Feature: "Weight", R: 0.01},
		{Feature: "Cholesterol", R: -0.23},
		{Feature: "MaxHR", R: -0.6},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, corrs, DefaultOptions()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Correlations with Heart Disease (human-readable format):\n"))
	assert.NotContains(t, out, "--- HeartDisease ---")
	assert.Contains(t, out, "\n--- ST_Slope ---\n"+Explain("ST_Slope")+"\n")
	assert.Contains(t, out, "Correlation with Heart Disease: +0.55 (strong positive correlation, meaning higher values are strongly associated with heart disease)")
	assert.Contains(t, out, "--- Weight ---\nNo explanation available.\n")
	assert.Contains(t, out, "Correlation with Heart Disease: +0.01 (weak or negligible correlation")
	assert.Contains(t, out, "Correlation with Heart Disease: -0.60 (strong negative correlation")
	assert.Contains(t, out, "Cholesterol's correlation with Heart Disease: -0.23 (weak negative correlation")

	// features keep their ranked order
	assert.Less(t, strings.Index(out, "--- ST_Slope ---"), strings.Index(out, "--- Weight ---"))
	assert.Less(t, strings.Index(out, "--- Cholesterol ---"), strings.Index(out, "--- MaxHR ---"))
}

func TestWrite_NoFootnotes(t *testing.T) {
	opt := DefaultOptions()
	opt.Footnotes = false
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []analysis.Correlation{{Feature: "Cholesterol", R: 0.3}}, opt))
	assert.NotContains(t, buf.String(), "Cholesterol's correlation")
	assert.Contains(t, buf.String(), "moderate positive correlation")
}

func TestEntries(t *testing.T) {
	es := Entries([]analysis.Correlation{{Feature: "Y", R: 1}, {Feature: "Age", R: 0.28}}, "Y")
	require.Len(t, es, 1)
	assert.Equal(t, "Age", es[0].Feature)
	assert.Equal(t, ModeratePositive, es[0].Strength)
}

func TestWriteMatrix(t *testing.T) {
	m := &analysis.CorrMatrix{
		Columns: []string{"Age", "MaxHR"},
		Values:  [][]float64{{1, -0.38}, {-0.38, math.NaN()}},
	}
	var buf bytes.Buffer
	WriteMatrix(&buf, m)
	out := buf.String()
	assert.Contains(t, out, "Age")
	assert.Contains(t, out, "MaxHR")
	assert.Contains(t, out, "-0.38")
	assert.Contains(t, out, "1.00")
	assert.Contains(t, out, "n/a")
}

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	WriteRanking(&buf, []analysis.Correlation{{Feature: "Y", R: 1}, {Feature: "Oldpeak", R: 0.4}}, "Y")
	out := buf.String()
	assert.Contains(t, out, "Oldpeak")
	assert.Contains(t, out, "0.40")
	assert.Contains(t, out, "moderate positive")
	assert.NotContains(t, out, "| Y ")
}
