package dataset_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/heartlens/internal/dataset"
)

const heartHeader = "Age,Sex,ChestPainType,RestingBP,Cholesterol,FastingBS,RestingECG,MaxHR,ExerciseAngina,Oldpeak,ST_Slope,HeartDisease"

var heartRows = []string{
	heartHeader,
	"40,M,ATA,140,289,0,Normal,172,N,0,Up,0",
	"49,F,NAP,160,180,0,Normal,156,N,1,Flat,1",
	"37,M,ATA,130,283,0,ST,98,N,0,Up,0",
	"48,F,ASY,138,214,0,Normal,108,Y,1.5,Flat,1",
	"54,M,NAP,150,195,0,Normal,122,N,0,Up,0",
	"63,M,ASY,250,0,1,LVH,,Y,2,Flat,1",
	",F,ATA,,250,0,Normal,170,N,0,Up,0",
	"40,M,ATA,140,289,0,Normal,172,N,0,Up,0",
}

func writeCSV(t *testing.T, name string, lines []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	tbl, err := dataset.LoadCSV(writeCSV(t, "heart.csv", heartRows), dataset.DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, "heart.csv", tbl.Name)
	assert.Equal(t, 8, tbl.Rows())
	assert.Len(t, tbl.Columns, 12)

	age, err := tbl.Column(dataset.Age)
	require.NoError(t, err)
	assert.Equal(t, dataset.Numeric, age.Kind)
	assert.Equal(t, 40.0, age.Nums[0])
	assert.True(t, math.IsNaN(age.Nums[6]), "empty cell should load as missing")
	assert.Equal(t, 1, age.MissingCount())

	sex, err := tbl.Column(dataset.Sex)
	require.NoError(t, err)
	assert.Equal(t, dataset.Categorical, sex.Kind)
	assert.Equal(t, []string{"M", "F", "M", "F", "M", "M", "F", "M"}, sex.Cats)

	oldpeak, err := tbl.Column(dataset.Oldpeak)
	require.NoError(t, err)
	assert.False(t, oldpeak.Integral())
	hd, err := tbl.Column(dataset.HeartDisease)
	require.NoError(t, err)
	assert.True(t, hd.Integral())
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	lines := []string{
		"Age,Sex,ChestPainType,RestingBP,Cholesterol,FastingBS,RestingECG,MaxHR,ExerciseAngina,Oldpeak,ST_Slope",
		"40,M,ATA,140,289,0,Normal,172,N,0,Up",
	}
	_, err := dataset.LoadCSV(writeCSV(t, "heart.csv", lines), dataset.DefaultLoadOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
	assert.Contains(t, err.Error(), "HeartDisease")
}

func TestLoadCSV_MalformedNumber(t *testing.T) {
	lines := []string{heartHeader, "forty,M,ATA,140,289,0,Normal,172,N,0,Up,0"}
	_, err := dataset.LoadCSV(writeCSV(t, "heart.csv", lines), dataset.DefaultLoadOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column Age")
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := dataset.LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), dataset.DefaultLoadOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCSV_TSVAndExtraColumns(t *testing.T) {
	lines := []string{
		strings.ReplaceAll(heartHeader, ",", "\t") + "\tSite\tWeight",
		strings.ReplaceAll("40,M,ATA,140,289,0,Normal,172,N,0,Up,0", ",", "\t") + "\tnorth\t80",
		strings.ReplaceAll("49,F,NAP,160,180,0,Normal,156,N,1,Flat,1", ",", "\t") + "\tsouth\t",
	}
	tbl, err := dataset.LoadCSV(writeCSV(t, "heart.tsv", lines), dataset.LoadOptions{})
	require.NoError(t, err)
	site, err := tbl.Column("Site")
	require.NoError(t, err)
	assert.Equal(t, dataset.Categorical, site.Kind)
	weight, err := tbl.Column("Weight")
	require.NoError(t, err)
	assert.Equal(t, dataset.Numeric, weight.Kind)
	assert.True(t, weight.Missing(1))
}

func TestFilterAndRowKey(t *testing.T) {
	tbl, err := dataset.ReadCSV(strings.NewReader(strings.Join(heartRows, "\n")), ',', nil)
	require.NoError(t, err)
	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(7))
	assert.NotEqual(t, tbl.RowKey(0), tbl.RowKey(1))

	males := tbl.Filter(func(i int) bool { return tbl.Columns[1].Cats[i] == "M" })
	assert.Equal(t, 5, males.Rows())
	assert.Equal(t, 8, tbl.Rows(), "filter must not modify the source")
}

func TestWriteCSV(t *testing.T) {
	tbl, err := dataset.ReadCSV(strings.NewReader(strings.Join(heartRows[:3], "\n")), ',', nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	assert.Equal(t, strings.Join(heartRows[:3], "\n")+"\n", buf.String())

	out := filepath.Join(t.TempDir(), "nested", "clean.csv")
	require.NoError(t, tbl.SaveCSV(out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), heartHeader))
}
