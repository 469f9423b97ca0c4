package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/KaramelBytes/heartlens/internal/analysis"
	"github.com/KaramelBytes/heartlens/internal/config"
	"github.com/KaramelBytes/heartlens/internal/dataset"
	"github.com/KaramelBytes/heartlens/internal/scale"
)

const heartCSV = `Age,Sex,ChestPainType,RestingBP,Cholesterol,FastingBS,RestingECG,MaxHR,ExerciseAngina,Oldpeak,ST_Slope,HeartDisease
40,M,ATA,140,289,0,Normal,172,N,0,Up,0
49,F,NAP,160,180,0,Normal,156,N,1,Flat,1
37,M,ATA,130,283,0,ST,98,N,0,Up,0
48,F,ASY,138,214,0,Normal,108,Y,1.5,Flat,1
54,M,NAP,150,195,0,Normal,122,N,0,Up,0
63,M,ASY,250,0,1,LVH,,Y,2,Flat,1
,F,ATA,,250,0,Normal,170,N,0,Up,0
40,M,ATA,140,289,0,Normal,172,N,0,Up,0
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heart.csv")
	require.NoError(t, os.WriteFile(path, []byte(heartCSV), 0o644))
	return path
}

func TestRun(t *testing.T) {
	r := New(DefaultOptions(), zaptest.NewLogger(t))
	res, err := r.Run(writeFixture(t))
	require.NoError(t, err)

	assert.Equal(t, 8, res.Raw.Rows())
	assert.Equal(t, 7, res.Cleaned.Rows())
	assert.Equal(t, 1, res.Stats.DuplicatesDropped)
	require.Contains(t, res.Scaling, dataset.Age)
	require.Contains(t, res.Scaling, dataset.Cholesterol)

	// every column is numeric after cleaning, so all twelve are correlated
	assert.Len(t, res.Matrix.Columns, 12)
	require.Len(t, res.Ranked, 12)
	assert.Equal(t, dataset.HeartDisease, res.Ranked[0].Feature)
	assert.Equal(t, 1.0, res.Ranked[0].R)
	for i := 2; i < len(res.Ranked); i++ {
		assert.GreaterOrEqual(t, res.Ranked[i-1].R, res.Ranked[i].R)
	}

	// scaling is linear, so the correlation matches the unscaled column
	age, _ := res.Cleaned.Column(dataset.Age)
	hd, _ := res.Cleaned.Column(dataset.HeartDisease)
	r0, err := res.Matrix.At(dataset.Age, dataset.HeartDisease)
	require.NoError(t, err)
	assert.InDelta(t, analysis.Pearson(age.Nums, hd.Nums), r0, 1e-12)
}

func TestPrepare_NoCorrelation(t *testing.T) {
	opt := DefaultOptions()
	opt.Scaler = scale.None
	res, err := New(opt, nil).Prepare(writeFixture(t))
	require.NoError(t, err)
	assert.Nil(t, res.Matrix)
	assert.Empty(t, res.Scaling)
	age, _ := res.Cleaned.Column(dataset.Age)
	assert.Equal(t, 40.0, age.Nums[0])
}

func TestRun_UnknownOutcome(t *testing.T) {
	opt := DefaultOptions()
	opt.Outcome = "Outcome"
	_, err := New(opt, nil).Run(writeFixture(t))
	assert.True(t, errors.Is(err, analysis.ErrUnknownColumn))
}

func TestRun_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	text := strings.Replace(heartCSV, "RestingECG,", "ECG,", 1)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	_, err := New(DefaultOptions(), nil).Run(path)
	assert.True(t, errors.Is(err, dataset.ErrMissingColumn))
}

func TestFromConfig(t *testing.T) {
	opt, err := FromConfig(&config.Global{
		Scaler:              "minmax",
		ScaleColumns:        []string{"MaxHR"},
		DropZeroCholesterol: true,
		RestingBPCeiling:    180,
		Outcome:             "Target",
	})
	require.NoError(t, err)
	assert.Equal(t, scale.MinMax, opt.Scaler)
	assert.Equal(t, []string{"MaxHR"}, opt.ScaleColumns)
	assert.True(t, opt.Clean.DropZeroCholesterol)
	assert.Equal(t, 180.0, opt.Clean.ClipCeiling)
	assert.Equal(t, "Target", opt.Outcome)

	_, err = FromConfig(&config.Global{Scaler: "robust"})
	assert.True(t, errors.Is(err, scale.ErrUnknownMethod))

	opt, err = FromConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().Outcome, opt.Outcome)
}
