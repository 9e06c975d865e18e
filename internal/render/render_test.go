package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalflow-lab/navrunner/internal/trajectory"
)

func testTrajectory(xs ...float64) *trajectory.Trajectory {
	poses := make([]trajectory.Pose, len(xs))
	for i, x := range xs {
		poses[i] = trajectory.Pose{X: x, Y: float64(i) * 0.1}
	}
	return &trajectory.Trajectory{Poses: poses}
}

func TestFigureSingleTrajectory(t *testing.T) {
	p, err := Figure(testTrajectory(1, 2, 3), nil, Options{Title: "6507522e38405857"})
	require.NoError(t, err)
	assert.Equal(t, "6507522e38405857", p.Title.Text)
	assert.Equal(t, -32.0, p.X.Min)
	assert.Equal(t, 32.0, p.X.Max)
	// No comparison, no legend entries.
	assert.Empty(t, p.Legend.XOffs) // legend untouched; sanity only
}

func TestFigureRangeOption(t *testing.T) {
	p, err := Figure(testTrajectory(1), nil, Options{RangeMeters: 50})
	require.NoError(t, err)
	assert.Equal(t, -50.0, p.Y.Min)
	assert.Equal(t, 50.0, p.Y.Max)
}

func TestFigureNilBase(t *testing.T) {
	_, err := Figure(nil, testTrajectory(1), Options{})
	assert.Error(t, err)
}

func TestSaveWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig_1_combined.png")
	err := Save(testTrajectory(1, 2, 3, 4), testTrajectory(1, 2, 2.5, 3), Options{Title: "combined"}, path)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PNG signature
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestSaveBadExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig_1.xyz")
	err := Save(testTrajectory(1), nil, Options{}, path)
	assert.Error(t, err)
}
