// Package trajectory loads predicted trajectories from the per-token
// prediction caches written by the external planner.
package trajectory

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Pose is one trajectory sample in the ego frame: x forward, y lateral,
// heading in radians.
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

// Trajectory is an ordered sequence of future poses for one token.
type Trajectory struct {
	Poses []Pose
}

// Len returns the number of poses.
func (t *Trajectory) Len() int { return len(t.Poses) }

// XYs returns the pose positions as parallel x and y slices.
func (t *Trajectory) XYs() (xs, ys []float64) {
	xs = make([]float64, len(t.Poses))
	ys = make([]float64, len(t.Poses))
	for i, p := range t.Poses {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// Decode builds a Trajectory from a npy payload. Accepted shapes are
// [T, 3] (x, y, heading), [T, 2] (x, y) and flat [3T].
func Decode(data []byte) (*Trajectory, error) {
	values, shape, err := parseNPY(data)
	if err != nil {
		return nil, err
	}

	cols := 3
	switch len(shape) {
	case 2:
		cols = shape[1]
		if cols != 2 && cols != 3 {
			return nil, fmt.Errorf("unsupported trajectory width %d", cols)
		}
	case 1:
		if shape[0]%3 != 0 {
			return nil, fmt.Errorf("flat trajectory length %d is not a multiple of 3", shape[0])
		}
	}

	n := len(values) / cols
	poses := make([]Pose, n)
	for i := 0; i < n; i++ {
		row := values[i*cols : (i+1)*cols]
		poses[i] = Pose{X: row[0], Y: row[1]}
		if cols == 3 {
			poses[i].Heading = row[2]
		}
	}

	return &Trajectory{Poses: poses}, nil
}

// Load reads <dir>/<token>.npy. A missing file is not an error: it
// returns (nil, nil) so callers can skip the overlay, matching the
// optional-prediction behavior of the plot entry point.
func Load(dir, token string) (*Trajectory, error) {
	path := filepath.Join(dir, token+".npy")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read trajectory %s: %w", path, err)
	}

	traj, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode trajectory %s: %w", path, err)
	}
	return traj, nil
}
