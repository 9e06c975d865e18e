// Package runconfig loads the JSON run configuration shared by the
// batch tools: dataset paths, experiment identity, and the overrides
// passed to the external scoring and caching entry points.
package runconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/goalflow-lab/navrunner/internal/launch"
)

// Environment variables consumed when the corresponding paths are not
// set in the config file. They are assumed pre-set by the caller's
// shell environment and are not validated before use.
const (
	EnvDevkitRoot = "NAVSIM_DEVKIT_ROOT"
	EnvExpRoot    = "NAVSIM_EXP_ROOT"
)

// Entry points under the devkit root. The batch tools never implement
// any of this logic themselves; they only invoke it.
const (
	PlotScript         = "scripts/visualize/plot_token.py"
	PDMScoreScript     = "navsim/planning/script/run_pdm_score.py"
	DatasetCacheScript = "navsim/planning/script/run_dataset_caching.py"
	MetricCacheScript  = "navsim/planning/script/run_metric_caching.py"
)

// RunConfig is the root configuration for a batch run. All fields are
// pointers so a partial config file is safe: fields omitted from the
// JSON fall back to the defaults supplied by the Get* accessors.
type RunConfig struct {
	// Roots
	DevkitRoot *string `json:"navsim_devkit_root,omitempty"`
	ExpRoot    *string `json:"navsim_exp_root,omitempty"`

	// Dataset paths (externally owned; never created or validated here)
	DataPath        *string `json:"data_path,omitempty"`
	SensorBlobsPath *string `json:"sensor_blobs_path,omitempty"`
	TrajsDir        *string `json:"trajs_dir,omitempty"`
	TrajsDir2       *string `json:"trajs_dir2,omitempty"`
	OutputDir       *string `json:"output_dir,omitempty"`

	// Cache paths
	MetricCachePath       *string `json:"metric_cache_path,omitempty"`
	TrajectoriesCachePath *string `json:"trajectories_cache_path,omitempty"`
	CachePath             *string `json:"cache_path,omitempty"`
	RunIndexPath          *string `json:"run_index_path,omitempty"`

	// Run identity
	Agent          *string `json:"agent,omitempty"`
	CheckpointPath *string `json:"checkpoint_path,omitempty"`
	ExperimentName *string `json:"experiment_name,omitempty"`
	SceneFilter    *string `json:"scene_filter,omitempty"`
	Split          *string `json:"split,omitempty"`

	// Overrides for the caching entry points
	TimeHorizon   *float64 `json:"trajectory_sampling_time_horizon,omitempty"`
	FrameInterval *int     `json:"frame_interval,omitempty"`

	// Interpreter for the external entry points
	Python *string `json:"python,omitempty"`
}

// Load reads a RunConfig from a JSON file. The file must have a .json
// extension; parse and validation failures are returned wrapped.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks value ranges. Path existence is deliberately not
// checked: the paths are externally owned and the external programs
// surface their own errors for missing data.
func (c *RunConfig) Validate() error {
	if c.TimeHorizon != nil && *c.TimeHorizon <= 0 {
		return fmt.Errorf("trajectory_sampling_time_horizon must be positive, got %f", *c.TimeHorizon)
	}
	if c.FrameInterval != nil && *c.FrameInterval < 1 {
		return fmt.Errorf("frame_interval must be at least 1, got %d", *c.FrameInterval)
	}
	return nil
}

// GetDevkitRoot returns the devkit root, falling back to NAVSIM_DEVKIT_ROOT.
func (c *RunConfig) GetDevkitRoot() string {
	if c.DevkitRoot != nil && *c.DevkitRoot != "" {
		return *c.DevkitRoot
	}
	return os.Getenv(EnvDevkitRoot)
}

// GetExpRoot returns the experiment root, falling back to NAVSIM_EXP_ROOT.
func (c *RunConfig) GetExpRoot() string {
	if c.ExpRoot != nil && *c.ExpRoot != "" {
		return *c.ExpRoot
	}
	return os.Getenv(EnvExpRoot)
}

// GetDataPath returns the dataset log path.
func (c *RunConfig) GetDataPath() string {
	if c.DataPath == nil {
		return ""
	}
	return *c.DataPath
}

// GetSensorBlobsPath returns the sensor blobs directory.
func (c *RunConfig) GetSensorBlobsPath() string {
	if c.SensorBlobsPath == nil {
		return ""
	}
	return *c.SensorBlobsPath
}

// GetTrajsDir returns the primary trajectory-source directory.
func (c *RunConfig) GetTrajsDir() string {
	if c.TrajsDir == nil {
		return ""
	}
	return *c.TrajsDir
}

// GetTrajsDir2 returns the secondary trajectory-source directory, or ""
// when combined plots are not requested.
func (c *RunConfig) GetTrajsDir2() string {
	if c.TrajsDir2 == nil {
		return ""
	}
	return *c.TrajsDir2
}

// GetOutputDir returns the figure output directory or the default under
// the experiment root.
func (c *RunConfig) GetOutputDir() string {
	if c.OutputDir != nil && *c.OutputDir != "" {
		return *c.OutputDir
	}
	return filepath.Join(c.GetExpRoot(), "figures")
}

// GetMetricCachePath returns the metric cache path or the default under
// the experiment root.
func (c *RunConfig) GetMetricCachePath() string {
	if c.MetricCachePath != nil && *c.MetricCachePath != "" {
		return *c.MetricCachePath
	}
	return filepath.Join(c.GetExpRoot(), "metric_cache")
}

// GetTrajectoriesCachePath returns the trajectories cache path.
func (c *RunConfig) GetTrajectoriesCachePath() string {
	if c.TrajectoriesCachePath == nil {
		return ""
	}
	return *c.TrajectoriesCachePath
}

// GetCachePath returns the dataset cache path or the default under the
// experiment root.
func (c *RunConfig) GetCachePath() string {
	if c.CachePath != nil && *c.CachePath != "" {
		return *c.CachePath
	}
	return filepath.Join(c.GetExpRoot(), "training_cache")
}

// GetRunIndexPath returns the path of the local run index database, or
// "" when run recording is disabled.
func (c *RunConfig) GetRunIndexPath() string {
	if c.RunIndexPath == nil {
		return ""
	}
	return *c.RunIndexPath
}

// GetAgent returns the agent identifier.
func (c *RunConfig) GetAgent() string {
	if c.Agent == nil {
		return "goalflow_agent"
	}
	return *c.Agent
}

// GetCheckpointPath returns the agent checkpoint path.
func (c *RunConfig) GetCheckpointPath() string {
	if c.CheckpointPath == nil {
		return ""
	}
	return *c.CheckpointPath
}

// GetExperimentName returns the experiment name.
func (c *RunConfig) GetExperimentName() string {
	if c.ExperimentName == nil {
		return ""
	}
	return *c.ExperimentName
}

// GetSceneFilter returns the scene filter name.
func (c *RunConfig) GetSceneFilter() string {
	if c.SceneFilter == nil {
		return "navtest"
	}
	return *c.SceneFilter
}

// GetSplit returns the data split name.
func (c *RunConfig) GetSplit() string {
	if c.Split == nil {
		return "test"
	}
	return *c.Split
}

// GetTimeHorizon returns the trajectory sampling time horizon in seconds.
func (c *RunConfig) GetTimeHorizon() float64 {
	if c.TimeHorizon == nil {
		return 4.0
	}
	return *c.TimeHorizon
}

// GetFrameInterval returns the scene filter frame interval.
func (c *RunConfig) GetFrameInterval() int {
	if c.FrameInterval == nil {
		return 1
	}
	return *c.FrameInterval
}

// GetPython returns the interpreter used for the external entry points.
func (c *RunConfig) GetPython() string {
	if c.Python == nil || *c.Python == "" {
		return "python"
	}
	return *c.Python
}

// ScriptPath resolves an entry point relative to the devkit root.
func (c *RunConfig) ScriptPath(script string) string {
	return filepath.Join(c.GetDevkitRoot(), script)
}

// ScoreOverrides assembles the configuration overrides for the PDM
// scoring entry point.
func (c *RunConfig) ScoreOverrides() launch.Overrides {
	var o launch.Overrides
	o = o.Add("agent", c.GetAgent())
	if ckpt := c.GetCheckpointPath(); ckpt != "" {
		o = o.Add("agent.checkpoint_path", ckpt)
	}
	o = o.Add("experiment_name", c.GetExperimentName())
	o = o.Add("scene_filter", c.GetSceneFilter())
	o = o.Add("split", c.GetSplit())
	o = o.Add("metric_cache_path", c.GetMetricCachePath())
	if p := c.GetTrajectoriesCachePath(); p != "" {
		o = o.Add("trajectories_cache_path", p)
	}
	return o
}

// DatasetCacheOverrides assembles the configuration overrides for the
// dataset caching entry point.
func (c *RunConfig) DatasetCacheOverrides() launch.Overrides {
	var o launch.Overrides
	o = o.Add("agent", c.GetAgent())
	o = o.Add("agent.trajectory_sampling.time_horizon", strconv.FormatFloat(c.GetTimeHorizon(), 'g', -1, 64))
	o = o.Add("experiment_name", c.GetExperimentName())
	o = o.Add("cache_path", c.GetCachePath())
	o = o.Add("scene_filter", c.GetSceneFilter())
	o = o.Add("split", c.GetSplit())
	o = o.Add("scene_filter.frame_interval", strconv.Itoa(c.GetFrameInterval()))
	return o
}

// MetricCacheOverrides assembles the configuration overrides for the
// metric caching entry point.
func (c *RunConfig) MetricCacheOverrides() launch.Overrides {
	var o launch.Overrides
	o = o.Add("experiment_name", c.GetExperimentName())
	o = o.Add("metric_cache_path", c.GetMetricCachePath())
	o = o.Add("scene_filter", c.GetSceneFilter())
	o = o.Add("split", c.GetSplit())
	o = o.Add("scene_filter.frame_interval", strconv.Itoa(c.GetFrameInterval()))
	return o
}
