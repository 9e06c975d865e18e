package runconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `{
		"navsim_devkit_root": "/opt/navsim",
		"trajs_dir": "/data/trajs/goalflow",
		"experiment_name": "goalflow_pdm_score"
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.GetDevkitRoot(); got != "/opt/navsim" {
		t.Errorf("GetDevkitRoot = %q", got)
	}
	if got := cfg.GetTrajsDir(); got != "/data/trajs/goalflow" {
		t.Errorf("GetTrajsDir = %q", got)
	}

	// Omitted fields fall back to defaults.
	if got := cfg.GetAgent(); got != "goalflow_agent" {
		t.Errorf("GetAgent default = %q", got)
	}
	if got := cfg.GetSceneFilter(); got != "navtest" {
		t.Errorf("GetSceneFilter default = %q", got)
	}
	if got := cfg.GetSplit(); got != "test" {
		t.Errorf("GetSplit default = %q", got)
	}
	if got := cfg.GetTimeHorizon(); got != 4.0 {
		t.Errorf("GetTimeHorizon default = %v", got)
	}
	if got := cfg.GetFrameInterval(); got != 1 {
		t.Errorf("GetFrameInterval default = %v", got)
	}
	if got := cfg.GetPython(); got != "python" {
		t.Errorf("GetPython default = %q", got)
	}
}

func TestLoadRejectsNonJSON(t *testing.T) {
	if _, err := Load("run.yaml"); err == nil {
		t.Error("expected error for non-JSON extension")
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, `{"agent": `)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	negHorizon := -1.0
	zeroInterval := 0

	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr bool
	}{
		{"empty config is valid", RunConfig{}, false},
		{"negative horizon", RunConfig{TimeHorizon: &negHorizon}, true},
		{"zero frame interval", RunConfig{FrameInterval: &zeroInterval}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvFallback(t *testing.T) {
	t.Setenv(EnvDevkitRoot, "/env/devkit")
	t.Setenv(EnvExpRoot, "/env/exp")

	cfg := &RunConfig{}
	if got := cfg.GetDevkitRoot(); got != "/env/devkit" {
		t.Errorf("GetDevkitRoot = %q, want env fallback", got)
	}
	if got := cfg.GetExpRoot(); got != "/env/exp" {
		t.Errorf("GetExpRoot = %q, want env fallback", got)
	}

	// Defaults derived from the experiment root.
	if got := cfg.GetOutputDir(); got != "/env/exp/figures" {
		t.Errorf("GetOutputDir = %q", got)
	}
	if got := cfg.GetMetricCachePath(); got != "/env/exp/metric_cache" {
		t.Errorf("GetMetricCachePath = %q", got)
	}
	if got := cfg.GetCachePath(); got != "/env/exp/training_cache" {
		t.Errorf("GetCachePath = %q", got)
	}
}

func TestScriptPath(t *testing.T) {
	root := "/opt/navsim"
	cfg := &RunConfig{DevkitRoot: &root}
	want := "/opt/navsim/navsim/planning/script/run_pdm_score.py"
	if got := cfg.ScriptPath(PDMScoreScript); got != want {
		t.Errorf("ScriptPath = %q, want %q", got, want)
	}
}

func TestScoreOverrides(t *testing.T) {
	agent := "goalflow_agent"
	ckpt := "/ckpt/goalflow.ckpt"
	exp := "goalflow_pdm_score"
	metricCache := "/exp/metric_cache"
	trajCache := "/exp/trajectories"
	cfg := &RunConfig{
		Agent:                 &agent,
		CheckpointPath:        &ckpt,
		ExperimentName:        &exp,
		MetricCachePath:       &metricCache,
		TrajectoriesCachePath: &trajCache,
	}

	got := cfg.ScoreOverrides().Args()
	want := []string{
		"agent=goalflow_agent",
		"agent.checkpoint_path=/ckpt/goalflow.ckpt",
		"experiment_name=goalflow_pdm_score",
		"scene_filter=navtest",
		"split=test",
		"metric_cache_path=/exp/metric_cache",
		"trajectories_cache_path=/exp/trajectories",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("arg[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScoreOverridesSkipsEmptyCheckpoint(t *testing.T) {
	cfg := &RunConfig{}
	for _, arg := range cfg.ScoreOverrides().Args() {
		if arg == "agent.checkpoint_path=" {
			t.Error("empty checkpoint must not be rendered")
		}
	}
}

func TestDatasetCacheOverrides(t *testing.T) {
	horizon := 5.0
	interval := 2
	cache := "/exp/cache"
	cfg := &RunConfig{TimeHorizon: &horizon, FrameInterval: &interval, CachePath: &cache}

	got := cfg.DatasetCacheOverrides().Args()
	assertContains := func(want string) {
		t.Helper()
		for _, arg := range got {
			if arg == want {
				return
			}
		}
		t.Errorf("missing override %q in %v", want, got)
	}
	assertContains("agent.trajectory_sampling.time_horizon=5")
	assertContains("scene_filter.frame_interval=2")
	assertContains("cache_path=/exp/cache")
}

func TestMetricCacheOverrides(t *testing.T) {
	cfg := &RunConfig{}
	args := cfg.MetricCacheOverrides().Args()
	for _, arg := range args {
		if arg == "agent=goalflow_agent" {
			t.Error("metric caching must not override the agent")
		}
	}
	if len(args) != 5 {
		t.Errorf("expected 5 overrides, got %d: %v", len(args), args)
	}
}
