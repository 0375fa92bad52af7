package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "run.yaml", `
name: checkout-load
flushPeriod: 5s
scenarios:
  - name: browse
    totalUsers: 50
  - name: checkout
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "checkout-load", cfg.Name)
	require.Len(t, cfg.Scenarios, 2)
	assert.Equal(t, "browse", cfg.Scenarios[0].Name)
	require.NotNil(t, cfg.Scenarios[0].TotalUsers)
	assert.Equal(t, 50, *cfg.Scenarios[0].TotalUsers)
	assert.Nil(t, cfg.Scenarios[1].TotalUsers, "omitted totalUsers means unbounded")

	period, err := cfg.ParseFlushPeriod()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, period)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeFile(t, "run.json", `{
  "name": "smoke",
  "scenarios": [{"name": "s1", "totalUsers": 1}]
}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", cfg.Name)

	period, err := cfg.ParseFlushPeriod()
	require.NoError(t, err)
	assert.Zero(t, period, "unset flush period defers to the writer default")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCatalog_PreservesOrder(t *testing.T) {
	cfg := &RunConfig{Scenarios: []ScenarioConfig{
		{Name: "z"}, {Name: "a"}, {Name: "m"},
	}}

	catalog := cfg.Catalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, "z", catalog[0].Name)
	assert.Equal(t, "a", catalog[1].Name)
	assert.Equal(t, "m", catalog[2].Name)
}

func TestParseDurationString(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"30", 30 * time.Second, false},
		{"", 0, false},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDurationString(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	negative := -1
	valid := 5

	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr string
	}{
		{
			name:    "no scenarios",
			cfg:     RunConfig{},
			wantErr: "at least one scenario is required",
		},
		{
			name: "missing scenario name",
			cfg: RunConfig{Scenarios: []ScenarioConfig{
				{TotalUsers: &valid},
			}},
			wantErr: "scenario name is required",
		},
		{
			name: "duplicate names",
			cfg: RunConfig{Scenarios: []ScenarioConfig{
				{Name: "s1"}, {Name: "s1"},
			}},
			wantErr: "duplicate scenario name",
		},
		{
			name: "negative totalUsers",
			cfg: RunConfig{Scenarios: []ScenarioConfig{
				{Name: "s1", TotalUsers: &negative},
			}},
			wantErr: "totalUsers must not be negative",
		},
		{
			name: "flush period below a second",
			cfg: RunConfig{
				FlushPeriod: "100ms",
				Scenarios:   []ScenarioConfig{{Name: "s1"}},
			},
			wantErr: "at least one second",
		},
		{
			name: "unparseable flush period",
			cfg: RunConfig{
				FlushPeriod: "whenever",
				Scenarios:   []ScenarioConfig{{Name: "s1"}},
			},
			wantErr: "invalid duration",
		},
		{
			name: "valid",
			cfg: RunConfig{
				FlushPeriod: "5s",
				Scenarios: []ScenarioConfig{
					{Name: "s1", TotalUsers: &valid},
					{Name: "s2"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
