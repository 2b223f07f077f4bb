/*
 * @module service/config/scoring_defaults_test
 * @description 评分默认配置加载测试
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 写入临时YAML -> 加载 -> 验证覆盖行为
 * @rules 仅覆盖YAML中出现的段
 * @dependencies testing, github.com/stretchr/testify
 * @refs scoring_defaults.go
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfigWeightsSumToOne(t *testing.T) {
	defaults := DefaultScoringConfig()

	sum := 0.0
	for _, w := range defaults.Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, 14, defaults.RecentWindowDays)
	assert.Equal(t, "adverse_event", defaults.SourceCategories["openfda"])
}

func TestLoadScoringDefaultsEmptyPathReturnsBuiltins(t *testing.T) {
	defaults, err := LoadScoringDefaults("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScoringConfig(), defaults)
}

func TestLoadScoringDefaultsPartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	content := `
recent_window_days: 30
thresholds:
  timeliness: 0.4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	defaults, err := LoadScoringDefaults(path)
	require.NoError(t, err)

	assert.Equal(t, 30, defaults.RecentWindowDays)
	assert.Equal(t, map[string]float64{"timeliness": 0.4}, defaults.Thresholds)
	// 未覆盖的段保持内置默认
	assert.Equal(t, DefaultScoringConfig().Weights, defaults.Weights)
	assert.Equal(t, DefaultScoringConfig().RequiredFields, defaults.RequiredFields)
}

func TestLoadScoringDefaultsMissingFile(t *testing.T) {
	_, err := LoadScoringDefaults("/nonexistent/scoring.yaml")
	assert.Error(t, err)
}

func TestLoadScoringDefaultsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights: ["), 0o644))

	_, err := LoadScoringDefaults(path)
	assert.Error(t, err)
}
