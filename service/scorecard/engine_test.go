/*
 * @module service/scorecard/engine_test
 * @description 治理评分引擎测试，覆盖配置校验、子维度回退规则和样例回归数据
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 构造快照 -> 执行评分 -> 验证分数与诊断
 * @rules 回归样例的分数直接锚定样例报告数值，作为校准基准
 * @dependencies testing, github.com/stretchr/testify
 * @refs engine.go, metrics.go
 */

package scorecard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

// 原始样例报告使用的默认权重
func defaultTestConfig() *Config {
	return &Config{
		Weights: map[string]float64{
			SubScoreCompleteness: 0.30,
			SubScoreConsistency:  0.20,
			SubScoreTimeliness:   0.20,
			SubScoreConformity:   0.15,
			SubScoreStandards:    0.15,
		},
		Thresholds: map[string]float64{
			SubScoreCompleteness: 0.8,
			SubScoreConsistency:  0.8,
			SubScoreTimeliness:   0.5,
			SubScoreConformity:   0.7,
			SubScoreStandards:    0.6,
		},
		RecentWindowDays: 14,
		RequiredFields: map[string][]string{
			"openfda": {"safetyreportid", "receivedate", "serious", "occurcountry", "medicinalproduct", "reactionmeddrapt"},
			"ctgov":   {"NCTId", "OverallStatus", "Phase", "Condition", "StartDate"},
			"cdc":     {"week_ending_date", "state", "value"},
		},
		ConsistencyKeys: map[string][]string{
			"openfda": {"safetyreportid"},
			"ctgov":   {"NCTId"},
		},
	}
}

// buildOpenFDADataset 构造与样例报告对应的OpenFDA快照
// N=499；60行缺失药品名（完整性≈0.98）；450行ISO国家代码（OMOP≈0.77）；全部日期在窗口内
func buildOpenFDADataset() *SourceDataset {
	rows := make([]map[string]interface{}, 0, 499)
	for i := 0; i < 499; i++ {
		row := map[string]interface{}{
			"safetyreportid":   fmt.Sprintf("SR-%04d", i),
			"receivedate":      "20260110",
			"serious":          "1",
			"reactionmeddrapt": "Nausea",
			"medicinalproduct": "ASPIRIN",
			"occurcountry":     "US",
		}
		if i < 60 {
			row["medicinalproduct"] = ""
		}
		if i >= 450 {
			row["occurcountry"] = "Unknown"
		}
		rows = append(rows, row)
	}
	return &SourceDataset{Name: "openfda", Category: CategoryAdverseEvent, Rows: rows}
}

func TestComputeScorecardOpenFDARegression(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"openfda": buildOpenFDADataset(),
	}, cfg, testNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	assert.Equal(t, "openfda", record.Source)
	assert.Equal(t, 499, record.RowCount)

	assert.InDelta(t, 0.98, record.SubScores[SubScoreCompleteness], 0.005)
	assert.Equal(t, 1.0, record.SubScores[SubScoreConsistency])
	assert.Equal(t, 1.0, record.SubScores[SubScoreTimeliness])
	assert.Equal(t, 1.0, record.SubScores[SubScoreConformity])
	assert.InDelta(t, 0.77, record.Standards.OmopVocab, 0.005)
	assert.Equal(t, 1.0, record.Standards.FhirStruct)
	assert.InDelta(t, 0.885, record.SubScores[SubScoreStandards], 0.005)

	// 总分必须能从子分数按归一化权重精确重组
	expected := 0.30*record.SubScores[SubScoreCompleteness] +
		0.20*record.SubScores[SubScoreConsistency] +
		0.20*record.SubScores[SubScoreTimeliness] +
		0.15*record.SubScores[SubScoreConformity] +
		0.15*record.SubScores[SubScoreStandards]
	assert.InDelta(t, expected, record.Overall, 1e-9)
	assert.InDelta(t, 0.98, Round2(record.Overall), 0.005)

	// 所有子维度都在阈值之上，不应产生建议
	assert.Empty(t, result.Recommendations["openfda"])
}

func TestComputeScorecardStaleTrialsGetLatencyRecommendation(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	rows := make([]map[string]interface{}, 0, 100)
	for i := 0; i < 100; i++ {
		row := map[string]interface{}{
			"NCTId":         fmt.Sprintf("NCT%08d", i),
			"OverallStatus": "Recruiting",
			"Phase":         "Phase 2",
			"Condition":     "C50.9",
			"StartDate":     "2023-06-01",
		}
		if i == 0 {
			// 仅1%的行落在时效窗口内
			row["StartDate"] = "2026-01-10"
		}
		rows = append(rows, row)
	}

	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"ctgov": {Name: "ctgov", Category: CategoryTrial, Rows: rows},
	}, cfg, testNow)
	require.NoError(t, err)

	record := result.Records[0]
	assert.InDelta(t, 0.01, record.SubScores[SubScoreTimeliness], 1e-9)
	assert.Contains(t, result.Recommendations["ctgov"], AdvisoryFor(SubScoreTimeliness, CategoryTrial))
}

func TestComputeScorecardMissingTimestampIsolated(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	// cdc快照整列缺失时间戳，openfda快照正常
	cdcRows := []map[string]interface{}{
		{"state": "CA", "value": "10"},
		{"state": "NY", "value": "12"},
	}

	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"cdc":     {Name: "cdc", Category: CategoryObservation, Rows: cdcRows},
		"openfda": buildOpenFDADataset(),
	}, cfg, testNow)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	// 记录按数据源名排序
	assert.Equal(t, "cdc", result.Records[0].Source)
	assert.Equal(t, "openfda", result.Records[1].Source)

	cdc := result.Records[0]
	assert.Equal(t, 0.0, cdc.SubScores[SubScoreTimeliness])
	assert.NotEmpty(t, cdc.Diagnostics)

	// cdc的异常不影响openfda的正常评分
	openfda := result.Records[1]
	assert.Equal(t, 1.0, openfda.SubScores[SubScoreTimeliness])
	assert.Empty(t, openfda.Diagnostics)
}

func TestComputeScorecardEmptyDatasetFallbacks(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"openfda": {Name: "openfda", Category: CategoryAdverseEvent, Rows: nil},
	}, cfg, testNow)
	require.NoError(t, err)

	record := result.Records[0]
	assert.Equal(t, 0, record.RowCount)
	assert.Equal(t, 0.0, record.SubScores[SubScoreCompleteness])
	assert.Equal(t, 0.0, record.SubScores[SubScoreTimeliness])
	assert.Equal(t, 0.0, record.SubScores[SubScoreConformity])
	assert.Equal(t, 0.0, record.SubScores[SubScoreConsistency])
	assert.NotEmpty(t, record.Diagnostics)
}

func TestComputeScorecardFullyPopulatedCompleteness(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	rows := []map[string]interface{}{
		{"week_ending_date": "2026-01-10", "state": "CA", "value": "10"},
		{"week_ending_date": "2026-01-11", "state": "NY", "value": "12"},
		{"week_ending_date": "2026-01-12", "state": "TX", "value": "8"},
	}

	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"cdc": {Name: "cdc", Category: CategoryObservation, Rows: rows},
	}, cfg, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Records[0].SubScores[SubScoreCompleteness])
}

func TestComputeScorecardOverallStaysInRange(t *testing.T) {
	engine := NewEngine()
	datasets := map[string]*SourceDataset{
		"openfda": buildOpenFDADataset(),
		"empty":   {Name: "empty", Category: CategoryObservation, Rows: nil},
	}

	weightVariants := []map[string]float64{
		nil,
		{SubScoreCompleteness: 1.0},
		{SubScoreCompleteness: 0.5, SubScoreStandards: 0.5},
		{SubScoreCompleteness: 2, SubScoreConsistency: 3, SubScoreTimeliness: 1, SubScoreConformity: 1, SubScoreStandards: 1},
	}

	for _, weights := range weightVariants {
		cfg := defaultTestConfig()
		cfg.Weights = weights
		result, err := engine.ComputeScorecard(datasets, cfg, testNow)
		require.NoError(t, err)
		for _, record := range result.Records {
			assert.GreaterOrEqual(t, record.Overall, 0.0)
			assert.LessOrEqual(t, record.Overall, 1.0)
		}
	}
}

func TestComputeScorecardIdempotent(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()
	datasets := map[string]*SourceDataset{
		"openfda": buildOpenFDADataset(),
	}

	first, err := engine.ComputeScorecard(datasets, cfg, testNow)
	require.NoError(t, err)
	second, err := engine.ComputeScorecard(datasets, cfg, testNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateConfigFailsFast(t *testing.T) {
	engine := NewEngine()

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"负权重", func(c *Config) { c.Weights[SubScoreCompleteness] = -0.1 }},
		{"未知权重维度", func(c *Config) { c.Weights["accuracy"] = 0.5 }},
		{"权重总和为0", func(c *Config) {
			c.Weights = map[string]float64{SubScoreCompleteness: 0}
		}},
		{"窗口为0", func(c *Config) { c.RecentWindowDays = 0 }},
		{"窗口为负", func(c *Config) { c.RecentWindowDays = -7 }},
		{"阈值越界", func(c *Config) { c.Thresholds[SubScoreStandards] = 1.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultTestConfig()
			tc.mutate(cfg)
			_, err := engine.ComputeScorecard(map[string]*SourceDataset{
				"openfda": buildOpenFDADataset(),
			}, cfg, testNow)
			assert.Error(t, err)
		})
	}
}

func TestConsistencyWithoutDetectorDefaultsToOne(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()
	cfg.ConsistencyKeys = nil

	rows := []map[string]interface{}{
		{"week_ending_date": "2026-01-10", "state": "CA", "value": "10"},
		{"week_ending_date": "2026-01-10", "state": "CA", "value": "10"},
	}
	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"cdc": {Name: "cdc", Category: CategoryObservation, Rows: rows},
	}, cfg, testNow)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Records[0].SubScores[SubScoreConsistency])
}

func TestConsistencyPenalizesDuplicateKeys(t *testing.T) {
	engine := NewEngine()
	cfg := defaultTestConfig()

	rows := make([]map[string]interface{}, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, map[string]interface{}{
			"safetyreportid": "SR-0001", // 全部同键，重复率90%
			"receivedate":    "20260110",
			"serious":        "1",
		})
	}
	result, err := engine.ComputeScorecard(map[string]*SourceDataset{
		"openfda": {Name: "openfda", Category: CategoryAdverseEvent, Rows: rows},
	}, cfg, testNow)
	require.NoError(t, err)

	// 重复罚分封顶0.4
	assert.InDelta(t, 0.6, result.Records[0].SubScores[SubScoreConsistency], 1e-9)
}
