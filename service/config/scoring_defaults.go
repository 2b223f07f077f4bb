/*
 * @module service/config/scoring_defaults
 * @description 评分默认配置定义与YAML覆盖加载
 * @architecture 分层架构 - 配置层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 内置默认 -> 可选YAML文件覆盖 -> 初始化时写入数据库
 * @rules YAML文件只覆盖其中出现的段，未出现的段保留内置默认
 * @dependencies gopkg.in/yaml.v3, os
 * @refs service/database/migrate.go, service/scorecard
 */

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringDefaults 评分默认配置
type ScoringDefaults struct {
	Weights          map[string]float64  `yaml:"weights"`
	Thresholds       map[string]float64  `yaml:"thresholds"`
	RecentWindowDays int                 `yaml:"recent_window_days"`
	RequiredFields   map[string][]string `yaml:"required_fields"`
	ConsistencyKeys  map[string][]string `yaml:"consistency_keys"`
	SourceCategories map[string]string   `yaml:"source_categories"`
	DateColumns      map[string]string   `yaml:"date_columns"`
}

// DefaultScoringConfig 内置评分默认值，权重与阈值来自治理评分卡的基线策略
func DefaultScoringConfig() *ScoringDefaults {
	return &ScoringDefaults{
		Weights: map[string]float64{
			"completeness": 0.30,
			"consistency":  0.20,
			"timeliness":   0.20,
			"conformity":   0.15,
			"standards":    0.15,
		},
		Thresholds: map[string]float64{
			"completeness": 0.8,
			"consistency":  0.8,
			"timeliness":   0.5,
			"conformity":   0.7,
			"standards":    0.6,
		},
		RecentWindowDays: 14,
		RequiredFields: map[string][]string{
			"openfda": {"safetyreportid", "receivedate", "serious", "occurcountry", "medicinalproduct", "reactionmeddrapt"},
			"ctgov":   {"NCTId", "BriefTitle", "OverallStatus", "Phase", "Condition", "StartDate"},
			"cdc":     {"week_ending_date", "state", "value"},
		},
		ConsistencyKeys: map[string][]string{
			"openfda": {"safetyreportid"},
			"ctgov":   {"NCTId"},
			"cdc":     {"week_ending_date", "state"},
		},
		SourceCategories: map[string]string{
			"openfda": "adverse_event",
			"ctgov":   "trial",
			"cdc":     "observation",
		},
		DateColumns: map[string]string{
			"openfda": "receivedate",
			"ctgov":   "StartDate",
			"cdc":     "week_ending_date",
		},
	}
}

// LoadScoringDefaults 加载评分默认配置
// path为空时直接返回内置默认；否则用YAML文件中出现的段覆盖
func LoadScoringDefaults(path string) (*ScoringDefaults, error) {
	defaults := DefaultScoringConfig()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取评分配置文件失败: %w", err)
	}

	var override ScoringDefaults
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("解析评分配置文件失败: %w", err)
	}

	if len(override.Weights) > 0 {
		defaults.Weights = override.Weights
	}
	if len(override.Thresholds) > 0 {
		defaults.Thresholds = override.Thresholds
	}
	if override.RecentWindowDays > 0 {
		defaults.RecentWindowDays = override.RecentWindowDays
	}
	if len(override.RequiredFields) > 0 {
		defaults.RequiredFields = override.RequiredFields
	}
	if len(override.ConsistencyKeys) > 0 {
		defaults.ConsistencyKeys = override.ConsistencyKeys
	}
	if len(override.SourceCategories) > 0 {
		defaults.SourceCategories = override.SourceCategories
	}
	if len(override.DateColumns) > 0 {
		defaults.DateColumns = override.DateColumns
	}

	return defaults, nil
}
