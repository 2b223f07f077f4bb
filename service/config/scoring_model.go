/*
 * @module service/config/scoring_model
 * @description 评分默认值到评分配置模型的转换
 * @architecture 分层架构 - 配置层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 默认值/YAML覆盖 -> 配置模型 -> 数据库初始化写入
 * @rules 转换保持各段键名不变，模型层以JSONB形式存储
 * @dependencies service/models
 * @refs service/database/migrate.go, testutil
 */

package config

import (
	"readiness-service/service/models"
)

// ToModel 将评分默认值转换为评分配置模型
func (d *ScoringDefaults) ToModel(name string) *models.ScoringConfig {
	weights := make(models.JSONB, len(d.Weights))
	for sub, w := range d.Weights {
		weights[sub] = w
	}
	thresholds := make(models.JSONB, len(d.Thresholds))
	for sub, t := range d.Thresholds {
		thresholds[sub] = t
	}
	required := make(models.JSONB, len(d.RequiredFields))
	for source, fields := range d.RequiredFields {
		required[source] = fields
	}
	keys := make(models.JSONB, len(d.ConsistencyKeys))
	for source, cols := range d.ConsistencyKeys {
		keys[source] = cols
	}
	categories := make(models.JSONB, len(d.SourceCategories))
	for source, category := range d.SourceCategories {
		categories[source] = category
	}
	dateColumns := make(models.JSONB, len(d.DateColumns))
	for source, col := range d.DateColumns {
		dateColumns[source] = col
	}

	return &models.ScoringConfig{
		Name:             name,
		Weights:          weights,
		Thresholds:       thresholds,
		RecentWindowDays: d.RecentWindowDays,
		RequiredFields:   required,
		ConsistencyKeys:  keys,
		SourceCategories: categories,
		DateColumns:      dateColumns,
		IsActive:         true,
	}
}
