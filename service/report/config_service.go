/*
 * @module service/report/config_service
 * @description 评分配置服务，维护启用中的评分配置并转换为评分引擎输入
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 配置查询 -> 校验 -> 更新；报告生成前转换为引擎配置
 * @rules 更新前必须通过引擎的配置校验；任意时刻只有一份启用配置
 * @dependencies readiness-service/service/models, readiness-service/service/scorecard, github.com/spf13/cast
 * @refs report_service.go
 */

package report

import (
	"fmt"

	"readiness-service/service/models"
	"readiness-service/service/scorecard"

	"github.com/spf13/cast"
	"gorm.io/gorm"
)

// ScoringConfigService 评分配置服务
type ScoringConfigService struct {
	db *gorm.DB
}

// NewScoringConfigService 创建评分配置服务实例
func NewScoringConfigService(db *gorm.DB) *ScoringConfigService {
	return &ScoringConfigService{db: db}
}

// GetActiveConfig 获取启用中的评分配置
func (s *ScoringConfigService) GetActiveConfig() (*models.ScoringConfig, error) {
	var cfg models.ScoringConfig
	if err := s.db.Where("is_active = ?", true).First(&cfg).Error; err != nil {
		return nil, fmt.Errorf("获取启用中的评分配置失败: %w", err)
	}
	return &cfg, nil
}

// UpdateActiveConfig 更新启用中的评分配置，更新前按引擎规则校验
func (s *ScoringConfigService) UpdateActiveConfig(updated *models.ScoringConfig) (*models.ScoringConfig, error) {
	engineCfg, err := EngineConfig(updated)
	if err != nil {
		return nil, err
	}
	if err := scorecard.ValidateConfig(engineCfg); err != nil {
		return nil, fmt.Errorf("评分配置校验失败: %w", err)
	}

	current, err := s.GetActiveConfig()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"weights":            updated.Weights,
		"thresholds":         updated.Thresholds,
		"recent_window_days": updated.RecentWindowDays,
		"required_fields":    updated.RequiredFields,
		"consistency_keys":   updated.ConsistencyKeys,
		"source_categories":  updated.SourceCategories,
		"date_columns":       updated.DateColumns,
	}
	if updated.Name != "" {
		updates["name"] = updated.Name
	}
	if err := s.db.Model(current).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("更新评分配置失败: %w", err)
	}

	return s.GetActiveConfig()
}

// EngineConfig 将落库的评分配置转换为评分引擎输入
func EngineConfig(cfg *models.ScoringConfig) (*scorecard.Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("评分配置不能为空")
	}

	weights := make(map[string]float64, len(cfg.Weights))
	for name, v := range cfg.Weights {
		w, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("子维度 %s 的权重无法解析: %w", name, err)
		}
		weights[name] = w
	}

	thresholds := make(map[string]float64, len(cfg.Thresholds))
	for name, v := range cfg.Thresholds {
		t, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("子维度 %s 的阈值无法解析: %w", name, err)
		}
		thresholds[name] = t
	}

	required := make(map[string][]string, len(cfg.RequiredFields))
	for source, v := range cfg.RequiredFields {
		required[source] = cast.ToStringSlice(v)
	}

	keys := make(map[string][]string, len(cfg.ConsistencyKeys))
	for source, v := range cfg.ConsistencyKeys {
		keys[source] = cast.ToStringSlice(v)
	}

	dateColumns := make(map[string]string, len(cfg.DateColumns))
	for source, v := range cfg.DateColumns {
		dateColumns[source] = cast.ToString(v)
	}

	return &scorecard.Config{
		Weights:          weights,
		Thresholds:       thresholds,
		RecentWindowDays: cfg.RecentWindowDays,
		RequiredFields:   required,
		ConsistencyKeys:  keys,
		DateColumns:      dateColumns,
	}, nil
}
