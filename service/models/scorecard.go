/*
 * @module service/models/scorecard
 * @description 治理评分相关模型定义，包括评分配置和就绪度报告
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 评分配置维护 -> 报告生成 -> 报告查询（报告创建后不可变）
 * @rules 任意时刻只有一个启用状态的评分配置；报告保留全精度的评分结果
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/scorecard, service/report
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScoringConfig 治理评分配置模型
type ScoringConfig struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Weights          JSONB     `gorm:"type:jsonb;not null" json:"weights"`    // 子维度 -> 权重
	Thresholds       JSONB     `gorm:"type:jsonb;not null" json:"thresholds"` // 子维度 -> 建议触发阈值
	RecentWindowDays int       `gorm:"not null;default:14" json:"recent_window_days"`
	RequiredFields   JSONB     `gorm:"type:jsonb;not null" json:"required_fields"`  // 数据源 -> 必填字段列表
	ConsistencyKeys  JSONB     `gorm:"type:jsonb" json:"consistency_keys"`          // 数据源 -> 主键列列表
	SourceCategories JSONB     `gorm:"type:jsonb;not null" json:"source_categories"` // 数据源 -> 类别
	DateColumns      JSONB     `gorm:"type:jsonb" json:"date_columns"`              // 数据源 -> 时间戳列（可省略，自动推断）
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy        string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy        string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (s *ScoringConfig) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedBy == "" {
		s.CreatedBy = "system"
	}
	if s.UpdatedBy == "" {
		s.UpdatedBy = "system"
	}
	return nil
}

// BeforeUpdate 更新前钩子
func (s *ScoringConfig) BeforeUpdate(tx *gorm.DB) error {
	if s.UpdatedBy == "" {
		s.UpdatedBy = "system"
	}
	return nil
}

// 报告触发方式
const (
	ReportTriggerManual    = "manual"
	ReportTriggerScheduled = "scheduled"
)

// ReadinessReport 治理就绪度报告模型
// Records 为按数据源名排序的评分记录（含全精度子分数、标准化信号和诊断信息）
type ReadinessReport struct {
	ID              string     `gorm:"type:uuid;primary_key" json:"id"`
	GeneratedAt     time.Time  `gorm:"not null" json:"generated_at"`
	TriggerType     string     `gorm:"not null;default:'manual'" json:"trigger_type"` // manual/scheduled
	ConfigID        string     `gorm:"type:uuid" json:"config_id"`
	Records         JSONBArray `gorm:"type:jsonb;not null" json:"records"`
	Recommendations JSONB      `gorm:"type:jsonb" json:"recommendations"` // 数据源 -> 建议列表
	PortfolioScore  float64    `gorm:"not null" json:"portfolio_score"`   // 全精度组合平均分
	SourceCount     int        `gorm:"not null" json:"source_count"`
	CreatedAt       time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy       string     `gorm:"not null;default:'system';size:100" json:"created_by"`
}

// BeforeCreate 创建前钩子
func (r *ReadinessReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedBy == "" {
		r.CreatedBy = "system"
	}
	return nil
}
