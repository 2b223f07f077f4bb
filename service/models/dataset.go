/*
 * @module service/models/dataset
 * @description 数据快照相关模型定义，保存各数据源（OpenFDA、CT.gov、CDC）的扁平化表格快照
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 快照注册 -> 评分引用 -> 删除（快照本身不可变）
 * @rules 快照创建后不可修改，评分始终基于某一次快照的固定内容
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/dataset, service/scorecard
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 数据源类别常量，决定评分时使用的标准化检测器
const (
	CategoryAdverseEvent = "adverse_event" // 不良事件类（OpenFDA FAERS）
	CategoryTrial        = "trial"         // 临床试验类（ClinicalTrials.gov）
	CategoryObservation  = "observation"   // 监测观察类（CDC周报等）
)

// DatasetSnapshot 数据源扁平化快照模型
type DatasetSnapshot struct {
	ID          string     `gorm:"type:uuid;primary_key" json:"id"`
	SourceName  string     `gorm:"not null;index" json:"source_name"`
	Category    string     `gorm:"not null" json:"category"` // adverse_event/trial/observation
	Description string     `json:"description"`
	Rows        JSONBArray `gorm:"type:jsonb;not null" json:"rows"`
	RowCount    int        `gorm:"not null" json:"row_count"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy   string     `gorm:"not null;default:'system';size:100" json:"created_by"`
}

// BeforeCreate 创建前钩子
func (d *DatasetSnapshot) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedBy == "" {
		d.CreatedBy = "system"
	}
	return nil
}

// IsValidCategory 检查类别是否是已支持的数据源类别
func IsValidCategory(category string) bool {
	switch category {
	case CategoryAdverseEvent, CategoryTrial, CategoryObservation:
		return true
	}
	return false
}
