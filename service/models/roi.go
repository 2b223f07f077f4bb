/*
 * @module service/models/roi
 * @description RWE投资回报测算场景模型定义
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 场景创建 -> 测算 -> 更新/删除
 * @rules 测算结果不落库，按需基于场景参数重新计算
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/roi
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrialScenario 试验/项目RWE场景模型
type TrialScenario struct {
	ID                     string    `gorm:"type:uuid;primary_key" json:"id"`
	Name                   string    `gorm:"not null" json:"name"`
	BaselineDurationMonths float64   `gorm:"not null" json:"baseline_duration_months"`
	PatientsTreatment      int       `gorm:"not null" json:"patients_treatment"`
	PatientsControl        int       `gorm:"not null" json:"patients_control"`
	CostPerPatientUSD      float64   `gorm:"not null" json:"cost_per_patient_usd"`
	ProbRegAcceptRWE       float64   `gorm:"not null" json:"prob_reg_accept_rwe"`  // 引入RWE后监管接受概率
	ProbRegAcceptTrad      float64   `gorm:"not null" json:"prob_reg_accept_trad"` // 传统路径监管接受概率
	DiscountRateAnnual     float64   `gorm:"not null" json:"discount_rate_annual"` // 年化折现率，如0.10
	MonthlyBenefitUSD      float64   `gorm:"not null" json:"monthly_benefit_usd"`  // 上市后月度净收益预期
	CreatedAt              time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy              string    `gorm:"not null;default:'system';size:100" json:"created_by"`
	UpdatedAt              time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy              string    `gorm:"not null;default:'system';size:100" json:"updated_by"`
}

// BeforeCreate 创建前钩子
func (t *TrialScenario) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedBy == "" {
		t.CreatedBy = "system"
	}
	if t.UpdatedBy == "" {
		t.UpdatedBy = "system"
	}
	return nil
}

// BeforeUpdate 更新前钩子
func (t *TrialScenario) BeforeUpdate(tx *gorm.DB) error {
	if t.UpdatedBy == "" {
		t.UpdatedBy = "system"
	}
	return nil
}
