/*
 * @module service/roi/roi_service
 * @description RWE投资回报测算服务，管理试验场景并计算直接节省、折现时间收益与期望值提升
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 场景CRUD -> 基于场景参数测算 -> 结果返回（不落库）
 * @rules 折现率为负时按0处理；提前月数为负时按0处理；测算为纯计算，可重复执行
 * @dependencies readiness-service/service/models, gorm.io/gorm
 * @refs service/models/roi.go
 */

package roi

import (
	"fmt"
	"math"

	"readiness-service/service/models"

	"gorm.io/gorm"
)

// 测算基线参数
const (
	// 患者相关运营成本的直接节省比例
	directSavingsRate = 0.15
	// 监管接受概率每提升1对应的期望值（美元）
	evUpliftPerProbability = 10_000_000
)

// Summary RWE场景测算结果
type Summary struct {
	Savings           float64 `json:"savings"`            // 直接成本节省
	DiscountedBenefit float64 `json:"discounted_benefit"` // 提前上市的折现时间收益
	EVUplift          float64 `json:"ev_uplift"`          // 接受概率提升带来的期望值增量
	TotalROI          float64 `json:"total_roi"`
	MonthsSaved       int     `json:"months_saved"`
}

// Service RWE投资回报测算服务
type Service struct {
	db *gorm.DB
}

// NewService 创建测算服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// NPVCashflows 计算现金流序列的净现值
// 现金流按期（如月）排列，年化折现率按freq次/年复利折算到期利率
func NPVCashflows(cashflows []float64, annualRate float64, freq int) float64 {
	rate := math.Max(0, annualRate)
	if rate == 0 {
		sum := 0.0
		for _, cf := range cashflows {
			sum += cf
		}
		return sum
	}

	periodRate := rate / float64(freq)
	npv := 0.0
	for t, cf := range cashflows {
		npv += cf / math.Pow(1+periodRate, float64(t+1))
	}
	return npv
}

// Summarize 对场景执行RWE投资回报测算
func Summarize(scenario *models.TrialScenario, monthsSaved int) *Summary {
	if monthsSaved < 0 {
		monthsSaved = 0
	}

	patients := scenario.PatientsTreatment + scenario.PatientsControl
	savings := float64(patients) * scenario.CostPerPatientUSD * directSavingsRate

	cashflows := make([]float64, monthsSaved)
	for i := range cashflows {
		cashflows[i] = scenario.MonthlyBenefitUSD
	}
	timeBenefit := NPVCashflows(cashflows, scenario.DiscountRateAnnual, 12)

	upliftProb := math.Max(0, scenario.ProbRegAcceptRWE-scenario.ProbRegAcceptTrad)
	evUplift := upliftProb * evUpliftPerProbability

	return &Summary{
		Savings:           savings,
		DiscountedBenefit: timeBenefit,
		EVUplift:          evUplift,
		TotalROI:          savings + timeBenefit + evUplift,
		MonthsSaved:       monthsSaved,
	}
}

// CreateScenario 创建试验场景
func (s *Service) CreateScenario(scenario *models.TrialScenario) error {
	if scenario.Name == "" {
		return fmt.Errorf("场景名称不能为空")
	}
	if err := s.db.Create(scenario).Error; err != nil {
		return fmt.Errorf("创建试验场景失败: %w", err)
	}
	return nil
}

// GetScenario 按ID获取试验场景
func (s *Service) GetScenario(id string) (*models.TrialScenario, error) {
	var scenario models.TrialScenario
	if err := s.db.First(&scenario, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("获取试验场景失败: %w", err)
	}
	return &scenario, nil
}

// ListScenarios 分页获取试验场景列表
func (s *Service) ListScenarios(page, size int) ([]models.TrialScenario, int64, error) {
	var total int64
	if err := s.db.Model(&models.TrialScenario{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计试验场景失败: %w", err)
	}

	var scenarios []models.TrialScenario
	offset := (page - 1) * size
	err := s.db.Order("created_at DESC").Offset(offset).Limit(size).Find(&scenarios).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取试验场景列表失败: %w", err)
	}
	return scenarios, total, nil
}

// UpdateScenario 更新试验场景
func (s *Service) UpdateScenario(id string, updates map[string]interface{}) error {
	result := s.db.Model(&models.TrialScenario{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新试验场景失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("试验场景不存在: %s", id)
	}
	return nil
}

// DeleteScenario 删除试验场景
func (s *Service) DeleteScenario(id string) error {
	result := s.db.Delete(&models.TrialScenario{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("删除试验场景失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("试验场景不存在: %s", id)
	}
	return nil
}

// SummarizeByID 按ID加载场景并执行测算
func (s *Service) SummarizeByID(id string, monthsSaved int) (*Summary, error) {
	scenario, err := s.GetScenario(id)
	if err != nil {
		return nil, err
	}
	return Summarize(scenario, monthsSaved), nil
}
