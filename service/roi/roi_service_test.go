/*
 * @module service/roi/roi_service_test
 * @description RWE投资回报测算测试
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 构造场景 -> 测算 -> 验证各分项
 * @rules 覆盖零折现率、负参数防护和场景CRUD
 * @dependencies testing, github.com/stretchr/testify, readiness-service/testutil
 * @refs roi_service.go
 */

package roi

import (
	"math"
	"testing"

	"readiness-service/service/models"
	"readiness-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScenario() *models.TrialScenario {
	return &models.TrialScenario{
		Name:                   "肿瘤适应症RWE增强场景",
		BaselineDurationMonths: 36,
		PatientsTreatment:      300,
		PatientsControl:        300,
		CostPerPatientUSD:      50_000,
		ProbRegAcceptRWE:       0.75,
		ProbRegAcceptTrad:      0.60,
		DiscountRateAnnual:     0.10,
		MonthlyBenefitUSD:      2_000_000,
	}
}

func TestNPVCashflowsZeroRateIsPlainSum(t *testing.T) {
	npv := NPVCashflows([]float64{100, 100, 100}, 0, 12)
	assert.InDelta(t, 300, npv, 1e-9)
}

func TestNPVCashflowsDiscountsLaterPeriods(t *testing.T) {
	npv := NPVCashflows([]float64{100, 100}, 0.12, 12)
	// 月利率1%：100/1.01 + 100/1.01^2
	expected := 100/1.01 + 100/math.Pow(1.01, 2)
	assert.InDelta(t, expected, npv, 1e-9)
	assert.Less(t, npv, 200.0)
}

func TestNPVCashflowsNegativeRateGuarded(t *testing.T) {
	npv := NPVCashflows([]float64{100, 100}, -0.5, 12)
	assert.InDelta(t, 200, npv, 1e-9)
}

func TestSummarizeComponents(t *testing.T) {
	summary := Summarize(sampleScenario(), 6)

	// 600名患者 × 5万美元 × 15%
	assert.InDelta(t, 4_500_000, summary.Savings, 1e-6)
	// 概率提升0.15 × 1000万美元
	assert.InDelta(t, 1_500_000, summary.EVUplift, 1e-6)
	// 6个月月度收益的折现值小于名义值
	assert.Less(t, summary.DiscountedBenefit, 12_000_000.0)
	assert.Greater(t, summary.DiscountedBenefit, 11_000_000.0)
	assert.InDelta(t, summary.Savings+summary.DiscountedBenefit+summary.EVUplift, summary.TotalROI, 1e-6)
}

func TestSummarizeNegativeMonthsSavedGuarded(t *testing.T) {
	summary := Summarize(sampleScenario(), -3)
	assert.Equal(t, 0, summary.MonthsSaved)
	assert.Equal(t, 0.0, summary.DiscountedBenefit)
}

func TestSummarizeNoProbabilityUplift(t *testing.T) {
	scenario := sampleScenario()
	scenario.ProbRegAcceptRWE = 0.50
	scenario.ProbRegAcceptTrad = 0.60

	summary := Summarize(scenario, 6)
	assert.Equal(t, 0.0, summary.EVUplift)
}

func TestScenarioCRUDAndSummarizeByID(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewService(tdb.DB)

	scenario := sampleScenario()
	require.NoError(t, service.CreateScenario(scenario))
	require.NotEmpty(t, scenario.ID)

	summary, err := service.SummarizeByID(scenario.ID, 6)
	require.NoError(t, err)
	assert.InDelta(t, 4_500_000, summary.Savings, 1e-6)

	require.NoError(t, service.UpdateScenario(scenario.ID, map[string]interface{}{"monthly_benefit_usd": 0}))
	summary, err = service.SummarizeByID(scenario.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.DiscountedBenefit)

	require.NoError(t, service.DeleteScenario(scenario.ID))
	_, err = service.GetScenario(scenario.ID)
	assert.Error(t, err)
}

func TestScenarioNameRequired(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()
	service := NewService(tdb.DB)

	err := service.CreateScenario(&models.TrialScenario{})
	assert.Error(t, err)
}
