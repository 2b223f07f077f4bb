/*
 * @module service/scorecard/standards_test
 * @description OMOP/FHIR标准化信号检测器测试
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 构造行集合 -> 信号计算 -> 验证分数
 * @rules 覆盖三个类别检测器和未知类别回退
 * @dependencies testing, github.com/stretchr/testify
 * @refs standards.go
 */

package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOmopAdverseEventSignal(t *testing.T) {
	rows := []map[string]interface{}{
		{"reactionmeddrapt": "Nausea", "occurcountry": "US"},
		{"reactionmeddrapt": "Headache", "occurcountry": "GB"},
		{"reactionmeddrapt": "Rash", "occurcountry": "Atlantis"},
	}

	signal, diags := standardsSignal(rows, CategoryAdverseEvent)
	assert.Empty(t, diags)
	// MedDRA存在0.5 + ISO占比(2/3)×0.3
	assert.InDelta(t, 0.5+0.3*2.0/3.0, signal.OmopVocab, 1e-9)
}

func TestOmopTrialSignalSplitsConditionList(t *testing.T) {
	rows := []map[string]interface{}{
		{"Condition": "C50.9;breast cancer", "Phase": "Phase 3"},
		{"Condition": "J45.909", "Phase": "Phase 2"},
	}

	signal, diags := standardsSignal(rows, CategoryTrial)
	assert.Empty(t, diags)
	// 3个条件值中2个符合ICD-10形态，Phase列存在
	assert.InDelta(t, 0.7*2.0/3.0+0.3, signal.OmopVocab, 1e-9)
}

func TestFhirTrialShape(t *testing.T) {
	rows := []map[string]interface{}{
		{"NCTId": "NCT01234567", "OverallStatus": "Completed", "StartDate": "2024-01-01"},
	}

	signal, _ := standardsSignal(rows, CategoryTrial)
	// 缺少Phase列：0.3 + 0.25 + 0.2
	assert.InDelta(t, 0.75, signal.FhirStruct, 1e-9)
}

func TestFhirObservationShape(t *testing.T) {
	rows := []map[string]interface{}{
		{"week_ending_date": "2026-01-10", "state": "CA", "value": "12.5"},
	}

	signal, _ := standardsSignal(rows, CategoryObservation)
	assert.Equal(t, 1.0, signal.FhirStruct)
}

func TestFhirObservationShapeWithoutGeo(t *testing.T) {
	rows := []map[string]interface{}{
		{"week_ending_date": "2026-01-10", "value": "12.5"},
	}

	signal, _ := standardsSignal(rows, CategoryObservation)
	assert.InDelta(t, 0.7, signal.FhirStruct, 1e-9)
}

func TestStandardsUnknownCategoryDefaultsToZero(t *testing.T) {
	rows := []map[string]interface{}{
		{"foo": "bar"},
	}

	signal, diags := standardsSignal(rows, "genomics")
	assert.Equal(t, 0.0, signal.OmopVocab)
	assert.Equal(t, 0.0, signal.FhirStruct)
	assert.NotEmpty(t, diags)
}

func TestIcd10ShareIgnoresEmptyValues(t *testing.T) {
	rows := []map[string]interface{}{
		{"Condition": ""},
		{"Condition": "C50"},
	}

	assert.InDelta(t, 1.0, icd10Share(rows, "Condition"), 1e-9)
}

func TestIsoCountryShareNormalizesCase(t *testing.T) {
	rows := []map[string]interface{}{
		{"occurcountry": "us"},
		{"occurcountry": " de "},
		{"occurcountry": "zz"},
	}

	assert.InDelta(t, 2.0/3.0, isoCountryShare(rows, "occurcountry"), 1e-9)
}
