/*
 * @module service/scorecard/standards
 * @description OMOP词表与FHIR资源结构的标准化就绪信号检测器，按数据源类别分发
 * @architecture 分层架构 - 业务服务层（纯计算）
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 行集合输入 -> 类别分发 -> OMOP/FHIR信号输出
 * @rules 新增数据源类别时只增加对应的类别检测器，不修改分发逻辑；无检测器的类别按0计并输出诊断
 * @dependencies regexp, strings
 * @refs engine.go, metrics.go
 */

package scorecard

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// ICD-10编码形态，如 C50 / J45.909
var icd10Pattern = regexp.MustCompile(`^[A-TV-Z][0-9]{2}(\.[0-9A-Za-z]{1,4})?$`)

// ISO 3166-1 alpha-2 常见国家代码集
var iso2Countries = buildSet(strings.Fields(
	"US GB DE FR IT ES CA AU BR IN CN JP KR NL SE CH DK NO FI PL PT IE AT BE CZ HU RO GR IL MX ZA AR CL CO NZ SG AE SA QA KW BH"))

func buildSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// standardsSignal 计算标准化维度的细分信号，按类别分发到对应检测器
func standardsSignal(rows []map[string]interface{}, category string) (StandardsSignal, []string) {
	var signal StandardsSignal
	var diags []string

	switch category {
	case CategoryAdverseEvent:
		signal.OmopVocab = omopAdverseEvent(rows)
		signal.FhirStruct = fhirAdverseEvent(rows)
	case CategoryTrial:
		signal.OmopVocab = omopTrial(rows)
		signal.FhirStruct = fhirTrial(rows)
	case CategoryObservation:
		signal.OmopVocab = omopGeneric(rows)
		signal.FhirStruct = fhirObservation(rows)
	default:
		diags = append(diags, "该类别没有可用的OMOP/FHIR检测器，标准化信号按0计")
	}

	return signal, diags
}

// omopAdverseEvent 不良事件类OMOP信号：MedDRA PT存在性0.5 + ISO国家代码占比0.3
// RxNorm药名映射未接入，对应0.2权重暂不计分
func omopAdverseEvent(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	meddra := 0.0
	if columnHasValue(rows, "reactionmeddrapt") {
		meddra = 1.0
	}
	iso := isoCountryShare(rows, "occurcountry")
	return clamp01(0.5*meddra + 0.3*iso)
}

// omopTrial 试验类OMOP信号：Condition中ICD-10形态占比0.7 + Phase列存在性0.3
func omopTrial(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	condShare := icd10Share(rows, "Condition")
	phase := 0.0
	if collectColumns(rows)["Phase"] {
		phase = 1.0
	}
	return clamp01(0.7*condShare + 0.3*phase)
}

// omopGeneric 通用OMOP信号：候选编码列的ICD-10占比0.7 + ISO国家代码占比0.3
func omopGeneric(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	icd := 0.0
	for _, col := range []string{"Condition", "diagnosis", "icd10", "icd_10", "icd_code"} {
		if share := icd10Share(rows, col); share > icd {
			icd = share
		}
	}
	iso := isoCountryShare(rows, "occurcountry")
	return clamp01(0.7*icd + 0.3*iso)
}

// fhirAdverseEvent AdverseEvent资源形态：标识0.4 + 日期0.3 + 严重性0.3
func fhirAdverseEvent(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	columns := collectColumns(rows)
	score := 0.0
	if columns["safetyreportid"] {
		score += 0.4
	}
	if columns["receiptdate"] || columns["receivedate"] {
		score += 0.3
	}
	if columns["serious"] {
		score += 0.3
	}
	return clamp01(score)
}

// fhirTrial ResearchStudy资源形态：NCT标识0.3 + 状态0.25 + 分期0.25 + 日期0.2
func fhirTrial(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	columns := collectColumns(rows)
	score := 0.0
	if columns["NCTId"] {
		score += 0.3
	}
	if columns["OverallStatus"] {
		score += 0.25
	}
	if columns["Phase"] {
		score += 0.25
	}
	if columns["StartDate"] || columns["CompletionDate"] {
		score += 0.2
	}
	return clamp01(score)
}

// fhirObservation Observation资源形态：日期列0.4 + 地理列0.3 + 数值列0.3
func fhirObservation(rows []map[string]interface{}) float64 {
	if len(rows) == 0 {
		return 0.0
	}

	score := 0.0
	if inferDateColumn(rows) != "" {
		score += 0.4
	}
	columns := collectColumns(rows)
	for _, col := range []string{"state", "geo", "location", "jurisdiction"} {
		if columns[col] {
			score += 0.3
			break
		}
	}
	if hasNumericColumn(rows) {
		score += 0.3
	}
	return clamp01(score)
}

// columnHasValue 某列是否在任意一行非空
func columnHasValue(rows []map[string]interface{}, column string) bool {
	for _, row := range rows {
		if isPresent(row[column]) {
			return true
		}
	}
	return false
}

// isoCountryShare 某列值属于ISO国家代码集的行占比
func isoCountryShare(rows []map[string]interface{}, column string) float64 {
	if len(rows) == 0 {
		return 0.0
	}
	hits := 0
	for _, row := range rows {
		code := strings.ToUpper(strings.TrimSpace(cast.ToString(row[column])))
		if _, ok := iso2Countries[code]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(rows))
}

// icd10Share 某列取值（分号分隔的多值拆开统计）符合ICD-10形态的占比
func icd10Share(rows []map[string]interface{}, column string) float64 {
	total := 0
	hits := 0
	for _, row := range rows {
		raw := cast.ToString(row[column])
		if strings.TrimSpace(raw) == "" {
			continue
		}
		for _, part := range strings.Split(raw, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			total++
			if icd10Pattern.MatchString(part) {
				hits++
			}
		}
	}
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// hasNumericColumn 行集合中是否存在可转换为数值的列
func hasNumericColumn(rows []map[string]interface{}) bool {
	columns := collectColumns(rows)
	dateCol := inferDateColumn(rows)
	for col := range columns {
		if col == dateCol {
			continue
		}
		for _, row := range rows {
			if !isPresent(row[col]) {
				continue
			}
			if _, err := cast.ToFloat64E(row[col]); err == nil {
				return true
			}
			break
		}
	}
	return false
}
