/*
 * @module service/scorecard/types
 * @description 治理评分引擎的输入输出类型定义
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 快照输入 -> 评分计算 -> 评分记录输出
 * @rules 引擎输入输出均为纯内存结构，不耦合数据库模型
 * @dependencies time
 * @refs engine.go, service/report
 */

package scorecard

import (
	"math"
	"time"
)

// 数据源类别，决定标准化检测器的选择
const (
	CategoryAdverseEvent = "adverse_event"
	CategoryTrial        = "trial"
	CategoryObservation  = "observation"
)

// 五个子维度名称
const (
	SubScoreCompleteness = "completeness"
	SubScoreConsistency  = "consistency"
	SubScoreTimeliness   = "timeliness"
	SubScoreConformity   = "conformity"
	SubScoreStandards    = "standards"
)

// SubScoreOrder 子维度的规范顺序，建议生成和表格输出都按此顺序遍历
var SubScoreOrder = []string{
	SubScoreCompleteness,
	SubScoreConsistency,
	SubScoreTimeliness,
	SubScoreConformity,
	SubScoreStandards,
}

// SourceDataset 一次评分运行中某个数据源的不可变扁平化快照
type SourceDataset struct {
	Name     string                   `json:"name"`
	Category string                   `json:"category"`
	Rows     []map[string]interface{} `json:"rows"`
}

// Config 评分配置
type Config struct {
	// Weights 子维度权重，空表示等权；计算前归一化为和为1
	Weights map[string]float64 `json:"weights"`
	// Thresholds 子维度建议触发阈值，子分数严格低于阈值时产生建议
	Thresholds map[string]float64 `json:"thresholds"`
	// RecentWindowDays 时效性判定窗口（天）
	RecentWindowDays int `json:"recent_window_days"`
	// RequiredFields 数据源 -> 完整性必填字段
	RequiredFields map[string][]string `json:"required_fields"`
	// ConsistencyKeys 数据源 -> 主键列；未配置表示该数据源没有一致性检测器
	ConsistencyKeys map[string][]string `json:"consistency_keys"`
	// DateColumns 数据源 -> 时间戳列；未配置时按候选列名自动推断
	DateColumns map[string]string `json:"date_columns"`
}

// StandardsSignal 标准化维度的细分信号
type StandardsSignal struct {
	OmopVocab  float64 `json:"omop_vocab"`  // OMOP词表命中率
	FhirStruct float64 `json:"fhir_struct"` // FHIR资源结构命中率
}

// ScoreRecord 单个数据源的评分记录
// 子分数与总分均保留全精度，展示时再四舍五入到两位小数
type ScoreRecord struct {
	Source      string             `json:"source"`
	Category    string             `json:"category"`
	RowCount    int                `json:"row_count"`
	SubScores   map[string]float64 `json:"sub_scores"`
	Standards   StandardsSignal    `json:"standards_signal"`
	Overall     float64            `json:"overall_score"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
}

// RunResult 一次评分运行的完整结果
type RunResult struct {
	GeneratedAt     time.Time           `json:"generated_at"`
	Records         []*ScoreRecord      `json:"records"` // 按数据源名排序
	Recommendations map[string][]string `json:"recommendations"`
	PortfolioScore  float64             `json:"portfolio_score"` // 各数据源总分的全精度平均
}

// Round2 四舍五入到两位小数，用于展示层
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp01 将分数收敛到[0,1]区间
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
