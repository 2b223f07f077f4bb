/*
 * @module service/scorecard/recommend
 * @description 治理改进建议生成，按(子维度, 数据源类别)查固定建议表
 * @architecture 分层架构 - 业务服务层（纯计算）
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 评分记录输入 -> 阈值比较 -> 按规范顺序输出建议列表
 * @rules 子分数严格低于阈值才触发建议；遍历顺序固定为SubScoreOrder，保证输出确定
 * @dependencies 无外部依赖
 * @refs engine.go, types.go
 */

package scorecard

// advisoryKey 建议表键，Category为空表示类别通用建议
type advisoryKey struct {
	SubScore string
	Category string
}

// 固定建议表；先查(子维度, 类别)，未命中再查(子维度, "")
var advisoryTable = map[advisoryKey]string{
	{SubScoreCompleteness, ""}:                  "关键字段缺失率偏高，建议补全数据源必填字段映射并在入库前做非空校验",
	{SubScoreConsistency, ""}:                   "检测到主键重复或键列缺失，建议在入库流程中增加去重与键完整性校验",
	{SubScoreTimeliness, ""}:                    "数据新鲜度不足，建议缩短数据摄取周期以降低数据延迟",
	{SubScoreTimeliness, CategoryAdverseEvent}:  "不良事件快照新鲜度不足，建议提高FAERS快照更新频率以降低数据延迟",
	{SubScoreConformity, ""}:                    "数据结构与该类别最小schema差距较大，建议规范字段命名与最小字段集",
	{SubScoreStandards, ""}:                     "OMOP/FHIR标准化信号偏弱，建议补充词表映射（MedDRA/RxNorm/ICD/LOINC）",
	{SubScoreStandards, CategoryTrial}:          "建议将试验条件(Condition)映射到ICD-10/MedDRA词表，并规范Phase取值",
	{SubScoreStandards, CategoryObservation}:    "建议为观察指标补充LOINC编码与标准地理编码，提升FHIR Observation映射度",
}

// BuildRecommendations 根据评分记录与阈值生成建议列表
// 按SubScoreOrder规范顺序遍历，相同输入必然产生相同的有序输出
func BuildRecommendations(record *ScoreRecord, thresholds map[string]float64) []string {
	recommendations := make([]string, 0)
	for _, sub := range SubScoreOrder {
		threshold, ok := thresholds[sub]
		if !ok {
			continue
		}
		if record.SubScores[sub] >= threshold {
			continue
		}

		if advice, ok := advisoryTable[advisoryKey{sub, record.Category}]; ok {
			recommendations = append(recommendations, advice)
			continue
		}
		if advice, ok := advisoryTable[advisoryKey{sub, ""}]; ok {
			recommendations = append(recommendations, advice)
		}
	}
	return recommendations
}

// AdvisoryFor 查询某个子维度在指定类别下的建议文案，测试与展示层使用
func AdvisoryFor(subScore, category string) string {
	if advice, ok := advisoryTable[advisoryKey{subScore, category}]; ok {
		return advice
	}
	return advisoryTable[advisoryKey{subScore, ""}]
}
