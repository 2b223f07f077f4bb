/*
 * @module service/scorecard/recommend_test
 * @description 治理改进建议生成测试
 * @architecture 测试层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 构造评分记录 -> 生成建议 -> 验证内容与顺序
 * @rules 验证建议生成的确定性和类别特化查表
 * @dependencies testing, github.com/stretchr/testify
 * @refs recommend.go
 */

package scorecard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testThresholds() map[string]float64 {
	return map[string]float64{
		SubScoreCompleteness: 0.8,
		SubScoreConsistency:  0.8,
		SubScoreTimeliness:   0.5,
		SubScoreConformity:   0.7,
		SubScoreStandards:    0.6,
	}
}

func TestBuildRecommendationsFollowsCanonicalOrder(t *testing.T) {
	record := &ScoreRecord{
		Source:   "openfda",
		Category: CategoryAdverseEvent,
		SubScores: map[string]float64{
			SubScoreCompleteness: 0.4,
			SubScoreConsistency:  1.0,
			SubScoreTimeliness:   0.1,
			SubScoreConformity:   1.0,
			SubScoreStandards:    0.2,
		},
	}

	got := BuildRecommendations(record, testThresholds())
	assert.Equal(t, []string{
		AdvisoryFor(SubScoreCompleteness, CategoryAdverseEvent),
		AdvisoryFor(SubScoreTimeliness, CategoryAdverseEvent),
		AdvisoryFor(SubScoreStandards, CategoryAdverseEvent),
	}, got)
}

func TestBuildRecommendationsDeterministic(t *testing.T) {
	record := &ScoreRecord{
		Source:   "ctgov",
		Category: CategoryTrial,
		SubScores: map[string]float64{
			SubScoreCompleteness: 0.1,
			SubScoreConsistency:  0.1,
			SubScoreTimeliness:   0.1,
			SubScoreConformity:   0.1,
			SubScoreStandards:    0.1,
		},
	}

	first := BuildRecommendations(record, testThresholds())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildRecommendations(record, testThresholds()))
	}
	assert.Len(t, first, 5)
}

func TestBuildRecommendationsUsesCategorySpecificAdvice(t *testing.T) {
	record := &ScoreRecord{
		Source:   "ctgov",
		Category: CategoryTrial,
		SubScores: map[string]float64{
			SubScoreCompleteness: 1.0,
			SubScoreConsistency:  1.0,
			SubScoreTimeliness:   1.0,
			SubScoreConformity:   1.0,
			SubScoreStandards:    0.3,
		},
	}

	got := BuildRecommendations(record, testThresholds())
	assert.Equal(t, []string{AdvisoryFor(SubScoreStandards, CategoryTrial)}, got)
	assert.NotEqual(t, AdvisoryFor(SubScoreStandards, ""), AdvisoryFor(SubScoreStandards, CategoryTrial))
}

func TestBuildRecommendationsScoreAtThresholdNotTriggered(t *testing.T) {
	record := &ScoreRecord{
		Source:   "cdc",
		Category: CategoryObservation,
		SubScores: map[string]float64{
			SubScoreCompleteness: 0.8,
			SubScoreConsistency:  0.8,
			SubScoreTimeliness:   0.5,
			SubScoreConformity:   0.7,
			SubScoreStandards:    0.6,
		},
	}

	assert.Empty(t, BuildRecommendations(record, testThresholds()))
}

func TestBuildRecommendationsNoThresholdNoAdvice(t *testing.T) {
	record := &ScoreRecord{
		Source:    "cdc",
		Category:  CategoryObservation,
		SubScores: map[string]float64{SubScoreTimeliness: 0.0},
	}

	assert.Empty(t, BuildRecommendations(record, map[string]float64{}))
}
