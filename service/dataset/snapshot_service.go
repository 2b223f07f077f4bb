/*
 * @module service/dataset/snapshot_service
 * @description 数据快照服务，管理各数据源扁平化快照的注册、查询与删除
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 解码行集合 -> 注册快照 -> 评分引用 -> 删除
 * @rules 快照创建后不可变；评分始终取每个数据源最新的一份快照
 * @dependencies readiness-service/service/models, gorm.io/gorm
 * @refs loader.go, service/report
 */

package dataset

import (
	"fmt"
	"io"

	"readiness-service/service/models"
	"readiness-service/service/scorecard"

	"gorm.io/gorm"
)

// Service 数据快照服务
type Service struct {
	db *gorm.DB
}

// NewService 创建数据快照服务实例
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RegisterSnapshot 解码并注册一份数据源快照
func (s *Service) RegisterSnapshot(sourceName, category, description, format string, r io.Reader) (*models.DatasetSnapshot, error) {
	if sourceName == "" {
		return nil, fmt.Errorf("数据源名称不能为空")
	}
	if !models.IsValidCategory(category) {
		return nil, fmt.Errorf("不支持的数据源类别: %s", category)
	}

	rows, err := DecodeRows(r, format)
	if err != nil {
		return nil, fmt.Errorf("解码数据源 %s 的快照失败: %w", sourceName, err)
	}

	snapshot := &models.DatasetSnapshot{
		SourceName:  sourceName,
		Category:    category,
		Description: description,
		Rows:        toJSONBArray(rows),
		RowCount:    len(rows),
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, fmt.Errorf("保存数据快照失败: %w", err)
	}

	return snapshot, nil
}

// GetSnapshot 按ID获取快照
func (s *Service) GetSnapshot(id string) (*models.DatasetSnapshot, error) {
	var snapshot models.DatasetSnapshot
	if err := s.db.First(&snapshot, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("获取数据快照失败: %w", err)
	}
	return &snapshot, nil
}

// ListSnapshots 分页获取快照列表，可按数据源名筛选
func (s *Service) ListSnapshots(page, size int, sourceName string) ([]models.DatasetSnapshot, int64, error) {
	query := s.db.Model(&models.DatasetSnapshot{})
	if sourceName != "" {
		query = query.Where("source_name = ?", sourceName)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计数据快照失败: %w", err)
	}

	var snapshots []models.DatasetSnapshot
	offset := (page - 1) * size
	err := query.Select("id", "source_name", "category", "description", "row_count", "created_at", "created_by").
		Order("created_at DESC").Offset(offset).Limit(size).
		Find(&snapshots).Error
	if err != nil {
		return nil, 0, fmt.Errorf("获取数据快照列表失败: %w", err)
	}

	return snapshots, total, nil
}

// PreviewSnapshot 预览快照前limit行
func (s *Service) PreviewSnapshot(id string, limit int) ([]models.JSONB, error) {
	snapshot, err := s.GetSnapshot(id)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(snapshot.Rows) {
		limit = len(snapshot.Rows)
	}
	return snapshot.Rows[:limit], nil
}

// DeleteSnapshot 删除快照
func (s *Service) DeleteSnapshot(id string) error {
	result := s.db.Delete(&models.DatasetSnapshot{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("删除数据快照失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("数据快照不存在: %s", id)
	}
	return nil
}

// LatestDatasets 取每个数据源最新的一份快照并转换为评分引擎输入
// sources为空时取库内全部数据源
func (s *Service) LatestDatasets(sources []string) (map[string]*scorecard.SourceDataset, error) {
	if len(sources) == 0 {
		if err := s.db.Model(&models.DatasetSnapshot{}).
			Distinct("source_name").Pluck("source_name", &sources).Error; err != nil {
			return nil, fmt.Errorf("获取数据源列表失败: %w", err)
		}
	}

	datasets := make(map[string]*scorecard.SourceDataset, len(sources))
	for _, source := range sources {
		var snapshot models.DatasetSnapshot
		err := s.db.Where("source_name = ?", source).
			Order("created_at DESC").First(&snapshot).Error
		if err != nil {
			return nil, fmt.Errorf("数据源 %s 没有可用快照: %w", source, err)
		}
		datasets[source] = SnapshotToDataset(&snapshot)
	}

	return datasets, nil
}

// SnapshotToDataset 将落库的快照转换为评分引擎的输入结构
func SnapshotToDataset(snapshot *models.DatasetSnapshot) *scorecard.SourceDataset {
	rows := make([]map[string]interface{}, 0, len(snapshot.Rows))
	for _, row := range snapshot.Rows {
		rows = append(rows, map[string]interface{}(row))
	}
	return &scorecard.SourceDataset{
		Name:     snapshot.SourceName,
		Category: snapshot.Category,
		Rows:     rows,
	}
}

func toJSONBArray(rows []map[string]interface{}) models.JSONBArray {
	out := make(models.JSONBArray, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.JSONB(row))
	}
	return out
}
