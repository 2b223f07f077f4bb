/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试数据库与测试数据工厂
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 测试数据库使用内存sqlite，不依赖外部服务
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"readiness-service/service/config"
	"readiness-service/service/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建测试数据库
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.DatasetSnapshot{},
		&models.ScoringConfig{},
		&models.ReadinessReport{},
		&models.TrialScenario{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"dataset_snapshots",
		"scoring_configs",
		"readiness_reports",
		"trial_scenarios",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// SeedScoringConfig 基于内置评分默认值写入一份启用中的评分配置
func (tdb *TestDB) SeedScoringConfig() *models.ScoringConfig {
	cfg := config.DefaultScoringConfig().ToModel("测试评分配置")
	if err := tdb.DB.Create(cfg).Error; err != nil {
		panic(fmt.Sprintf("failed to seed scoring config: %v", err))
	}
	return cfg
}

// SnapshotOption 快照选项函数类型
type SnapshotOption func(*models.DatasetSnapshot)

// CreateSnapshot 创建测试数据快照
func (tdb *TestDB) CreateSnapshot(sourceName, category string, rows []map[string]interface{}, opts ...SnapshotOption) *models.DatasetSnapshot {
	jsonbRows := make(models.JSONBArray, 0, len(rows))
	for _, row := range rows {
		jsonbRows = append(jsonbRows, models.JSONB(row))
	}

	snapshot := &models.DatasetSnapshot{
		SourceName: sourceName,
		Category:   category,
		Rows:       jsonbRows,
		RowCount:   len(rows),
		CreatedAt:  time.Now(),
		CreatedBy:  "test",
	}
	for _, opt := range opts {
		opt(snapshot)
	}

	if err := tdb.DB.Create(snapshot).Error; err != nil {
		panic(fmt.Sprintf("failed to create test snapshot: %v", err))
	}
	return snapshot
}
