/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构
 * @architecture 数据访问层 - 迁移管理
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 应用启动时执行数据库迁移 -> 初始化基础数据
 * @rules 确保数据库结构与模型定义保持一致；评分配置缺失时写入内置默认
 * @dependencies readiness-service/service/models, readiness-service/service/config, gorm.io/gorm
 * @refs service/init.go, service/config/scoring_defaults.go
 */

package database

import (
	"errors"
	"log"
	"os"

	"readiness-service/service/config"
	"readiness-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 数据快照相关表
	err := db.AutoMigrate(
		&models.DatasetSnapshot{},
	)
	if err != nil {
		return err
	}

	// 评分与报告相关表
	err = db.AutoMigrate(
		&models.ScoringConfig{},
		&models.ReadinessReport{},
	)
	if err != nil {
		return err
	}

	// ROI情景相关表
	err = db.AutoMigrate(
		&models.TrialScenario{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}

// InitializeData 初始化基础数据
// 已存在启用中的评分配置时保持不变，否则从内置默认（可被SCORING_CONFIG_PATH指向的YAML覆盖）写入一份
func InitializeData(db *gorm.DB) error {
	log.Println("开始初始化基础数据...")

	var existing models.ScoringConfig
	err := db.Where("is_active = ?", true).First(&existing).Error
	if err == nil {
		log.Printf("评分配置已存在: %s", existing.Name)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	defaults, err := config.LoadScoringDefaults(os.Getenv("SCORING_CONFIG_PATH"))
	if err != nil {
		return err
	}

	cfg := defaults.ToModel("默认评分配置")
	if err := db.Create(cfg).Error; err != nil {
		return err
	}

	log.Printf("默认评分配置初始化完成: %s", cfg.ID)
	return nil
}
