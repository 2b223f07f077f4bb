/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、配置加载等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 应用启动时执行初始化流程：数据库连接 -> 迁移 -> 服务装配 -> 定时调度
 * @rules 确保所有依赖服务正常启动后才提供API服务；Redis不可用时降级为无缓存单实例模式
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/database/migrate.go, service/report
 */

package service

import (
	"fmt"
	"log"
	"os"
	"time"

	"readiness-service/logger"
	"readiness-service/service/database"
	"readiness-service/service/dataset"
	"readiness-service/service/distributed_lock"
	"readiness-service/service/report"
	"readiness-service/service/roi"

	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                         *gorm.DB
	GlobalDatasetService       *dataset.Service
	GlobalScoringConfigService *report.ScoringConfigService
	GlobalReportService        *report.ReportService
	GlobalROIService           *roi.Service
	GlobalReportScheduler      *report.ReportScheduler
)

func init() {
	logger.InitLogger()
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=UTC",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	log.Println("开始运行数据库迁移...")

	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库表结构迁移完成")

	if err := database.InitializeData(DB); err != nil {
		log.Fatalf("基础数据初始化失败: %v", err)
	}
	log.Println("基础数据初始化完成")
}

// initServices 初始化服务
func initServices() {
	GlobalDatasetService = dataset.NewService(DB)
	GlobalScoringConfigService = report.NewScoringConfigService(DB)
	GlobalReportService = report.NewReportService(DB, GlobalDatasetService, GlobalScoringConfigService)
	GlobalROIService = roi.NewService(DB)

	// Redis用于报告缓存与调度分布式锁，连接失败时降级为单实例模式
	var lock *distributed_lock.RedisLock
	if os.Getenv("REDIS_HOST") != "" {
		var err error
		lock, err = distributed_lock.NewRedisLock()
		if err != nil {
			log.Printf("Redis连接失败，降级为无缓存单实例模式: %v", err)
			lock = nil
		} else {
			GlobalReportService.SetCache(lock.Client())
		}
	}

	// 配置了调度表达式或间隔时启动报告调度器
	schedule := os.Getenv("REPORT_SCHEDULE")
	interval := time.Duration(cast.ToInt(os.Getenv("REPORT_INTERVAL_MINUTES"))) * time.Minute
	if schedule != "" || interval > 0 {
		GlobalReportScheduler = report.NewReportScheduler(GlobalReportService, schedule, interval)
		if lock != nil {
			GlobalReportScheduler.SetDistributedLock(lock)
		}
		if err := GlobalReportScheduler.Start(); err != nil {
			log.Printf("启动报告调度器失败: %v", err)
		}
	}

	log.Println("服务初始化完成")
}
