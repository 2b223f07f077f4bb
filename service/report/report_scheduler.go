/*
 * @module service/report/report_scheduler
 * @description 就绪度报告定时调度器，支持cron表达式与固定间隔两种调度方式
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/readiness_requirements.md
 * @stateFlow 启动调度器 -> 定时触发 -> 获取分布式锁 -> 生成报告 -> 释放锁
 * @rules 多实例部署时通过分布式锁保证同一时刻只有一个实例执行定时报告；未配置锁时直接执行
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs report_service.go, service/init.go
 */

package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"readiness-service/service/distributed_lock"
	"readiness-service/service/models"

	"github.com/robfig/cron/v3"
)

const scheduleLockKey = "readiness:report:schedule"

// ReportScheduler 报告定时调度器
type ReportScheduler struct {
	service  *ReportService
	cron     *cron.Cron
	ticker   *time.Ticker
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	lock     distributed_lock.DistributedLock
	schedule string
	interval time.Duration
}

// NewReportScheduler 创建报告调度器
// schedule为带秒位的cron表达式；interval>0时使用固定间隔调度，二者配置其一
func NewReportScheduler(service *ReportService, schedule string, interval time.Duration) *ReportScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &ReportScheduler{
		service:  service,
		cron:     cron.New(cron.WithSeconds()),
		ctx:      ctx,
		cancel:   cancel,
		schedule: schedule,
		interval: interval,
	}
}

// SetDistributedLock 设置分布式锁
func (rs *ReportScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	rs.lock = lock
	if lock != nil {
		slog.Info("报告调度器已启用分布式锁")
	}
}

// Start 启动调度器
func (rs *ReportScheduler) Start() error {
	if rs.started {
		return fmt.Errorf("调度器已经启动")
	}
	if rs.schedule == "" && rs.interval <= 0 {
		return fmt.Errorf("未配置调度方式，需要cron表达式或固定间隔")
	}

	if rs.schedule != "" {
		if _, err := rs.cron.AddFunc(rs.schedule, rs.runScheduledReport); err != nil {
			return fmt.Errorf("解析报告调度表达式失败: %w", err)
		}
		rs.cron.Start()
		slog.Info("报告cron调度已启动", "schedule", rs.schedule)
	} else {
		rs.ticker = time.NewTicker(rs.interval)
		go rs.runIntervalLoop()
		slog.Info("报告间隔调度已启动", "interval", rs.interval.String())
	}

	rs.started = true
	return nil
}

// Stop 停止调度器
func (rs *ReportScheduler) Stop() {
	if !rs.started {
		return
	}

	rs.cancel()
	if rs.cron != nil {
		rs.cron.Stop()
	}
	if rs.ticker != nil {
		rs.ticker.Stop()
	}
	rs.started = false
	slog.Info("报告调度器已停止")
}

// runIntervalLoop 固定间隔调度循环
func (rs *ReportScheduler) runIntervalLoop() {
	for {
		select {
		case <-rs.ctx.Done():
			return
		case <-rs.ticker.C:
			rs.runScheduledReport()
		}
	}
}

// runScheduledReport 执行一次定时报告，配置了分布式锁时先抢锁
func (rs *ReportScheduler) runScheduledReport() {
	ctx, cancel := context.WithTimeout(rs.ctx, 5*time.Minute)
	defer cancel()

	if rs.lock != nil {
		acquired, err := rs.lock.TryLock(ctx, scheduleLockKey, 5*time.Minute)
		if err != nil {
			slog.Error("获取报告调度锁失败", "error", err)
			return
		}
		if !acquired {
			slog.Info("报告调度锁被其他实例持有，跳过本次执行")
			return
		}
		defer func() {
			if err := rs.lock.Unlock(ctx, scheduleLockKey); err != nil {
				slog.Warn("释放报告调度锁失败", "error", err)
			}
		}()
	}

	report, err := rs.service.GenerateReport(ctx, nil, models.ReportTriggerScheduled)
	if err != nil {
		slog.Error("定时报告生成失败", "error", err)
		return
	}
	slog.Info("定时报告生成成功", "report_id", report.ID, "portfolio_score", report.PortfolioScore)
}
