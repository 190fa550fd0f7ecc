package cron

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/gocrud/easytest/logging"
)

// Scheduler 定时任务调度器
// 除按表达式调度外，还支持在测试中按名称手动触发任务。
type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
	mu     sync.RWMutex
	jobs   map[string]jobEntry
}

type jobEntry struct {
	id      cron.EntryID
	handler func()
}

type options struct {
	Location         string
	EnableSeconds    bool
	EnableCronLogger bool
	Logger           logging.Logger
}

// NewScheduler 创建独立的调度器（不经过配置器，使用默认控制台日志）
func NewScheduler() *Scheduler {
	return newScheduler(logging.NewLogger(), nil)
}

func newScheduler(logger logging.Logger, configure func(*options)) *Scheduler {
	opt := &options{
		Location: "UTC",
		Logger:   logger,
	}
	if configure != nil {
		configure(opt)
	}

	cronOpts := []cron.Option{}
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(newCronLogger(opt.Logger)))
	}
	cronOpts = append(cronOpts, cron.WithChain(
		cron.Recover(newCronLogger(opt.Logger)),
	))
	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &Scheduler{
		cron:   cron.New(cronOpts...),
		logger: opt.Logger,
		jobs:   make(map[string]jobEntry),
	}
}

// AddJob 注册定时任务
// spec 为 cron 表达式，如 "*/5 * * * *"；name 用于管理和手动触发。
func (s *Scheduler) AddJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("cron job '%s' already registered", name)
	}

	wrapped := func() {
		s.logger.Debug(fmt.Sprintf("Cron job '%s' started", name))
		defer s.logger.Debug(fmt.Sprintf("Cron job '%s' completed", name))
		job()
	}

	entryID, err := s.cron.AddFunc(spec, wrapped)
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", name, err)
	}

	s.jobs[name] = jobEntry{id: entryID, handler: wrapped}
	s.logger.Info(fmt.Sprintf("Cron job '%s' registered with spec '%s'", name, spec))
	return nil
}

// RemoveJob 移除定时任务
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, exists := s.jobs[name]; exists {
		s.cron.Remove(entry.id)
		delete(s.jobs, name)
	}
}

// Trigger 立即同步执行指定任务
// 测试无需等待调度周期，直接触发任务逻辑。
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	entry, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("cron job '%s' not found", name)
	}
	entry.handler()
	return nil
}

// Jobs 返回所有已注册的任务名称
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.logger.Info(fmt.Sprintf("Scheduler starting with %d jobs", len(s.jobs)))
	s.cron.Start()
}

// Stop 优雅停止调度器（等待运行中的任务完成）
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// cronLogger 将框架日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, convertToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := convertToFields(keysAndValues)
	fields = append(fields, logging.Field{Key: "error", Value: err.Error()})
	l.logger.Error(msg, fields...)
}

func convertToFields(keysAndValues []interface{}) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.Field{
			Key:   fmt.Sprintf("%v", keysAndValues[i]),
			Value: keysAndValues[i+1],
		})
	}
	return fields
}
