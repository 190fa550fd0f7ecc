package cron

import (
	"fmt"
	"reflect"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// Builder Cron 模块构建器
type Builder struct {
	core.BaseBuilder
	enableSeconds    bool
	enableCronLogger bool
	location         string
	autoStart        bool
	jobs             []jobDefinition
}

type jobDefinition struct {
	spec    string
	name    string
	handler any
}

// NewBuilder 创建 Cron 构建器
func NewBuilder(ctx *core.BuildContext) *Builder {
	return &Builder{
		BaseBuilder: core.NewBaseBuilder(ctx),
		location:    "UTC",
		jobs:        make([]jobDefinition, 0),
	}
}

// WithSeconds 启用秒级精度
func (b *Builder) WithSeconds() *Builder {
	b.enableSeconds = true
	return b
}

// WithLocation 设置时区
func (b *Builder) WithLocation(location string) *Builder {
	b.location = location
	return b
}

// EnableCronLogger 启用 cron 库的内部调度日志
func (b *Builder) EnableCronLogger() *Builder {
	b.enableCronLogger = true
	return b
}

// AutoStart 构建后立即启动调度器
// 默认不启动：测试通常只用 Trigger 手动触发任务。
func (b *Builder) AutoStart() *Builder {
	b.autoStart = true
	return b
}

// AddJob 添加简单任务（无依赖注入）
func (b *Builder) AddJob(spec, name string, handler func()) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, handler: handler})
	return b
}

// AddJobWithDI 添加带依赖注入的任务
// handler 的参数在任务执行时从容器解析。
//
// 示例：
//
//	b.AddJobWithDI("*/5 * * * *", "sync-data", func(svc *DataService) {
//	    svc.Sync()
//	})
func (b *Builder) AddJobWithDI(spec, name string, handler any) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, handler: handler})
	return b
}

// build 构建调度器（内部使用）
func (b *Builder) build(container di.Container, logger logging.Logger) (*Scheduler, error) {
	scheduler := newScheduler(logger, func(opt *options) {
		opt.EnableSeconds = b.enableSeconds
		opt.EnableCronLogger = b.enableCronLogger
		opt.Location = b.location
	})

	for _, job := range b.jobs {
		switch handler := job.handler.(type) {
		case func():
			if err := scheduler.AddJob(job.spec, job.name, handler); err != nil {
				return nil, fmt.Errorf("failed to add job '%s': %w", job.name, err)
			}
		default:
			wrapped, err := wrapHandlerWithDI(container, logger, handler)
			if err != nil {
				return nil, fmt.Errorf("failed to wrap job '%s' with DI: %w", job.name, err)
			}
			if err := scheduler.AddJob(job.spec, job.name, wrapped); err != nil {
				return nil, fmt.Errorf("failed to add job '%s': %w", job.name, err)
			}
		}
	}

	return scheduler, nil
}

// wrapHandlerWithDI 包装处理器，执行时从容器解析参数
func wrapHandlerWithDI(container di.Container, logger logging.Logger, handler any) (func(), error) {
	handlerValue := reflect.ValueOf(handler)
	handlerType := handlerValue.Type()

	if handlerType.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function, got %v", handlerType.Kind())
	}

	return func() {
		args := make([]reflect.Value, handlerType.NumIn())
		for i := 0; i < handlerType.NumIn(); i++ {
			paramType := handlerType.In(i)
			instance, err := container.Get(paramType)
			if err != nil {
				logger.Error(fmt.Sprintf("Failed to resolve parameter %d (%v) for cron job", i, paramType),
					logging.Field{Key: "error", Value: err.Error()})
				return
			}
			args[i] = reflect.ValueOf(instance)
		}

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Cron job panicked",
					logging.Field{Key: "panic", Value: r})
			}
		}()

		handlerValue.Call(args)
	}, nil
}
