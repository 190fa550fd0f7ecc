package core

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gocrud/easytest/config"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// Application 被测应用
// 注入器（DI 容器）延迟到第一次解析时创建，之后模块不可再被替换。
type Application struct {
	container     di.Container
	configuration config.Configuration
	logger        logging.Logger
	environment   Environment
	cleanups      []cleanupEntry

	buildOnce sync.Once
	buildErr  error
	closeOnce sync.Once
}

// EnsureBuilt 创建注入器（如果尚未创建）
func (a *Application) EnsureBuilt() error {
	a.buildOnce.Do(func() {
		a.buildErr = a.container.Build()
	})
	return a.buildErr
}

// Built 报告注入器是否已创建
func (a *Application) Built() bool {
	return a.container.Built()
}

// Services 返回 DI 容器
func (a *Application) Services() di.Container {
	return a.container
}

// Configuration 返回配置对象
func (a *Application) Configuration() config.Configuration {
	return a.configuration
}

// Logger 返回日志记录器
func (a *Application) Logger() logging.Logger {
	return a.logger
}

// Environment 返回环境信息
func (a *Application) Environment() Environment {
	return a.environment
}

// GetService 解析服务到指针目标
//
// 用法:
//
//	var svc *UserService
//	if err := app.GetService(&svc); err != nil { ... }
func (a *Application) GetService(ptr any) error {
	if err := a.EnsureBuilt(); err != nil {
		return err
	}

	val := reflect.ValueOf(ptr)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("core: GetService requires a non-nil pointer, got %T", ptr)
	}

	target := val.Elem()
	instance, err := a.container.Get(target.Type())
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(instance))
	return nil
}

// GetServiceByName 按名称解析服务
func (a *Application) GetServiceByName(name string) (any, error) {
	if err := a.EnsureBuilt(); err != nil {
		return nil, err
	}
	return a.container.GetByName(name)
}

// Override 在注入器创建之前替换模块内的命名服务
func (a *Application) Override(module, name string, value any) error {
	return a.container.Override(module, name, value)
}

// Close 执行所有已注册的清理函数
// 按注册顺序的逆序执行：后配置的模块先关闭。
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		for i := len(a.cleanups) - 1; i >= 0; i-- {
			entry := a.cleanups[i]
			a.logger.Debug("Running cleanup", logging.Field{Key: "key", Value: entry.key})
			entry.fn()
		}
	})
}
