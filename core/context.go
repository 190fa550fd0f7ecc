package core

import (
	"sync"

	"github.com/gocrud/easytest/config"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// Configurator 配置器函数类型
// 配置器用于扩展被测应用，可以注册服务、配置模块等
type Configurator func(*BuildContext)

// ConfigurationContext 提供给模块 Builder 的受限上下文
type ConfigurationContext interface {
	GetConfiguration() config.Configuration
	GetLogger() logging.Logger
}

// cleanupEntry 清理函数及其注册键
type cleanupEntry struct {
	key string
	fn  func()
}

// BuildContext 构建上下文
// 提供给配置器的上下文环境，包含容器、配置、日志等核心组件
type BuildContext struct {
	// container DI 容器
	container di.Container

	// configuration 配置对象
	configuration config.Configuration

	// logger 日志记录器
	logger logging.Logger

	// environment 环境信息
	environment Environment

	// cleanups 清理函数，按注册顺序保存
	cleanups []cleanupEntry

	// errs 配置器报告的错误，Build 统一返回
	errs []error

	mu sync.RWMutex
}

// Container returns the underlying DI container.
// This allows using di.Register[T](ctx.Container(), ...) directly.
func (c *BuildContext) Container() di.Container {
	return c.container
}

// GetLogger 获取日志记录器
func (c *BuildContext) GetLogger() logging.Logger {
	return c.logger
}

// GetConfiguration 获取配置对象
func (c *BuildContext) GetConfiguration() config.Configuration {
	return c.configuration
}

// GetEnvironment 获取环境信息
func (c *BuildContext) GetEnvironment() Environment {
	return c.environment
}

// SetCleanup 设置资源清理函数
// 同名注册替换原函数并保留其顺序；清理按注册顺序的逆序执行。
func (c *BuildContext) SetCleanup(key string, cleanup func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.cleanups {
		if c.cleanups[i].key == key {
			c.cleanups[i].fn = cleanup
			return
		}
	}
	c.cleanups = append(c.cleanups, cleanupEntry{key: key, fn: cleanup})
}

// AddError 记录配置过程中发生的错误
// 配置器以此上报失败，Build 在全部配置器执行后统一返回，
// 而不是在配置中途终止进程。
func (c *BuildContext) AddError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// configErrors 返回配置器收集的错误
func (c *BuildContext) configErrors() []error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.errs
}

// Environment 环境信息
type Environment interface {
	Name() string
}

type environment struct {
	name string
}

// NewEnvironment 创建环境信息
func NewEnvironment(name string) Environment {
	return &environment{name: name}
}

func (e *environment) Name() string {
	return e.name
}
