package core

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gocrud/easytest/config"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// ApplicationBuilder 被测应用构建器
type ApplicationBuilder struct {
	environment    string
	configBuilder  *config.ConfigurationBuilder
	loggingBuilder *logging.LoggingBuilder
	configurators  []Configurator
	mu             sync.RWMutex
}

// NewApplicationBuilder 创建应用构建器
// 默认环境为 test：这是一个测试工具，被测应用从不进入生产运行循环。
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		environment:    "test",
		configBuilder:  config.NewConfigurationBuilder(),
		loggingBuilder: logging.NewLoggingBuilder(),
		configurators:  make([]Configurator, 0),
	}
}

// UseEnvironment 设置环境
func (b *ApplicationBuilder) UseEnvironment(env string) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.environment = env
	return b
}

// ConfigureConfiguration 配置配置系统
func (b *ApplicationBuilder) ConfigureConfiguration(configure func(*config.ConfigurationBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.configBuilder)
	}
	return b
}

// ConfigureLogging 配置日志系统
func (b *ApplicationBuilder) ConfigureLogging(configure func(*logging.LoggingBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.loggingBuilder)
	}
	return b
}

// Configure 添加配置器（支持链式调用和可变参数）
func (b *ApplicationBuilder) Configure(configurators ...Configurator) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.configurators = append(b.configurators, configurators...)
	return b
}

// Build 构建被测应用
//
// 与生产框架不同，这里不急切构建 DI 容器：注入器延迟到第一次解析时创建，
// 以便测试在解析之前替换模块实现（见 Application.EnsureBuilt）。
func (b *ApplicationBuilder) Build() (*Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 构建配置
	configuration, err := b.configBuilder.Build()
	if err != nil {
		return nil, fmt.Errorf("core: failed to build configuration: %w", err)
	}

	// 构建日志工厂
	loggerFactory := b.loggingBuilder.Build()
	logger := loggerFactory.CreateLogger("Application")

	logger.Debug("Building application under test",
		logging.Field{Key: "environment", Value: b.environment})

	// 创建 DI 容器
	container := di.NewContainer()

	// 注册核心服务到容器
	di.Register[config.Configuration](container, di.WithValue(configuration))
	di.Register[logging.LoggerFactory](container, di.WithValue(loggerFactory))
	di.Register[logging.Logger](container, di.WithValue(logger))
	di.Register[di.Container](container, di.WithValue(container))

	// 创建 BuildContext
	buildContext := &BuildContext{
		container:     container,
		configuration: configuration,
		logger:        logger,
		environment:   NewEnvironment(b.environment),
	}

	// 执行所有配置器
	for _, configurator := range b.configurators {
		configurator(buildContext)
	}

	// 配置器上报的错误在此统一返回，调用方（测试）决定如何失败
	if errs := buildContext.configErrors(); len(errs) > 0 {
		return nil, fmt.Errorf("core: configuration failed: %w", errors.Join(errs...))
	}

	return &Application{
		container:     container,
		configuration: configuration,
		logger:        logger,
		environment:   buildContext.environment,
		cleanups:      buildContext.cleanups,
	}, nil
}

// BaseBuilder 提供基础的构建上下文能力
// 所有模块的 Builder 都应该嵌入此结构体
type BaseBuilder struct {
	ctx *BuildContext
}

// NewBaseBuilder 创建基础构建器
func NewBaseBuilder(ctx *BuildContext) BaseBuilder {
	return BaseBuilder{ctx: ctx}
}

// ConfigContext 获取构建上下文（受限接口）
func (b *BaseBuilder) ConfigContext() ConfigurationContext {
	return b.ctx
}

// RegisterCleanup 允许 Builder 注册清理函数（受保护的代理方法）
// 这样 Builder 内部可以注册清理，但通过 ConfigContext() 获取的接口无法注册
func (b *BaseBuilder) RegisterCleanup(key string, cleanup func()) {
	b.ctx.SetCleanup(key, cleanup)
}
