// Package easytest 提供针对依赖注入应用的单元测试便捷层。
//
// Kit 封装一个被测应用：服务按名称注入，模块实现可在注入器创建之前
// 被替换，控制器连同新建作用域一起实例化，标记片段可编译为 DOM 供断言。
// 配合 shape 包可以对服务、控制器和作用域做轻量的形状断言。
package easytest

import (
	"github.com/gocrud/easytest/config"
	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
	"github.com/gocrud/easytest/web"
)

// TestReporter 测试报告接口，*testing.T 天然满足
type TestReporter interface {
	Helper()
	Logf(format string, args ...any)
	Fatalf(format string, args ...any)
	Cleanup(func())
}

// Override 模块内命名服务的替换项
type Override struct {
	Name  string
	Value any
}

// Resolver 按名称解析服务
type Resolver interface {
	Resolve(names ...string) ([]any, error)
}

// ModuleMocker 在注入器创建之前替换模块内的服务实现
type ModuleMocker interface {
	TryMockModule(module string, overrides ...Override) error
}

// ControllerFactory 实例化命名控制器及其作用域
type ControllerFactory interface {
	TryController(name string, bindings map[string]any) (*web.ControllerInstance, error)
}

// MarkupCompiler 将标记片段与作用域渲染为 DOM
type MarkupCompiler interface {
	TryCompile(markup string, scope *web.Scope) (*web.Element, error)
}

// Kit 测试工具箱
// 解析操作触发注入器创建，此后 MockModule 将报错。
type Kit struct {
	t   TestReporter
	app *core.Application
}

type kitOptions struct {
	environment   string
	configuration map[string]any
	configureLog  func(*logging.LoggingBuilder)
	configurators []core.Configurator
	controllers   map[string]any
	configureWeb  func(*web.Builder)
}

// Option 配置 Kit
type Option func(*kitOptions)

// WithEnvironment 设置环境名（默认 test）
func WithEnvironment(env string) Option {
	return func(o *kitOptions) {
		o.environment = env
	}
}

// WithConfiguration 添加内存配置
func WithConfiguration(values map[string]any) Option {
	return func(o *kitOptions) {
		o.configuration = values
	}
}

// WithLogging 定制日志系统
func WithLogging(configure func(*logging.LoggingBuilder)) Option {
	return func(o *kitOptions) {
		o.configureLog = configure
	}
}

// WithModules 添加模块配置器（database.Configure、redis.Configure 等）
// Web 模块由 Kit 统一配置，请使用 WithControllers / WithWeb。
func WithModules(configurators ...core.Configurator) Option {
	return func(o *kitOptions) {
		o.configurators = append(o.configurators, configurators...)
	}
}

// WithControllers 注册命名控制器构造函数
func WithControllers(controllers map[string]any) Option {
	return func(o *kitOptions) {
		for name, ctor := range controllers {
			o.controllers[name] = ctor
		}
	}
}

// WithWeb 定制 Web 模块（中间件、模板函数等）
func WithWeb(configure func(*web.Builder)) Option {
	return func(o *kitOptions) {
		o.configureWeb = configure
	}
}

// New 创建测试工具箱
// 构建失败直接终止当前测试。应用的清理函数挂接到 t.Cleanup。
func New(t TestReporter, opts ...Option) *Kit {
	t.Helper()

	options := &kitOptions{
		environment: "test",
		controllers: make(map[string]any),
	}
	for _, opt := range opts {
		opt(options)
	}

	builder := core.NewApplicationBuilder()
	builder.UseEnvironment(options.environment)

	if options.configuration != nil {
		builder.ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(options.configuration)
		})
	}
	if options.configureLog != nil {
		builder.ConfigureLogging(options.configureLog)
	}

	builder.Configure(options.configurators...)
	builder.Configure(web.Configure(func(b *web.Builder) {
		for name, ctor := range options.controllers {
			b.AddController(name, ctor)
		}
		if options.configureWeb != nil {
			options.configureWeb(b)
		}
	}))

	app, err := builder.Build()
	if err != nil {
		t.Fatalf("easytest: failed to build application: %v", err)
		return nil
	}
	t.Cleanup(app.Close)

	return &Kit{t: t, app: app}
}

// App 返回被测应用
func (k *Kit) App() *core.Application {
	return k.app
}

// Services 返回 DI 容器
func (k *Kit) Services() di.Container {
	return k.app.Services()
}

// NewScope 创建新的根作用域
func (k *Kit) NewScope() *web.Scope {
	return web.NewScope()
}

// Resolve 按名称解析服务，结果与名称顺序一致
func (k *Kit) Resolve(names ...string) ([]any, error) {
	values := make([]any, len(names))
	for i, name := range names {
		value, err := k.app.GetServiceByName(name)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// Inject 按名称解析服务，失败终止测试
func (k *Kit) Inject(names ...string) []any {
	k.t.Helper()
	values, err := k.Resolve(names...)
	if err != nil {
		k.t.Fatalf("easytest: failed to inject services: %v", err)
	}
	return values
}

// TryMockModule 替换模块内的命名服务实现
// 必须发生在第一次解析之前，否则注入器已创建，返回错误。
func (k *Kit) TryMockModule(module string, overrides ...Override) error {
	for _, override := range overrides {
		if err := k.app.Override(module, override.Name, override.Value); err != nil {
			return err
		}
	}
	return nil
}

// MockModule 替换模块内的命名服务实现，失败终止测试
func (k *Kit) MockModule(module string, overrides ...Override) {
	k.t.Helper()
	if err := k.TryMockModule(module, overrides...); err != nil {
		k.t.Fatalf("easytest: failed to mock module %q: %v", module, err)
	}
}

// TryController 实例化命名控制器
// bindings 在构造函数执行前写入新作用域。
func (k *Kit) TryController(name string, bindings map[string]any) (*web.ControllerInstance, error) {
	if err := k.app.EnsureBuilt(); err != nil {
		return nil, err
	}
	registry, err := di.Resolve[*web.Registry](k.app.Services())
	if err != nil {
		return nil, err
	}
	return registry.Create(name, bindings)
}

// Controller 实例化命名控制器，失败终止测试
func (k *Kit) Controller(name string, bindings map[string]any) *web.ControllerInstance {
	k.t.Helper()
	instance, err := k.TryController(name, bindings)
	if err != nil {
		k.t.Fatalf("easytest: failed to create controller %q: %v", name, err)
	}
	return instance
}

// TryCompile 渲染标记片段
// scope 为 nil 时使用新建的空作用域。
func (k *Kit) TryCompile(markup string, scope *web.Scope) (*web.Element, error) {
	if err := k.app.EnsureBuilt(); err != nil {
		return nil, err
	}
	compiler, err := di.Resolve[*web.Compiler](k.app.Services())
	if err != nil {
		return nil, err
	}
	if scope == nil {
		scope = web.NewScope()
	}
	return compiler.Compile(markup, scope)
}

// Compile 渲染标记片段，失败终止测试
func (k *Kit) Compile(markup string, scope *web.Scope) *web.Element {
	k.t.Helper()
	element, err := k.TryCompile(markup, scope)
	if err != nil {
		k.t.Fatalf("easytest: failed to compile markup: %v", err)
	}
	return element
}
