package logging

// LoggingBuilder 日志系统构建器
type LoggingBuilder struct {
	minimumLevel LogLevel
	providers    []LoggerProvider
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		minimumLevel: LogLevelInfo,
		providers:    make([]LoggerProvider, 0),
	}
}

// SetMinimumLevel 设置最低日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.minimumLevel = level
	return b
}

// AddConsole 添加控制台日志提供者
func (b *LoggingBuilder) AddConsole(options ConsoleLoggerOptions) *LoggingBuilder {
	b.providers = append(b.providers, NewConsoleLoggerProvider(options))
	return b
}

// AddProvider 添加自定义日志提供者
func (b *LoggingBuilder) AddProvider(provider LoggerProvider) *LoggingBuilder {
	b.providers = append(b.providers, provider)
	return b
}

// Build 构建日志工厂
// 没有配置任何提供者时默认输出到控制台。
func (b *LoggingBuilder) Build() LoggerFactory {
	factory := NewLoggerFactory()
	factory.SetMinimumLevel(b.minimumLevel)

	if len(b.providers) == 0 {
		factory.AddProvider(NewConsoleLoggerProvider(ConsoleLoggerOptions{}))
		return factory
	}

	for _, provider := range b.providers {
		factory.AddProvider(provider)
	}
	return factory
}
