package logging

import (
	"sync"
)

// RecordedEntry 记录器捕获的一条日志
type RecordedEntry struct {
	Level    LogLevel
	Category string
	Message  string
	Fields   []Field
}

// Sink 接收格式化日志行的回调，*testing.T 的 Logf 可直接适配
type Sink func(format string, args ...any)

// RecorderProvider 测试用日志提供者：捕获全部日志条目，
// 便于断言被测应用记录了什么，同时可转发到测试输出。
type RecorderProvider struct {
	sink         Sink
	minimumLevel LogLevel

	mu      sync.Mutex
	entries []RecordedEntry
}

// NewRecorderProvider 创建日志记录器提供者。
// sink 可以为 nil（只记录不转发）。
func NewRecorderProvider(sink Sink) *RecorderProvider {
	return &RecorderProvider{
		sink:         sink,
		minimumLevel: LogLevelTrace,
	}
}

func (p *RecorderProvider) CreateLogger(category string) Logger {
	return &recorderLogger{provider: p, category: category}
}

func (p *RecorderProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

// Entries 返回已捕获日志的副本
func (p *RecorderProvider) Entries() []RecordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RecordedEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Contains 报告是否捕获过指定消息
func (p *RecorderProvider) Contains(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.entries {
		if e.Message == message {
			return true
		}
	}
	return false
}

func (p *RecorderProvider) record(entry RecordedEntry) {
	p.mu.Lock()
	if entry.Level < p.minimumLevel {
		p.mu.Unlock()
		return
	}
	p.entries = append(p.entries, entry)
	sink := p.sink
	p.mu.Unlock()

	if sink != nil {
		if entry.Category != "" {
			sink("%s [%s] %s %v", entry.Level, entry.Category, entry.Message, entry.Fields)
		} else {
			sink("%s %s %v", entry.Level, entry.Message, entry.Fields)
		}
	}
}

// recorderLogger 把日志转交给所属的 RecorderProvider
type recorderLogger struct {
	provider *RecorderProvider
	category string
	fields   []Field
}

func (l *recorderLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *recorderLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *recorderLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *recorderLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *recorderLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

// Fatal 在记录器下不终止进程，测试中直接退出会吞掉失败信息
func (l *recorderLogger) Fatal(msg string, fields ...Field) {
	l.Log(LogLevelFatal, msg, fields...)
}

func (l *recorderLogger) Log(level LogLevel, msg string, fields ...Field) {
	l.provider.record(RecordedEntry{
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   append(l.fields, fields...),
	})
}

func (l *recorderLogger) WithFields(fields ...Field) Logger {
	return &recorderLogger{
		provider: l.provider,
		category: l.category,
		fields:   append(l.fields, fields...),
	}
}

func (l *recorderLogger) WithCategory(category string) Logger {
	return &recorderLogger{
		provider: l.provider,
		category: category,
		fields:   l.fields,
	}
}
