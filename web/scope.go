package web

import "sync"

// Scope 控制器视图模型
// 控制器在实例化时获得一个新的 Scope，向其写入供视图和测试读取的数据。
// Scope 支持父子层级：子作用域读取时未命中会回退到父作用域。
type Scope struct {
	parent *Scope
	values map[string]any
	mu     sync.RWMutex
}

// NewScope 创建根作用域
func NewScope() *Scope {
	return &Scope{
		values: make(map[string]any),
	}
}

// Child 创建子作用域
func (s *Scope) Child() *Scope {
	return &Scope{
		parent: s,
		values: make(map[string]any),
	}
}

// Set 设置成员值
func (s *Scope) Set(name string, value any) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = value
	return s
}

// SetAll 批量设置成员值
func (s *Scope) SetAll(values map[string]any) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, value := range values {
		s.values[name] = value
	}
	return s
}

// Get 获取成员值，未命中时沿父链向上查找
func (s *Scope) Get(name string) (any, bool) {
	s.mu.RLock()
	value, ok := s.values[name]
	s.mu.RUnlock()
	if ok {
		return value, true
	}
	if s.parent != nil {
		return s.parent.Get(name)
	}
	return nil, false
}

// Has 报告成员是否存在
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Member 实现 shape.Members，使形状检查无需反射即可访问作用域成员
func (s *Scope) Member(name string) (any, bool) {
	return s.Get(name)
}

// Values 返回当前作用域的成员快照（含父链，子级覆盖父级）
func (s *Scope) Values() map[string]any {
	snapshot := make(map[string]any)
	if s.parent != nil {
		for name, value := range s.parent.Values() {
			snapshot[name] = value
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name, value := range s.values {
		snapshot[name] = value
	}
	return snapshot
}
