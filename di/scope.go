package di

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Scope 表示作用域生命周期上下文。
type Scope interface {
	Container
	// Dispose 释放与作用域关联的资源。
	Dispose()
}

type scopeEntry struct {
	val atomic.Value // 存储实例（如果尚未创建则为 nil）
	mu  sync.Mutex   // 用于创建此特定实例的锁
}

type scope struct {
	parent  *container
	entries []scopeEntry // 按 ServiceDefinition.ID 索引的数组
}

func newScope(parent *container) *scope {
	count := parent.serviceCount()
	return &scope{
		parent:  parent,
		entries: make([]scopeEntry, count),
	}
}

func (s *scope) Add(def *ServiceDefinition) error {
	return fmt.Errorf("di: 无法在作用域上注册服务")
}

func (s *scope) Override(module, name string, value any) error {
	return fmt.Errorf("di: 无法在作用域上替换服务")
}

func (s *scope) Build() error {
	return nil // 作用域已基于父容器构建
}

func (s *scope) Built() bool {
	return s.parent.Built()
}

func (s *scope) CreateScope() Scope {
	return s.parent.CreateScope()
}

func (s *scope) Get(typ reflect.Type) (any, error) {
	return s.GetNamed(typ, "")
}

func (s *scope) GetNamed(typ reflect.Type, name string) (any, error) {
	// 1. 检查服务是否存在于父定义中
	key := ServiceKey{Type: typ, Name: name}
	def, ok := s.parent.definitions[key]
	if !ok {
		if name == "" {
			return nil, fmt.Errorf("di: 未找到服务 %v", typ)
		}
		return nil, fmt.Errorf("di: 未找到服务 %v (name=%s)", typ, name)
	}

	// 2. 处理不同作用域
	switch def.Scope {
	case ScopeSingleton:
		return s.parent.GetNamed(typ, name)

	case ScopeTransient:
		// 使用此作用域作为容器创建新实例（用于依赖项）
		return s.parent.resolver.createInstance(s, def)

	case ScopeScoped:
		// 使用 ID 进行 O(1) 数组访问
		if def.ID < 0 || def.ID >= len(s.entries) {
			return nil, fmt.Errorf("di: 内部错误，无效的服务 ID %d", def.ID)
		}

		// 切片大小在创建后固定，此指针是稳定的。
		entry := &s.entries[def.ID]

		// 快速路径：检查是否已创建
		if val := entry.val.Load(); val != nil {
			return val, nil
		}

		// 慢速路径：带锁创建
		entry.mu.Lock()
		defer entry.mu.Unlock()

		// 双重检查
		if val := entry.val.Load(); val != nil {
			return val, nil
		}

		instance, err := s.parent.resolver.createInstance(s, def)
		if err != nil {
			return nil, err
		}

		entry.val.Store(instance)
		return instance, nil
	}

	return nil, fmt.Errorf("di: 未知作用域 %v", def.Scope)
}

func (s *scope) GetByName(name string) (any, error) {
	key, ok := s.parent.byName[name]
	if !ok {
		return nil, fmt.Errorf("di: 未找到名为 %q 的服务", name)
	}
	return s.GetNamed(key.Type, key.Name)
}

func (s *scope) Dispose() {
	// 释放引用以允许 GC。作用域通常整体丢弃，清零条目即可。
	for i := range s.entries {
		s.entries[i].val.Store(nil)
	}
	s.entries = nil
}

// serviceCount 委托给父容器
func (s *scope) serviceCount() int {
	return s.parent.serviceCount()
}
