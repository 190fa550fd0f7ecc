package di

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Container 是依赖注入容器的接口。
type Container interface {
	// Add 注册服务定义。
	Add(def *ServiceDefinition) error

	// Override 在 Build 之前替换一个已注册服务的实现。
	// module 为空时按名称在全容器内查找。替换值必须能赋给原定义的服务类型。
	Override(module, name string, value any) error

	// Build 构建依赖图并进行验证。
	Build() error

	// Built 报告容器是否已构建。
	Built() bool

	// Get 检索请求类型的实例（使用默认名称）。
	Get(typ reflect.Type) (any, error)

	// GetNamed 检索请求类型和名称的实例。
	GetNamed(typ reflect.Type, name string) (any, error)

	// GetByName 仅按名称检索实例。名称在容器内必须唯一。
	GetByName(name string) (any, error)

	// CreateScope 为作用域实例创建一个新作用域。
	CreateScope() Scope

	// serviceCount 返回注册服务的总数（用于数组大小调整）。
	serviceCount() int
}

// container 是具体的实现。
type container struct {
	mu              sync.RWMutex
	definitions     map[ServiceKey]*ServiceDefinition
	byName          map[string]ServiceKey
	built           atomic.Bool
	serviceCountVal int

	// resolver 处理实例的创建
	resolver *resolver
}

// NewContainer 创建一个新的空容器。
func NewContainer() Container {
	return &container{
		definitions: make(map[ServiceKey]*ServiceDefinition),
		byName:      make(map[string]ServiceKey),
		resolver:    newResolver(),
	}
}

// Add 向容器添加服务定义。
func (c *container) Add(def *ServiceDefinition) error {
	if c.built.Load() {
		return fmt.Errorf("di: build 后无法注册服务")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := ServiceKey{Type: def.Type, Name: def.Name}

	if _, exists := c.definitions[key]; exists {
		if def.Name == "" {
			return fmt.Errorf("di: 服务 %v 已注册", def.Type)
		}
		return fmt.Errorf("di: 服务 %v (name=%s) 已注册", def.Type, def.Name)
	}

	// 名称是测试中解析服务的字符串令牌，必须全容器唯一
	if def.Name != "" {
		if prev, exists := c.byName[def.Name]; exists {
			return fmt.Errorf("di: 服务名称 %q 已被 %v 占用", def.Name, prev.Type)
		}
		c.byName[def.Name] = key
	}

	c.definitions[key] = def
	return nil
}

// Override 替换一个已注册服务的实现。
// 注入器创建（Build）之后替换会破坏已解析的实例，因而被拒绝。
func (c *container) Override(module, name string, value any) error {
	if c.built.Load() {
		return fmt.Errorf("di: 注入器已创建，无法替换服务 %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var def *ServiceDefinition
	if module == "" {
		key, ok := c.byName[name]
		if !ok {
			return fmt.Errorf("di: 未找到名为 %q 的服务", name)
		}
		def = c.definitions[key]
	} else {
		for _, d := range c.definitions {
			if d.Module == module && d.Name == name {
				def = d
				break
			}
		}
		if def == nil {
			return fmt.Errorf("di: 模块 %q 中没有名为 %q 的服务", module, name)
		}
	}

	valType := reflect.TypeOf(value)
	if valType == nil || !valType.AssignableTo(def.Type) {
		return fmt.Errorf("di: %q 的替换值类型为 %T，无法赋给 %v", name, value, def.Type)
	}

	// 原地替换为值定义，保留键信息，生命周期退化为单例
	def.Scope = ScopeSingleton
	def.Impl = value
	def.ImplType = valType
	def.IsValue = true
	def.IsFactory = false
	def.InjectFields = false
	def.Schema = nil
	return nil
}

// Build 构建依赖图并进行验证。
func (c *container) Build() error {
	if c.built.Load() {
		return nil // 已构建
	}

	c.mu.Lock()
	// 双重检查
	if c.built.Load() {
		c.mu.Unlock()
		return nil
	}

	// 0. 为定义分配 ID
	// 只要 ID 唯一且在构建后一致，分配顺序并不重要。
	c.serviceCountVal = 0
	for _, def := range c.definitions {
		def.ID = c.serviceCountVal
		c.serviceCountVal++
	}

	// 1. 依赖图和循环检测
	graph := newGraphBuilder(c.definitions)
	order, err := graph.buildOrder()
	if err != nil {
		c.mu.Unlock()
		return err
	}

	// 标记为已构建。此后 Add/Override 将失败，实际上使定义不可变。
	c.built.Store(true)
	c.mu.Unlock()

	// 2. 按拓扑顺序急切初始化单例
	// 在锁外执行，避免 Get() 锁定时死锁。
	for _, key := range order {
		def := c.definitions[key]
		if def.Scope == ScopeSingleton {
			if _, err := c.GetNamed(key.Type, key.Name); err != nil {
				return fmt.Errorf("di: 构建单例 %v (name=%s) 失败: %w", key.Type, key.Name, err)
			}
		}
	}

	return nil
}

// Built 报告容器是否已构建。
func (c *container) Built() bool {
	return c.built.Load()
}

// Get 检索请求类型的实例。
func (c *container) Get(typ reflect.Type) (any, error) {
	return c.GetNamed(typ, "")
}

// GetNamed 检索请求类型和名称的实例。
// 首次解析触发容器构建（注入器创建），此后 Add/Override 将被拒绝。
func (c *container) GetNamed(typ reflect.Type, name string) (any, error) {
	if !c.built.Load() {
		if err := c.Build(); err != nil {
			return nil, err
		}
	}

	key := ServiceKey{Type: typ, Name: name}

	// 构建后定义不可变，可以无锁读取。
	def, ok := c.definitions[key]

	if !ok {
		if name == "" {
			return nil, fmt.Errorf("di: 未找到服务 %v", typ)
		}
		return nil, fmt.Errorf("di: 未找到服务 %v (name=%s)", typ, name)
	}

	return c.instantiate(c, def)
}

// GetByName 仅按名称检索实例。
func (c *container) GetByName(name string) (any, error) {
	if !c.built.Load() {
		if err := c.Build(); err != nil {
			return nil, err
		}
	}

	key, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("di: 未找到名为 %q 的服务", name)
	}
	return c.GetNamed(key.Type, key.Name)
}

// instantiate 按定义的生命周期创建或复用实例。
// 作用域服务不能从根容器解析。
func (c *container) instantiate(resolveIn Container, def *ServiceDefinition) (any, error) {
	switch def.Scope {
	case ScopeSingleton:
		def.singletonOnce.Do(func() {
			def.singletonInst, def.singletonErr = c.resolver.createInstance(resolveIn, def)
		})
		return def.singletonInst, def.singletonErr

	case ScopeTransient:
		return c.resolver.createInstance(resolveIn, def)

	case ScopeScoped:
		return nil, fmt.Errorf("di: 无法从根容器解析作用域服务 %v，请使用 CreateScope()", def.Type)
	}

	return nil, fmt.Errorf("di: 未知作用域 %v", def.Scope)
}

// CreateScope 为作用域实例创建一个新作用域。
func (c *container) CreateScope() Scope {
	return newScope(c)
}

func (c *container) serviceCount() int {
	return c.serviceCountVal
}
