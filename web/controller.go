package web

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// scopeType 用于识别构造函数中的 *Scope 参数
var scopeType = di.TypeOf[*Scope]()

// ControllerInstance 控制器实例及其作用域
type ControllerInstance struct {
	Name       string
	Scope      *Scope
	Controller any
}

// Registry 控制器注册表
// 按名称保存控制器构造函数，实例化时通过 DI 容器解析构造函数参数。
type Registry struct {
	container di.Container
	logger    logging.Logger
	ctors     map[string]any
	mu        sync.RWMutex
}

// NewRegistry 创建控制器注册表
func NewRegistry(container di.Container, logger logging.Logger) *Registry {
	return &Registry{
		container: container,
		logger:    logger,
		ctors:     make(map[string]any),
	}
}

// Register 注册命名控制器构造函数
//
// 构造函数参数自动从容器解析，*Scope 类型的参数注入每次实例化
// 新建的作用域。返回值为控制器实例，可选第二个返回值为 error。
//
// 示例：
//
//	registry.Register("UserCtrl", func(scope *web.Scope, svc *UserService) *UserCtrl {
//	    scope.Set("title", "users")
//	    return &UserCtrl{svc: svc}
//	})
func (r *Registry) Register(name string, ctor any) error {
	ctorType := reflect.TypeOf(ctor)
	if ctorType == nil || ctorType.Kind() != reflect.Func {
		return fmt.Errorf("web: controller %q constructor must be a function, got %T", name, ctor)
	}
	if ctorType.NumOut() < 1 || ctorType.NumOut() > 2 {
		return fmt.Errorf("web: controller %q constructor must return the instance and an optional error", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[name]; exists {
		return fmt.Errorf("web: controller %q already registered", name)
	}
	r.ctors[name] = ctor
	return nil
}

// Names 返回所有已注册的控制器名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	return names
}

// Create 实例化命名控制器
// bindings 在调用构造函数之前写入新作用域，模拟路由传入的初始数据。
func (r *Registry) Create(name string, bindings map[string]any) (*ControllerInstance, error) {
	r.mu.RLock()
	ctor, exists := r.ctors[name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("web: controller %q is not registered", name)
	}

	scope := NewScope()
	scope.SetAll(bindings)

	ctorValue := reflect.ValueOf(ctor)
	ctorType := ctorValue.Type()

	args := make([]reflect.Value, ctorType.NumIn())
	for i := 0; i < ctorType.NumIn(); i++ {
		paramType := ctorType.In(i)
		if paramType == scopeType {
			args[i] = reflect.ValueOf(scope)
			continue
		}
		instance, err := r.container.Get(paramType)
		if err != nil {
			return nil, fmt.Errorf("web: failed to resolve parameter %d of controller %q: %w", i, name, err)
		}
		args[i] = reflect.ValueOf(instance)
	}

	results := ctorValue.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, fmt.Errorf("web: controller %q constructor failed: %w", name, results[1].Interface().(error))
	}

	if r.logger != nil {
		r.logger.Debug("Controller instantiated",
			logging.Field{Key: "name", Value: name})
	}

	return &ControllerInstance{
		Name:       name,
		Scope:      scope,
		Controller: results[0].Interface(),
	}, nil
}
