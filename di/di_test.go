package di_test

import (
	"strings"
	"testing"

	"github.com/gocrud/easytest/di"
)

type ServiceA struct {
	Val int
}

type ServiceB struct {
	A *ServiceA `di:""`
}

type InterfaceC interface {
	Do() string
}

type ServiceC struct{}

func (s *ServiceC) Do() string { return "C" }

func TestDI(t *testing.T) {
	c := di.NewContainer()

	// Register Value
	di.Register[int](c, di.WithValue(100))

	// Register Singleton
	di.Register[*ServiceA](c, di.WithFactory(func(val int) *ServiceA {
		return &ServiceA{Val: val}
	}))

	// Register Transient struct with field injection
	di.Register[*ServiceB](c, di.WithTransient())

	// Register Interface
	di.Register[InterfaceC](c, di.Use[*ServiceC]())

	err := c.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Resolve
	b, err := di.Resolve[*ServiceB](c)
	if err != nil {
		t.Fatalf("Resolve ServiceB failed: %v", err)
	}
	if b == nil {
		t.Fatal("Resolved nil ServiceB")
	}
	if b.A == nil {
		t.Fatal("Field injection failed: b.A is nil")
	}
	if b.A.Val != 100 {
		t.Errorf("Expected 100, got %d", b.A.Val)
	}

	// Resolve Interface
	iface, err := di.Resolve[InterfaceC](c)
	if err != nil {
		t.Fatalf("Resolve InterfaceC failed: %v", err)
	}
	if iface.Do() != "C" {
		t.Errorf("Expected 'C', got '%s'", iface.Do())
	}
}

func TestScope(t *testing.T) {
	c := di.NewContainer()

	type ScopedService struct {
		ID int
	}

	counter := 0
	di.Register[*ScopedService](c, di.WithScoped(), di.WithFactory(func() *ScopedService {
		counter++
		return &ScopedService{ID: counter}
	}))

	c.Build()

	scope1 := c.CreateScope()
	s1a, _ := di.Resolve[*ScopedService](scope1)
	s1b, _ := di.Resolve[*ScopedService](scope1)

	if s1a.ID != s1b.ID {
		t.Errorf("Expected same instance in scope 1, got IDs %d and %d", s1a.ID, s1b.ID)
	}
	if s1a.ID != 1 {
		t.Errorf("Expected ID 1, got %d", s1a.ID)
	}

	scope2 := c.CreateScope()
	s2a, _ := di.Resolve[*ScopedService](scope2)
	if s2a.ID != 2 {
		t.Errorf("Expected ID 2, got %d", s2a.ID)
	}
	if s1a.ID == s2a.ID {
		t.Error("Expected different instances across scopes")
	}

	// 从根容器解析作用域服务应报错
	if _, err := di.Resolve[*ScopedService](c); err == nil {
		t.Error("Expected error resolving scoped service from root container")
	}
}

func TestNamedRegistration(t *testing.T) {
	c := di.NewContainer()

	di.Register[*ServiceA](c, di.WithName("primary"), di.WithValue(&ServiceA{Val: 1}))
	di.Register[*ServiceA](c, di.WithName("secondary"), di.WithValue(&ServiceA{Val: 2}))

	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	primary, err := di.ResolveNamed[*ServiceA](c, "primary")
	if err != nil {
		t.Fatalf("ResolveNamed failed: %v", err)
	}
	if primary.Val != 1 {
		t.Errorf("Expected Val 1, got %d", primary.Val)
	}

	// 按名称解析（无类型）
	raw, err := c.GetByName("secondary")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if raw.(*ServiceA).Val != 2 {
		t.Errorf("Expected Val 2, got %d", raw.(*ServiceA).Val)
	}

	if _, err := c.GetByName("missing"); err == nil {
		t.Error("Expected error for unknown name")
	}
}

func TestDuplicateName(t *testing.T) {
	c := di.NewContainer()

	di.Register[*ServiceA](c, di.WithName("dup"), di.WithValue(&ServiceA{}))

	// 同名不同类型也应报错：名称是全局字符串令牌
	err := di.TryRegister[*ServiceC](c, di.WithName("dup"), di.WithValue(&ServiceC{}))
	if err == nil {
		t.Fatal("Expected duplicate name error, got nil")
	}
	if !strings.Contains(err.Error(), "dup") {
		t.Errorf("Error should mention the name, got: %v", err)
	}
}

func TestOverride(t *testing.T) {
	c := di.NewContainer()

	di.Register[InterfaceC](c,
		di.WithName("doer"),
		di.WithModule("demo"),
		di.Use[*ServiceC]())

	// 构建前替换
	if err := c.Override("demo", "doer", fakeDoer{}); err != nil {
		t.Fatalf("Override failed: %v", err)
	}

	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, err := di.ResolveNamed[InterfaceC](c, "doer")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Do() != "fake" {
		t.Errorf("Expected override instance, got %q", got.Do())
	}
}

type fakeDoer struct{}

func (fakeDoer) Do() string { return "fake" }

func TestOverrideErrors(t *testing.T) {
	c := di.NewContainer()
	di.Register[InterfaceC](c, di.WithName("doer"), di.WithModule("demo"), di.Use[*ServiceC]())

	// 未知模块/名称
	if err := c.Override("demo", "nope", fakeDoer{}); err == nil {
		t.Error("Expected error for unknown service name")
	}
	if err := c.Override("other", "doer", fakeDoer{}); err == nil {
		t.Error("Expected error for unknown module")
	}

	// 类型不兼容
	if err := c.Override("demo", "doer", 42); err == nil {
		t.Error("Expected error for non-assignable override value")
	}

	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// 构建后替换被拒绝
	if err := c.Override("demo", "doer", fakeDoer{}); err == nil {
		t.Error("Expected error overriding after Build")
	}
}

func TestNamedFieldInjection(t *testing.T) {
	type Holder struct {
		Primary  *ServiceA `di:"primary"`
		Fallback *ServiceA `di:"missing,?"`
	}

	c := di.NewContainer()
	di.Register[*ServiceA](c, di.WithName("primary"), di.WithValue(&ServiceA{Val: 7}))
	di.Register[*Holder](c)

	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	h, err := di.Resolve[*Holder](c)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if h.Primary == nil || h.Primary.Val != 7 {
		t.Error("Named field injection failed")
	}
	if h.Fallback != nil {
		t.Error("Optional missing dependency should stay nil")
	}
}

func TestCycleDetection(t *testing.T) {
	type X struct{}
	type Y struct{}

	c := di.NewContainer()
	di.Register[*X](c, di.WithFactory(func(y *Y) *X { return &X{} }))
	di.Register[*Y](c, di.WithFactory(func(x *X) *Y { return &Y{} }))

	if err := c.Build(); err == nil {
		t.Fatal("Expected cycle detection error, got nil")
	}
}

func TestAddAfterBuild(t *testing.T) {
	c := di.NewContainer()
	di.Register[int](c, di.WithValue(1))
	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := di.TryRegister[string](c, di.WithValue("late")); err == nil {
		t.Error("Expected error registering after Build")
	}
}

func TestValueWithFieldInjection(t *testing.T) {
	type Consumer struct {
		A    *ServiceA `di:""`
		Data string
	}

	c := di.NewContainer()
	di.Register[*ServiceA](c, di.WithValue(&ServiceA{Val: 9}))

	instance := &Consumer{Data: "manual"}
	di.Register[*Consumer](c, di.WithValue(instance), di.WithFields())

	if err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, err := di.Resolve[*Consumer](c)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != instance {
		t.Error("Value registration should return the same instance")
	}
	if got.Data != "manual" {
		t.Error("Instance value should be preserved")
	}
	if got.A == nil || got.A.Val != 9 {
		t.Error("Field injection on value instance failed")
	}
}
