package easytest

import "github.com/gocrud/easytest/shape"

// LooksLike 校验任意主体的形状
// 返回 nil 表示通过，否则返回第一个不匹配项。
func LooksLike(subject any, spec shape.Spec) *shape.Mismatch {
	return shape.Check(subject, spec)
}

// ServiceLooksLike 按名称解析服务并校验其形状
func (k *Kit) ServiceLooksLike(name string, spec shape.Spec) *shape.Mismatch {
	k.t.Helper()
	values := k.Inject(name)
	return shape.Check(values[0], spec)
}

// ControllerLooksLike 实例化命名控制器并校验控制器实例的形状
func (k *Kit) ControllerLooksLike(name string, spec shape.Spec) *shape.Mismatch {
	k.t.Helper()
	instance := k.Controller(name, nil)
	return shape.Check(instance.Controller, spec)
}

// ScopeLooksLike 实例化命名控制器并校验其作用域的形状
// 已有实例时直接对 instance.Scope 调用 LooksLike 即可。
func (k *Kit) ScopeLooksLike(name string, spec shape.Spec) *shape.Mismatch {
	k.t.Helper()
	instance := k.Controller(name, nil)
	return shape.Check(instance.Scope, spec)
}
