package shape

import "reflect"

// Members 由能够自行回答成员查询的主体实现。
// 实现了该接口的主体（例如 web.Scope）绕过反射路径。
type Members interface {
	// Member 返回指定名字的成员值，第二个返回值表示成员是否存在。
	Member(name string) (any, bool)
}

// member 查找主体上名为 name 的成员。
// 查找顺序：Members 接口 -> 字符串键 map -> 方法 -> 导出字段。
func member(subject any, name string) (any, bool) {
	if m, ok := subject.(Members); ok {
		return m.Member(name)
	}

	v := reflect.ValueOf(subject)
	if !v.IsValid() {
		return nil, false
	}

	if v.Kind() == reflect.Map && v.Type().Key().Kind() == reflect.String {
		key := reflect.ValueOf(name).Convert(v.Type().Key())
		mv := v.MapIndex(key)
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	}

	// 方法集包含指针接收者方法，所以在解引用之前先查方法。
	if mv := v.MethodByName(name); mv.IsValid() {
		return mv.Interface(), true
	}

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
		if mv := v.MethodByName(name); mv.IsValid() {
			return mv.Interface(), true
		}
	}

	if v.Kind() == reflect.Struct {
		f := v.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
	}

	return nil, false
}

// KindOf 返回值的运行时类别。
// 所有整数、无符号整数和浮点类型归为 Number；函数归为 Function；
// 其余非基本类型（结构体、指针、map、切片、接口、nil）统一归为 Object。
func KindOf(v any) Kind {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return Object
	}

	switch rv.Kind() {
	case reflect.Func:
		return Function
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number
	case reflect.Bool:
		return Boolean
	case reflect.String:
		return String
	default:
		return Object
	}
}
