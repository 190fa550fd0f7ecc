// Package shape 校验对象的结构是否符合一份轻量的形状规格。
//
// 规格把运行时类别（function、number、boolean、string、object）映射到
// 一组成员名，Check 逐项验证主体对象并在遇到第一个不符合项时立即返回。
package shape

import (
	"fmt"
	"sort"
	"strings"
)

// Kind 成员值的运行时类别。
type Kind string

const (
	Function Kind = "function"
	Number   Kind = "number"
	Boolean  Kind = "boolean"
	String   Kind = "string"
	Object   Kind = "object"
)

// Want 一条规格项：某个类别下要求存在的成员名列表（空格分隔）。
type Want struct {
	Kind    Kind
	Members string
}

// Spec 有序的规格项序列。
// 报错顺序跟随规格项的声明顺序，再跟随成员名在列表中的顺序。
type Spec []Want

// FromMap 把 map 字面量形式的规格转换为有序 Spec。
// Go 的 map 没有稳定的迭代顺序，这里按类别名排序以保证确定性。
func FromMap(m map[Kind]string) Spec {
	kinds := make([]Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	spec := make(Spec, 0, len(kinds))
	for _, k := range kinds {
		spec = append(spec, Want{Kind: k, Members: m[k]})
	}
	return spec
}

// Mismatch 描述第一个不符合规格的成员。
// Missing 为 true 表示成员缺失，否则表示成员存在但类别不符。
type Mismatch struct {
	Member  string
	Kind    Kind
	Missing bool
}

// Error 实现 error 接口。
func (m *Mismatch) Error() string {
	if m.Missing {
		return fmt.Sprintf("shape: missing member %q", m.Member)
	}
	return fmt.Sprintf("shape: member %q is not a %s", m.Member, m.Kind)
}

// Check 校验 subject 是否符合 spec。
//
// 返回 nil 表示通过。失败时只报告第一个不符合项（按 spec 声明顺序、
// 再按成员列表顺序），不做汇总。Check 是纯函数，不修改输入，也从不 panic
// （前提是 spec 的成员列表形式合法，见 Want）。
func Check(subject any, spec Spec) *Mismatch {
	for _, want := range spec {
		if want.Members == "" {
			continue
		}
		for _, name := range strings.Split(want.Members, " ") {
			v, ok := member(subject, name)
			if !ok {
				return &Mismatch{Member: name, Kind: want.Kind, Missing: true}
			}
			if KindOf(v) != want.Kind {
				return &Mismatch{Member: name, Kind: want.Kind}
			}
		}
	}
	return nil
}
