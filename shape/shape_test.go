package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/easytest/shape"
)

type widget struct {
	Count   int
	Title   string
	Visible bool
	Save    func()
	Meta    map[string]string
}

func (w *widget) Cancel() {}

func TestCheckEmptySpec(t *testing.T) {
	// 空规格对任何主体都应通过
	assert.Nil(t, shape.Check(map[string]any{}, shape.Spec{}))
	assert.Nil(t, shape.Check(nil, shape.Spec{}))
	assert.Nil(t, shape.Check(&widget{}, nil))
}

func TestCheckPass(t *testing.T) {
	subject := map[string]any{
		"foo": func() {},
	}
	assert.Nil(t, shape.Check(subject, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
	}))
}

func TestCheckMissingMember(t *testing.T) {
	m := shape.Check(map[string]any{}, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
	})
	require.NotNil(t, m)
	assert.True(t, m.Missing)
	assert.Equal(t, "foo", m.Member)
	assert.Equal(t, `shape: missing member "foo"`, m.Error())
}

func TestCheckWrongKind(t *testing.T) {
	m := shape.Check(map[string]any{"foo": 1}, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
	})
	require.NotNil(t, m)
	assert.False(t, m.Missing)
	assert.Equal(t, "foo", m.Member)
	assert.Equal(t, shape.Function, m.Kind)
	assert.Equal(t, `shape: member "foo" is not a function`, m.Error())
}

func TestCheckMultipleKindsPass(t *testing.T) {
	subject := map[string]any{
		"foo": func() {},
		"bar": 5,
	}
	assert.Nil(t, shape.Check(subject, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
		{Kind: shape.Number, Members: "bar"},
	}))
}

func TestCheckSecondKindFails(t *testing.T) {
	subject := map[string]any{
		"foo": func() {},
		"bar": "x",
	}
	m := shape.Check(subject, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
		{Kind: shape.Number, Members: "bar"},
	})
	require.NotNil(t, m)
	assert.Equal(t, "bar", m.Member)
	assert.Equal(t, shape.Number, m.Kind)
}

func TestCheckFirstFailureWins(t *testing.T) {
	// 两个规格项都不满足时，只报告先声明的那个
	subject := map[string]any{
		"count": "not-a-number",
		"save":  42,
	}
	m := shape.Check(subject, shape.Spec{
		{Kind: shape.Function, Members: "save"},
		{Kind: shape.Number, Members: "count"},
	})
	require.NotNil(t, m)
	assert.Equal(t, "save", m.Member)
	assert.Equal(t, shape.Function, m.Kind)

	// 成员列表内部同样按声明顺序报告
	m = shape.Check(map[string]any{}, shape.Spec{
		{Kind: shape.Function, Members: "save cancel"},
	})
	require.NotNil(t, m)
	assert.Equal(t, "save", m.Member)
}

func TestCheckMissingBeatsLaterWrongKind(t *testing.T) {
	subject := map[string]any{"bar": "x"}
	m := shape.Check(subject, shape.Spec{
		{Kind: shape.Function, Members: "foo"},
		{Kind: shape.Number, Members: "bar"},
	})
	require.NotNil(t, m)
	assert.True(t, m.Missing)
	assert.Equal(t, "foo", m.Member)
}

func TestCheckDeterminism(t *testing.T) {
	subject := map[string]any{"foo": 1}
	spec := shape.Spec{{Kind: shape.Function, Members: "foo"}}

	first := shape.Check(subject, spec)
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := shape.Check(subject, spec)
		require.NotNil(t, again)
		assert.Equal(t, *first, *again)
	}
}

func TestCheckStructSubject(t *testing.T) {
	w := &widget{
		Count:   3,
		Title:   "hello",
		Visible: true,
		Save:    func() {},
		Meta:    map[string]string{},
	}
	assert.Nil(t, shape.Check(w, shape.Spec{
		{Kind: shape.Function, Members: "Save Cancel"},
		{Kind: shape.Number, Members: "Count"},
		{Kind: shape.Boolean, Members: "Visible"},
		{Kind: shape.String, Members: "Title"},
		{Kind: shape.Object, Members: "Meta"},
	}))

	// 方法归为 function 类别
	m := shape.Check(w, shape.Spec{{Kind: shape.Number, Members: "Cancel"}})
	require.NotNil(t, m)
	assert.False(t, m.Missing)

	// 未导出或不存在的字段视为缺失
	m = shape.Check(w, shape.Spec{{Kind: shape.String, Members: "nope"}})
	require.NotNil(t, m)
	assert.True(t, m.Missing)
}

func TestCheckMembersInterface(t *testing.T) {
	subject := memberBag{"n": 1.5, "s": "x"}
	assert.Nil(t, shape.Check(subject, shape.Spec{
		{Kind: shape.Number, Members: "n"},
		{Kind: shape.String, Members: "s"},
	}))

	m := shape.Check(subject, shape.Spec{{Kind: shape.Boolean, Members: "gone"}})
	require.NotNil(t, m)
	assert.True(t, m.Missing)
}

type memberBag map[string]any

func (b memberBag) Member(name string) (any, bool) {
	v, ok := b[name]
	return v, ok
}

func TestCheckConsecutiveSpaces(t *testing.T) {
	// 连续空格产生空成员名，按缺失成员报告
	m := shape.Check(map[string]any{"a": 1, "b": 2}, shape.Spec{
		{Kind: shape.Number, Members: "a  b"},
	})
	require.NotNil(t, m)
	assert.True(t, m.Missing)
	assert.Equal(t, "", m.Member)
}

func TestFromMapOrdersKinds(t *testing.T) {
	spec := shape.FromMap(map[shape.Kind]string{
		shape.String:   "s",
		shape.Boolean:  "b",
		shape.Function: "f",
	})
	require.Len(t, spec, 3)
	// 按类别名排序: boolean < function < string
	assert.Equal(t, shape.Boolean, spec[0].Kind)
	assert.Equal(t, shape.Function, spec[1].Kind)
	assert.Equal(t, shape.String, spec[2].Kind)
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want shape.Kind
	}{
		{"func", func() {}, shape.Function},
		{"int", 1, shape.Number},
		{"uint", uint8(1), shape.Number},
		{"float", 1.5, shape.Number},
		{"bool", true, shape.Boolean},
		{"string", "x", shape.String},
		{"map", map[string]int{}, shape.Object},
		{"slice", []int{}, shape.Object},
		{"struct", widget{}, shape.Object},
		{"pointer", &widget{}, shape.Object},
		{"nil", nil, shape.Object},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shape.KindOf(tc.v))
		})
	}
}
