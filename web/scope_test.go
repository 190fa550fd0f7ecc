package web_test

import (
	"testing"

	"github.com/gocrud/easytest/shape"
	"github.com/gocrud/easytest/web"
)

func TestScopeBasics(t *testing.T) {
	scope := web.NewScope()
	scope.Set("count", 3).Set("title", "hello")

	if v, ok := scope.Get("count"); !ok || v != 3 {
		t.Errorf("Expected count=3, got %v (%v)", v, ok)
	}
	if !scope.Has("title") {
		t.Error("Expected title to exist")
	}
	if scope.Has("missing") {
		t.Error("Did not expect missing member")
	}
}

func TestScopeChildFallback(t *testing.T) {
	parent := web.NewScope()
	parent.Set("shared", "from-parent")
	parent.Set("overridden", "parent")

	child := parent.Child()
	child.Set("overridden", "child")

	if v, _ := child.Get("shared"); v != "from-parent" {
		t.Errorf("Child should read parent member, got %v", v)
	}
	if v, _ := child.Get("overridden"); v != "child" {
		t.Errorf("Child value should win, got %v", v)
	}
	if parent.Has("local") {
		t.Error("Parent should not see child members")
	}

	values := child.Values()
	if values["shared"] != "from-parent" || values["overridden"] != "child" {
		t.Errorf("Unexpected snapshot: %v", values)
	}
}

func TestScopeShapeCheck(t *testing.T) {
	scope := web.NewScope()
	scope.Set("count", 10)
	scope.Set("refresh", func() {})
	scope.Set("title", "dashboard")

	mismatch := shape.Check(scope, shape.FromMap(map[shape.Kind]string{
		shape.Number:   "count",
		shape.Function: "refresh",
		shape.String:   "title",
	}))
	if mismatch != nil {
		t.Errorf("Scope should satisfy shape, got %v", mismatch)
	}

	mismatch = shape.Check(scope, shape.Spec{{Kind: shape.Boolean, Members: "count"}})
	if mismatch == nil || mismatch.Member != "count" {
		t.Errorf("Expected kind mismatch on count, got %v", mismatch)
	}
}
