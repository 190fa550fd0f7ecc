package web_test

import (
	"strings"
	"testing"

	"github.com/gocrud/easytest/web"
)

func TestCompileMarkup(t *testing.T) {
	scope := web.NewScope()
	scope.Set("name", "world")
	scope.Set("count", 2)

	compiler := web.NewCompiler()
	element, err := compiler.Compile(`<div id="greeting">hello {{.name}} ({{.count}})</div>`, scope)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	div, ok := element.First("div")
	if !ok {
		t.Fatal("Expected a div element")
	}
	if id, _ := div.Attr("id"); id != "greeting" {
		t.Errorf("Unexpected id attribute: %q", id)
	}
	if div.Text() != "hello world (2)" {
		t.Errorf("Unexpected text: %q", div.Text())
	}
}

func TestCompileNestedElements(t *testing.T) {
	scope := web.NewScope()
	scope.Set("items", []string{"a", "b", "c"})

	compiler := web.NewCompiler()
	element, err := compiler.Compile(`<ul>{{range .items}}<li>{{.}}</li>{{end}}</ul>`, scope)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	items := element.All("li")
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[1].Text() != "b" {
		t.Errorf("Unexpected item text: %q", items[1].Text())
	}
	if !strings.Contains(element.Html(), "<ul>") {
		t.Errorf("Serialized markup should contain ul: %q", element.Html())
	}
}

func TestCompileTemplateFunc(t *testing.T) {
	scope := web.NewScope()
	scope.Set("name", "tester")

	compiler := web.NewCompiler().Func("upper", strings.ToUpper)
	element, err := compiler.Compile(`<span>{{upper .name}}</span>`, scope)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if element.Text() != "TESTER" {
		t.Errorf("Unexpected text: %q", element.Text())
	}
}

func TestCompileInvalidMarkup(t *testing.T) {
	compiler := web.NewCompiler()
	if _, err := compiler.Compile(`{{.broken`, web.NewScope()); err == nil {
		t.Error("Expected error for invalid template")
	}
}

func TestCompileNilScope(t *testing.T) {
	compiler := web.NewCompiler()
	element, err := compiler.Compile(`<p>static</p>`, nil)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if element.Text() != "static" {
		t.Errorf("Unexpected text: %q", element.Text())
	}
}
