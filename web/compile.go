package web

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Compiler 标记编译器
// 将模板标记与作用域数据渲染为 DOM，供测试断言渲染结果。
type Compiler struct {
	funcs template.FuncMap
}

// NewCompiler 创建标记编译器
func NewCompiler() *Compiler {
	return &Compiler{
		funcs: make(template.FuncMap),
	}
}

// Func 注册模板函数
func (c *Compiler) Func(name string, fn any) *Compiler {
	c.funcs[name] = fn
	return c
}

// Compile 渲染标记并解析为 DOM 元素
// 模板以作用域成员快照为数据源，例如 {{.count}} 读取 scope 中的 count。
func (c *Compiler) Compile(markup string, scope *Scope) (*Element, error) {
	tmpl, err := template.New("markup").Funcs(c.funcs).Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("web: invalid markup: %w", err)
	}

	var data map[string]any
	if scope != nil {
		data = scope.Values()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("web: failed to render markup: %w", err)
	}

	// 以 body 为上下文解析片段，避免整页解析补全 html/head 结构
	body := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(&buf, body)
	if err != nil {
		return nil, fmt.Errorf("web: failed to parse rendered markup: %w", err)
	}

	for _, node := range nodes {
		body.AppendChild(node)
	}
	return &Element{node: body}, nil
}

// Element 渲染后的 DOM 元素
type Element struct {
	node *html.Node
}

// Tag 返回元素标签名
func (e *Element) Tag() string {
	return e.node.Data
}

// Attr 返回属性值，第二个返回值表示属性是否存在
func (e *Element) Attr(name string) (string, bool) {
	for _, attr := range e.node.Attr {
		if attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Text 返回元素及其后代的拼接文本
func (e *Element) Text() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(e.node)
	return sb.String()
}

// First 返回第一个匹配标签名的后代元素
func (e *Element) First(tag string) (*Element, bool) {
	var found *html.Node
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n != e.node && n.Type == html.ElementNode && n.Data == tag {
			found = n
			return true
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if walk(child) {
				return true
			}
		}
		return false
	}
	walk(e.node)
	if found == nil {
		return nil, false
	}
	return &Element{node: found}, true
}

// All 返回所有匹配标签名的后代元素
func (e *Element) All(tag string) []*Element {
	var matches []*Element
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n != e.node && n.Type == html.ElementNode && n.Data == tag {
			matches = append(matches, &Element{node: n})
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(e.node)
	return matches
}

// Html 返回元素内容的序列化标记
func (e *Element) Html() string {
	var buf bytes.Buffer
	for child := e.node.FirstChild; child != nil; child = child.NextSibling {
		html.Render(&buf, child)
	}
	return buf.String()
}
