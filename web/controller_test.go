package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/web"
)

type counterService struct {
	start int
}

func (s *counterService) Start() int {
	return s.start
}

type counterCtrl struct {
	svc   *counterService
	scope *web.Scope
}

func (c *counterCtrl) Increment() {
	v, _ := c.scope.Get("count")
	c.scope.Set("count", v.(int)+1)
}

func newCounterCtrl(scope *web.Scope, svc *counterService) *counterCtrl {
	scope.Set("count", svc.Start())
	return &counterCtrl{svc: svc, scope: scope}
}

func buildWebApp(t *testing.T, options func(*web.Builder)) *core.Application {
	t.Helper()

	builder := core.NewApplicationBuilder()
	builder.Configure(func(ctx *core.BuildContext) {
		di.Register[*counterService](ctx.Container(),
			di.WithValue(&counterService{start: 5}))
	})
	builder.Configure(web.Configure(options))

	app, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestControllerCreate(t *testing.T) {
	app := buildWebApp(t, func(b *web.Builder) {
		b.AddController("CounterCtrl", newCounterCtrl)
	})

	registry, err := di.Resolve[*web.Registry](app.Services())
	if err != nil {
		t.Fatalf("Failed to resolve registry: %v", err)
	}

	instance, err := registry.Create("CounterCtrl", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if v, _ := instance.Scope.Get("count"); v != 5 {
		t.Errorf("Constructor should seed count=5, got %v", v)
	}

	ctrl := instance.Controller.(*counterCtrl)
	ctrl.Increment()
	if v, _ := instance.Scope.Get("count"); v != 6 {
		t.Errorf("Increment should raise count to 6, got %v", v)
	}

	// 每次实例化得到独立的作用域
	second, err := registry.Create("CounterCtrl", nil)
	if err != nil {
		t.Fatalf("Second create failed: %v", err)
	}
	if v, _ := second.Scope.Get("count"); v != 5 {
		t.Errorf("Second instance should start fresh, got %v", v)
	}
}

func TestControllerBindings(t *testing.T) {
	app := buildWebApp(t, func(b *web.Builder) {
		b.AddController("CounterCtrl", newCounterCtrl)
	})

	registry, _ := di.Resolve[*web.Registry](app.Services())
	instance, err := registry.Create("CounterCtrl", map[string]any{"title": "bound"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if v, _ := instance.Scope.Get("title"); v != "bound" {
		t.Errorf("Binding should be visible on scope, got %v", v)
	}
}

func TestControllerUnknownName(t *testing.T) {
	app := buildWebApp(t, nil)

	registry, _ := di.Resolve[*web.Registry](app.Services())
	if _, err := registry.Create("NoSuchCtrl", nil); err == nil {
		t.Error("Expected error for unknown controller")
	}
}

func TestControllerDuplicateName(t *testing.T) {
	registry := web.NewRegistry(di.NewContainer(), nil)
	if err := registry.Register("Dup", func() *counterCtrl { return nil }); err != nil {
		t.Fatalf("First register failed: %v", err)
	}
	if err := registry.Register("Dup", func() *counterCtrl { return nil }); err == nil {
		t.Error("Expected error for duplicate controller name")
	}
}

func TestInvalidControllerFailsBuild(t *testing.T) {
	builder := core.NewApplicationBuilder()
	builder.Configure(web.Configure(func(b *web.Builder) {
		b.AddController("NotAFunc", 42)
	}))

	// 配置错误从 Build 返回而不是终止进程
	app, err := builder.Build()
	if err == nil {
		t.Fatal("Expected build error for non-function constructor")
	}
	if app != nil {
		t.Error("Application should be nil on build error")
	}
}

type pingCtrl struct{}

func (c *pingCtrl) MountRoutes(router gin.IRouter) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	})
}

func TestHostHandler(t *testing.T) {
	app := buildWebApp(t, nil)

	host, err := di.Resolve[*web.Host](app.Services())
	if err != nil {
		t.Fatalf("Failed to resolve host: %v", err)
	}
	host.Mount(&pingCtrl{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	host.Handler().ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK || recorder.Body.String() != "pong" {
		t.Errorf("Unexpected response: %d %q", recorder.Code, recorder.Body.String())
	}
}
