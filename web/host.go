package web

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// ModuleName 模块名，用于按模块替换服务
const ModuleName = "web"

// RouteMounter 由挂载路由的控制器实现
type RouteMounter interface {
	MountRoutes(router gin.IRouter)
}

// Builder Web 模块构建器（基于 Gin）
type Builder struct {
	port        int
	middlewares []gin.HandlerFunc
	controllers map[string]any
	funcs       map[string]any
}

// NewBuilder 创建 Web 构建器
func NewBuilder() *Builder {
	return &Builder{
		port:        0,
		controllers: make(map[string]any),
		funcs:       make(map[string]any),
	}
}

// UsePort 设置监听端口（0 表示随机端口）
func (b *Builder) UsePort(port int) *Builder {
	b.port = port
	return b
}

// Use 添加全局中间件
func (b *Builder) Use(middleware ...gin.HandlerFunc) *Builder {
	b.middlewares = append(b.middlewares, middleware...)
	return b
}

// AddController 注册命名控制器构造函数
func (b *Builder) AddController(name string, ctor any) *Builder {
	b.controllers[name] = ctor
	return b
}

// AddTemplateFunc 注册标记模板函数
func (b *Builder) AddTemplateFunc(name string, fn any) *Builder {
	b.funcs[name] = fn
	return b
}

// Configure 返回 Web 配置器
// 注册控制器注册表、标记编译器和 Web 主机到容器（模块名 web）。
// 使用示例: builder.Configure(web.Configure(func(b *web.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder()
		if options != nil {
			options(builder)
		}

		logger := ctx.GetLogger()
		container := ctx.Container()

		registry := NewRegistry(container, logger)
		for name, ctor := range builder.controllers {
			if err := registry.Register(name, ctor); err != nil {
				ctx.AddError(fmt.Errorf("web: failed to register controller %q: %w", name, err))
				return
			}
		}

		compiler := NewCompiler()
		for name, fn := range builder.funcs {
			compiler.Func(name, fn)
		}

		host := NewHost(builder.port, container, logger)
		for _, middleware := range builder.middlewares {
			host.engine.Use(middleware)
		}

		di.Register[*Registry](container,
			di.WithValue(registry), di.WithModule(ModuleName))
		di.Register[*Compiler](container,
			di.WithValue(compiler), di.WithModule(ModuleName))
		di.Register[*Host](container,
			di.WithValue(host), di.WithModule(ModuleName))

		ctx.SetCleanup("web", func() {
			host.Stop(context.Background())
		})
	}
}

// Host Web 主机
// 测试通常通过 Handler 配合 httptest 使用，无需真实监听端口。
type Host struct {
	port      int
	engine    *gin.Engine
	server    *http.Server
	container di.Container
	logger    logging.Logger
}

// NewHost 创建 Web 主机
func NewHost(port int, container di.Container, logger logging.Logger) *Host {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Host{
		port:      port,
		engine:    engine,
		container: container,
		logger:    logger,
	}
}

// Engine 获取 Gin 引擎
func (h *Host) Engine() *gin.Engine {
	return h.engine
}

// Handler 返回 http.Handler，便于 httptest.NewServer 或直接 ServeHTTP
func (h *Host) Handler() http.Handler {
	return h.engine
}

// Mount 挂载控制器路由
func (h *Host) Mount(mounters ...RouteMounter) {
	for _, mounter := range mounters {
		mounter.MountRoutes(h.engine)
	}
}

// Start 启动 Web 主机（阻塞直到服务退出）
func (h *Host) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", h.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("web: failed to listen on %s: %w", addr, err)
	}

	h.server = &http.Server{
		Addr:    ln.Addr().String(),
		Handler: h.engine,
	}

	if h.logger != nil {
		h.logger.Info("Web host started",
			logging.Field{Key: "address", Value: h.server.Addr})
	}

	if err := h.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop 停止 Web 主机
func (h *Host) Stop(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	if h.logger != nil {
		h.logger.Info("Stopping web host")
	}
	return h.server.Shutdown(ctx)
}
