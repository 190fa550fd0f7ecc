package redis

import (
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// ModuleName 模块名，用于按模块替换服务
const ModuleName = "redis"

// Configure 返回 Redis 配置器
// 使用示例: builder.Configure(redis.Configure(func(b *redis.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.AddError(fmt.Errorf("redis: %w", err))
			return
		}
		if factory == nil {
			return
		}

		di.Register[*Factory](ctx.Container(),
			di.WithValue(factory), di.WithModule(ModuleName))

		// 按名称注册所有客户端，default 同时注册为无名服务
		factory.Each(func(name string, client *goredis.Client) {
			di.Register[*goredis.Client](ctx.Container(),
				di.WithName(name), di.WithValue(client), di.WithModule(ModuleName))
			if name == "default" {
				di.Register[*goredis.Client](ctx.Container(),
					di.WithValue(client), di.WithModule(ModuleName))
			}
		})

		ctx.SetCleanup(ModuleName, func() {
			ctx.GetLogger().Info("Closing redis clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close redis clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
