package mongodb

import (
	"fmt"

	"github.com/gocrud/mgo"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// ModuleName 模块名，用于按模块替换服务
const ModuleName = "mongodb"

// Configure 返回 MongoDB 配置器
// 使用示例: builder.Configure(mongodb.Configure(func(b *mongodb.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.AddError(fmt.Errorf("mongodb: %w", err))
			return
		}
		if factory == nil {
			return
		}

		di.Register[*Factory](ctx.Container(),
			di.WithValue(factory), di.WithModule(ModuleName))

		factory.Each(func(name string, client *mgo.Client) {
			di.Register[*mgo.Client](ctx.Container(),
				di.WithName(name), di.WithValue(client), di.WithModule(ModuleName))
			if name == "default" {
				di.Register[*mgo.Client](ctx.Container(),
					di.WithValue(client), di.WithModule(ModuleName))
			}
		})

		ctx.SetCleanup(ModuleName, func() {
			ctx.GetLogger().Info("Closing mongo clients")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close mongo clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
