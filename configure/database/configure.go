package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
	"github.com/gocrud/easytest/logging"
)

// ModuleName 模块名，用于按模块替换服务
const ModuleName = "database"

// Configure 返回数据库配置器
// 使用示例: builder.Configure(database.Configure(func(b *database.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		factory, err := builder.Build(ctx.GetLogger())
		if err != nil {
			ctx.AddError(fmt.Errorf("database: %w", err))
			return
		}
		if factory == nil {
			return
		}

		di.Register[*Factory](ctx.Container(),
			di.WithValue(factory), di.WithModule(ModuleName))

		factory.Each(func(name string, db *gorm.DB) {
			di.Register[*gorm.DB](ctx.Container(),
				di.WithName(name), di.WithValue(db), di.WithModule(ModuleName))
			if name == "default" {
				di.Register[*gorm.DB](ctx.Container(),
					di.WithValue(db), di.WithModule(ModuleName))
			}
		})

		ctx.SetCleanup(ModuleName, func() {
			ctx.GetLogger().Info("Closing database connections")
			if err := factory.Close(); err != nil {
				ctx.GetLogger().Error("Failed to close databases",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
