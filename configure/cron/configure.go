package cron

import (
	"fmt"

	"github.com/gocrud/easytest/core"
	"github.com/gocrud/easytest/di"
)

// ModuleName 模块名，用于按模块替换服务
const ModuleName = "cron"

// Configure 返回 Cron 配置器
// 使用示例: builder.Configure(cron.Configure(func(b *cron.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		scheduler, err := builder.build(ctx.Container(), ctx.GetLogger())
		if err != nil {
			ctx.AddError(fmt.Errorf("cron: %w", err))
			return
		}

		di.Register[*Scheduler](ctx.Container(),
			di.WithValue(scheduler), di.WithModule(ModuleName))

		if builder.autoStart {
			scheduler.Start()
			ctx.SetCleanup(ModuleName, scheduler.Stop)
		}

		ctx.GetLogger().Info("Scheduler configured")
	}
}
