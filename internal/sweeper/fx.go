package sweeper

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the fx module for the expiry sweeper, starting its ticker loop on app start
// and stopping it on shutdown.
var Module = fx.Module("sweeper",
	fx.Provide(New),
	fx.Invoke(registerSweeper),
)

func registerSweeper(lc fx.Lifecycle, sweeper *Sweeper) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go sweeper.Run(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
