package di

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"posbackend/internal/app"
	"posbackend/internal/config"
	"posbackend/internal/logger"
)

// Module composes the whole application graph. opts are appended last so
// tests can fx.Replace individual components.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		fx.WithLogger(func(l *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
		}),
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
