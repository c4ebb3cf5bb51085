package config

import "go.uber.org/fx"

// Module provides the environment-backed configuration.
var Module = fx.Provide(Load)
