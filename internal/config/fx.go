package config

import "go.uber.org/fx"

// Module wires application and policy configuration. Validation runs as an
// invocation so startup fails before any request is served.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPolicyHolder),
	fx.Invoke(func(cfg Config) error {
		return cfg.Validate()
	}),
)
