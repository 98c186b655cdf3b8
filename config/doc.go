// Package config loads argmesh settings from a YAML, TOML or JSON file and
// ARGMESH_* environment variables using viper, and converts them into the
// option types the runtime packages consume.
//
//	cfg, err := config.Load(ctx, "argmesh.yaml")
//	if err != nil {
//		return err
//	}
//	mesh := argmesh.New(func(o *argmesh.Options) {
//		o.Defaults = cfg.Prompt.Options()
//		o.EngineConfig = cfg.Engine.EngineConfig()
//	})
package config
