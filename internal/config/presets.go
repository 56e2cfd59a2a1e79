package config

import "sort"

var Presets = map[string]map[string]*Config{
	ModelVehicle: {
		"baseline": withDefaults(func(c *Config) {
			c.Model = ModelVehicle
		}),
		"tabulated": withDefaults(func(c *Config) {
			c.Model = ModelVehicle
			c.Thrust.Source = ThrustTabulated
		}),
		"co2": withDefaults(func(c *Config) {
			c.Model = ModelVehicle
			c.Thrust.Source = ThrustTabulated
			c.Vehicle.CO2PerImpulse = 1
		}),
	},
	ModelPointMass: {
		"constant": withDefaults(func(c *Config) {
			c.Model = ModelPointMass
			c.Grid.StepsPerMs = 50
		}),
		"euler": withDefaults(func(c *Config) {
			c.Model = ModelPointMass
			c.Integrator = "euler"
			c.Grid.StepsPerMs = 50
		}),
		"cutoff": withDefaults(func(c *Config) {
			c.Model = ModelPointMass
			c.Grid.StepsPerMs = 50
			c.Grid.Cutoff = 1500
		}),
		"launched": withDefaults(func(c *Config) {
			c.Model = ModelPointMass
			c.Grid.StepsPerMs = 50
			c.Grid.Cutoff = 1500
			c.Initial = InitialConfig{Velocity: 0.5, Displacement: 0.5}
		}),
	},
}

func withDefaults(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	models := make([]string, 0, len(Presets))
	for m := range Presets {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
