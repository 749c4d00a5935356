package config

// Presets are named flight scenarios. Each starts from the defaults and
// overrides what the scenario is about.
var Presets = map[string]func() *Config{
	"nominal": func() *Config {
		return DefaultConfig()
	},
	"adaptive": func() *Config {
		cfg := DefaultConfig()
		cfg.Predictor = "adaptive"
		return cfg
	},
	"ballistic-fallback": func() *Config {
		cfg := DefaultConfig()
		cfg.Predictor = "closed_form"
		return cfg
	},
	"bang-bang": func() *Config {
		cfg := DefaultConfig()
		cfg.Law = "bang_bang"
		return cfg
	},
	"noisy": func() *Config {
		cfg := DefaultConfig()
		cfg.Sensor = SensorConfig{AltitudeStd: 5.0, VelocityStd: 2.0, Seed: 1}
		return cfg
	},
	"high-power": func() *Config {
		cfg := DefaultConfig()
		cfg.TargetApogee = 1500
		cfg.Motor = MotorConfig{Thrust: 1500, BurnTime: 4.0, PropellantMass: 4.0}
		cfg.Vehicle = VehicleConfig{DryMass: 20, DragCoefficient: 0.45, ReferenceArea: 0.012}
		return cfg
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
