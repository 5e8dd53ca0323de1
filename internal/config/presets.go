package config

// Presets are named starting configurations for the CLI.
var Presets = map[string]*Config{
	"hover": Default(),
	"renormalized": func() *Config {
		c := Default()
		c.Renormalize = true
		return c
	}(),
	"offset": func() *Config {
		c := Default()
		c.RefPos = [3]float64{1, 1, 2}
		return c
	}(),
	"aggressive": func() *Config {
		c := Default()
		c.Controller.Kp = [3]float64{-8, -8, -8}
		c.Controller.Kv = [3]float64{-5, -5, -5}
		c.Controller.Tau = 0.15
		return c
	}(),
	"sluggish": func() *Config {
		c := Default()
		c.Controller.Kp = [3]float64{-2, -2, -2}
		c.Controller.Kv = [3]float64{-2.5, -2.5, -2.5}
		c.Controller.Tau = 0.5
		c.Steps = 3000
		return c
	}(),
}

// GetPreset returns the named preset, nil if unknown.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
