package maincmd

import "github.com/caarlos0/env/v6"

// runtimeConfig holds the tuning knobs read from the environment rather
// than flags, parsed with github.com/caarlos0/env/v6 into a plain struct
// instead of scattered os.Getenv calls.
type runtimeConfig struct {
	// Debug, when true, makes Run print a bytecode disassembly
	// (lang/compiler.Disassemble) before executing a program.
	Debug bool `env:"ZERO_DEBUG" envDefault:"false"`

	// MaxLocals overrides lang/compiler.MaxLocals.
	MaxLocals int `env:"ZERO_MAX_LOCALS" envDefault:"256"`

	// MaxSteps overrides the machine.VM.MaxSteps safety net; 0 means no
	// limit.
	MaxSteps int `env:"ZERO_MAX_STEPS" envDefault:"0"`
}

func loadRuntimeConfig() (runtimeConfig, error) {
	var cfg runtimeConfig
	if err := env.Parse(&cfg); err != nil {
		return runtimeConfig{}, err
	}
	return cfg, nil
}
