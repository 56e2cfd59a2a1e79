package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/tethersim/internal/dynamo"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero end time", func(c *Config) { c.EndTime = 0 }, false},
		{"negative end time", func(c *Config) { c.EndTime = -5 }, false},
		{"single grid point", func(c *Config) { c.EndTime = 0.1 }, false},
		{"zero steps", func(c *Config) { c.StepsPerMs = 0 }, false},
		{"cutoff inside", func(c *Config) { c.Cutoff = 1500 }, true},
		{"cutoff at end", func(c *Config) { c.Cutoff = 3000 }, false},
		{"cutoff beyond end", func(c *Config) { c.Cutoff = 4000 }, false},
		{"negative cutoff", func(c *Config) { c.Cutoff = -1 }, false},
		{"cutoff phase too short", func(c *Config) { c.Cutoff = 0.05 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, dynamo.ErrInvalidGrid) {
				t.Errorf("expected ErrInvalidGrid, got %v", err)
			}
		})
	}
}

func TestConfig_PhaseCounts(t *testing.T) {
	cfg := Config{EndTime: 3000, StepsPerMs: 50, Cutoff: 1500}
	before, after := cfg.phaseCounts()
	if before != 75000 || after != 75000 {
		t.Errorf("phase counts = %d/%d, want 75000/75000", before, after)
	}
}

func TestFirstInvalid(t *testing.T) {
	if got := firstInvalid([]float64{1, 2, 3}); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
}
