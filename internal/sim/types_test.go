package sim

import (
	"errors"
	"testing"
)

func TestConfigTotalSteps(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want int
	}{
		{"explicit steps", Config{Dt: 1, Steps: 42, Duration: 1000}, 42},
		{"exact duration", Config{Dt: 0.5, Duration: 10}, 20},
		{"rounds up", Config{Dt: 3, Duration: 10}, 4},
		{"invalid dt", Config{Dt: 0, Duration: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.TotalSteps(); got != tt.want {
				t.Errorf("TotalSteps() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig invalid: %v", err)
	}
	if cfg.Dt != 1.0 {
		t.Errorf("expected dt 1s, got %f", cfg.Dt)
	}
	if cfg.TotalSteps() != 31540000 {
		t.Errorf("expected one year of steps, got %d", cfg.TotalSteps())
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Time: 1.5, Step: 150, Wrapped: ErrInvalidState}
	expected := "step 150 (t=1.5000): sim: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}
