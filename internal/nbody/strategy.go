package nbody

import (
	"fmt"
	"strings"
)

// Strategy selects how a step splits the force computation
type Strategy int

const (
	// StrategyPairBuffer computes every pair force into a shared buffer,
	// then accumulates the buffer per goroutine
	StrategyPairBuffer Strategy = iota
	// StrategyPerThread accumulates pair forces straight into per-goroutine body buffers
	StrategyPerThread
)

func (s Strategy) String() string {
	switch s {
	case StrategyPairBuffer:
		return "pair-buffer"
	case StrategyPerThread:
		return "per-thread"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the strategy name or its version number ("0", "v0", "1", "v1")
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pair-buffer", "0", "v0":
		return StrategyPairBuffer, nil
	case "per-thread", "1", "v1", "":
		return StrategyPerThread, nil
	default:
		return 0, fmt.Errorf("unknown simulation strategy %q (want pair-buffer or per-thread)", s)
	}
}

// Preset selects the initial bodies of a bench galaxy
type Preset string

const (
	PresetRandom Preset = "random"
	PresetSolar  Preset = "solar"
)

// NewPresetGalaxy builds an n-body galaxy from preset
func NewPresetGalaxy(preset Preset, n int, seed int64) (*Galaxy, error) {
	switch preset {
	case PresetRandom, "":
		return NewRandomGalaxy(n, seed), nil
	case PresetSolar:
		return NewSolarGalaxy(n, seed), nil
	default:
		return nil, fmt.Errorf("unknown galaxy preset %q (want random or solar)", preset)
	}
}
