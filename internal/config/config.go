package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds tunable table defaults loaded from the data folder.
type GameConfig struct {
	DefaultAnte         int64 `json:"default_ante"`
	DefaultPenalty      int64 `json:"default_penalty"`
	TurnDurationSeconds int   `json:"turn_duration_seconds"`
	// RoomCodeLength configures how many characters a generated room code has.
	RoomCodeLength int `json:"room_code_length"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or nil when not loaded.
func GetGameConfig() *GameConfig {
	return cfg
}

// DefaultStakes returns the configured ante and pass penalty, with safe
// defaults when the config is absent or holds non-positive values.
func DefaultStakes() (ante, penalty int64) {
	ante, penalty = 50, 10
	if cfg == nil {
		return ante, penalty
	}
	if cfg.DefaultAnte > 0 {
		ante = cfg.DefaultAnte
	}
	if cfg.DefaultPenalty > 0 {
		penalty = cfg.DefaultPenalty
	}
	return ante, penalty
}

// TurnDuration returns the per-turn deadline in seconds.
func TurnDuration() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return 15
	}
	return cfg.TurnDurationSeconds
}

// RoomCodeLength returns the generated room code length.
func RoomCodeLength() int {
	if cfg == nil || cfg.RoomCodeLength <= 0 {
		return 5
	}
	return cfg.RoomCodeLength
}
