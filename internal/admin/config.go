package admin

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/plinko/internal/config"
	"github.com/playmatatu/plinko/internal/models"
)

// GetAllRuntimeConfig returns all runtime config entries
func GetAllRuntimeConfig(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// GetRuntimeConfigValue returns a single runtime config value
func GetRuntimeConfigValue(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against a runtime config value type
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if n < 0 {
			return fmt.Errorf("value must not be negative: %s", value)
		}
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("invalid float value: %s", value)
		}
		if f < 0 {
			return fmt.Errorf("value must not be negative: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// UpdateRuntimeConfigValue updates a single runtime config value
func UpdateRuntimeConfigValue(db *sqlx.DB, key, value, adminPhone string) error {
	existing, err := GetRuntimeConfigValue(db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}
	if err := ValidateValue(existing.ValueType, value); err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, adminPhone, key)
	return err
}

// ApplyRuntimeConfig applies runtime config entries to the Config struct
func ApplyRuntimeConfig(configs []models.RuntimeConfig, cfg *config.Config) int {
	applied := 0
	for _, c := range configs {
		switch c.Key {
		case "starting_score":
			if v, err := strconv.ParseFloat(c.Value, 64); err == nil && v >= 0 {
				cfg.StartingScore = v
				applied++
			}
		case "max_balls_per_drop":
			if v, err := strconv.Atoi(c.Value); err == nil && v >= 0 {
				cfg.MaxBallsPerDrop = v
				applied++
			}
		case "session_idle_minutes":
			if v, err := strconv.Atoi(c.Value); err == nil && v >= 0 {
				cfg.SessionIdleMinutes = v
				applied++
			}
		case "broadcast_every":
			if v, err := strconv.Atoi(c.Value); err == nil && v > 0 {
				cfg.BroadcastEvery = v
				applied++
			}
		}
	}
	return applied
}

// ApplyRuntimeConfigToConfig loads runtime config from DB and applies overrides to the Config struct
func ApplyRuntimeConfigToConfig(db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAllRuntimeConfig(db)
	if err != nil {
		return err
	}
	n := ApplyRuntimeConfig(configs, cfg)
	log.Printf("[CONFIG] Applied %d runtime config overrides from database", n)
	return nil
}
