package tuning

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvOverrides are optional FT_* environment variables applied on top of tuning.yaml.
type EnvOverrides struct {
	TickRateHz        *int     `env:"FT_TICK_RATE_HZ"`
	Seed              *int64   `env:"FT_SEED"`
	InventoryCapacity *int     `env:"FT_INVENTORY_CAPACITY"`
	StartingMoney     *int64   `env:"FT_STARTING_MONEY"`
	OrderTimeMin      *float64 `env:"FT_ORDER_TIME_MIN_SECONDS"`
	OrderTimeMax      *float64 `env:"FT_ORDER_TIME_MAX_SECONDS"`
}

// ApplyEnv overlays environment overrides and re-validates.
func ApplyEnv(t Tuning) (Tuning, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return t, fmt.Errorf("parse env: %w", err)
	}
	return o.Apply(t)
}

func (o EnvOverrides) Apply(t Tuning) (Tuning, error) {
	if o.TickRateHz != nil {
		t.TickRateHz = *o.TickRateHz
	}
	if o.Seed != nil {
		t.Seed = *o.Seed
	}
	if o.InventoryCapacity != nil {
		t.InventoryCapacity = *o.InventoryCapacity
	}
	if o.StartingMoney != nil {
		t.StartingMoney = *o.StartingMoney
	}
	if o.OrderTimeMin != nil {
		t.Orders.TimeLimitMinSeconds = *o.OrderTimeMin
	}
	if o.OrderTimeMax != nil {
		t.Orders.TimeLimitMaxSeconds = *o.OrderTimeMax
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("env overrides: %w", err)
	}
	return t, nil
}
