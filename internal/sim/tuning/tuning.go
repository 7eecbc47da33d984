package tuning

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickRateHz int   `yaml:"tick_rate_hz"`
	Seed       int64 `yaml:"seed"`

	InventoryCapacity int            `yaml:"inventory_capacity"`
	StartingMoney     int64          `yaml:"starting_money"`
	StarterItems      map[string]int `yaml:"starter_items"`
	DefaultUnlocked   []string       `yaml:"default_unlocked_recipes"`

	Queue     QueueTuning     `yaml:"queue"`
	Orders    OrderTuning     `yaml:"orders"`
	Customers []CustomerSpawn `yaml:"customers"`
}

type QueueTuning struct {
	Anchor          [3]float64 `yaml:"anchor"`
	Direction       [3]float64 `yaml:"direction"`
	Spacing         float64    `yaml:"spacing"`
	ArrivalDistance float64    `yaml:"arrival_distance"`
	WalkSpeed       float64    `yaml:"walk_speed"`
}

type OrderTuning struct {
	TimeLimitMinSeconds float64 `yaml:"time_limit_min_seconds"`
	TimeLimitMaxSeconds float64 `yaml:"time_limit_max_seconds"`
	QuantityMin         int     `yaml:"quantity_min"`
	QuantityMax         int     `yaml:"quantity_max"`
}

// CustomerSpawn places a customer at Home when the engine starts.
// OrderItem may be empty; the engine then picks an unlocked dish.
type CustomerSpawn struct {
	Name      string     `yaml:"name"`
	Home      [3]float64 `yaml:"home"`
	OrderItem string     `yaml:"order_item,omitempty"`
	Quantity  int        `yaml:"quantity,omitempty"`
}

func Defaults() Tuning {
	return Tuning{
		TickRateHz:        10,
		Seed:              1337,
		InventoryCapacity: 11,
		StartingMoney:     0,
		Queue: QueueTuning{
			Direction:       [3]float64{0, 0, 1},
			Spacing:         2,
			ArrivalDistance: 0.5,
			WalkSpeed:       3.5,
		},
		Orders: OrderTuning{
			TimeLimitMinSeconds: 30,
			TimeLimitMaxSeconds: 30,
			QuantityMin:         1,
			QuantityMax:         1,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.TickRateHz <= 0 {
		return errors.New("tick_rate_hz must be positive")
	}
	if t.InventoryCapacity <= 0 {
		return errors.New("inventory_capacity must be positive")
	}
	if t.StartingMoney < 0 {
		return errors.New("starting_money must not be negative")
	}
	for id, n := range t.StarterItems {
		if n <= 0 {
			return fmt.Errorf("starter_items.%s must be positive", id)
		}
	}
	q := t.Queue
	if q.Spacing < 0 {
		return errors.New("queue.spacing must not be negative")
	}
	if q.Direction[0] == 0 && q.Direction[1] == 0 && q.Direction[2] == 0 {
		return errors.New("queue.direction must be non-zero")
	}
	if q.ArrivalDistance < 0 {
		return errors.New("queue.arrival_distance must not be negative")
	}
	if q.WalkSpeed <= 0 {
		return errors.New("queue.walk_speed must be positive")
	}
	o := t.Orders
	if o.TimeLimitMinSeconds <= 0 || o.TimeLimitMaxSeconds < o.TimeLimitMinSeconds {
		return errors.New("orders: need 0 < time_limit_min_seconds <= time_limit_max_seconds")
	}
	if o.QuantityMin <= 0 || o.QuantityMax < o.QuantityMin {
		return errors.New("orders: need 0 < quantity_min <= quantity_max")
	}
	for i, c := range t.Customers {
		if c.Quantity < 0 {
			return fmt.Errorf("customers[%d].quantity must not be negative", i)
		}
	}
	return nil
}

func (o OrderTuning) TimeLimitRange() (min, max time.Duration) {
	return seconds(o.TimeLimitMinSeconds), seconds(o.TimeLimitMaxSeconds)
}

func (t Tuning) TickInterval() time.Duration {
	return time.Second / time.Duration(t.TickRateHz)
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
