// Package recipes tracks which recipes the player may cook and sell.
package recipes

import (
	"errors"
	"fmt"
	"sort"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
)

var (
	ErrUnknownRecipe   = errors.New("unknown recipe")
	ErrAlreadyUnlocked = errors.New("recipe already unlocked")
)

// Registry is a grow-only set of unlocked recipe ids.
type Registry struct {
	known    map[string]*catalogs.RecipeDef
	unlocked map[string]struct{}

	unlockedHub notify.Hub[*catalogs.RecipeDef]
	changedHub  notify.Hub[[]string]
}

// New seeds the registry with defaults. Every default must exist in known.
func New(known map[string]*catalogs.RecipeDef, defaults []string) (*Registry, error) {
	r := &Registry{
		known:    known,
		unlocked: make(map[string]struct{}, len(defaults)),
	}
	for _, id := range defaults {
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("default unlocked %q: %w", id, ErrUnknownRecipe)
		}
		r.unlocked[id] = struct{}{}
	}
	return r, nil
}

// OnUnlock fires once per newly unlocked recipe.
func (r *Registry) OnUnlock(fn func(*catalogs.RecipeDef)) (cancel func()) {
	return r.unlockedHub.Subscribe(fn)
}

// OnChange receives the sorted unlocked set after it grows.
func (r *Registry) OnChange(fn func([]string)) (cancel func()) {
	return r.changedHub.Subscribe(fn)
}

func (r *Registry) IsUnlocked(recipeID string) bool {
	_, ok := r.unlocked[recipeID]
	return ok
}

func (r *Registry) Unlock(recipeID string) error {
	def, ok := r.known[recipeID]
	if !ok {
		return fmt.Errorf("%s: %w", recipeID, ErrUnknownRecipe)
	}
	if r.IsUnlocked(recipeID) {
		return fmt.Errorf("%s: %w", recipeID, ErrAlreadyUnlocked)
	}
	r.unlocked[recipeID] = struct{}{}
	r.unlockedHub.Emit(def)
	r.changedHub.Emit(r.Unlocked())
	return nil
}

// Unlocked returns the unlocked recipe ids in sorted order.
func (r *Registry) Unlocked() []string {
	out := make([]string, 0, len(r.unlocked))
	for id := range r.unlocked {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Count() int { return len(r.unlocked) }
