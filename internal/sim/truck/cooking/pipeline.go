// Package cooking turns ingredients into dishes over time. At most one job runs.
package cooking

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"foodtruck.sim/internal/sim/catalogs"
	"foodtruck.sim/internal/sim/notify"
	"foodtruck.sim/internal/sim/truck/inventory"
)

var (
	ErrBusy               = errors.New("already cooking")
	ErrRecipeLocked       = errors.New("recipe locked")
	ErrMissingIngredients = errors.New("missing ingredients")
	ErrUnknownRecipe      = errors.New("unknown recipe")
)

// UnlockChecker is the part of recipes.Registry the pipeline needs.
type UnlockChecker interface {
	IsUnlocked(recipeID string) bool
}

type Job struct {
	Recipe    *catalogs.RecipeDef
	Total     time.Duration
	Remaining time.Duration
}

type Started struct {
	Recipe   *catalogs.RecipeDef
	Duration time.Duration
}

type Failed struct {
	Recipe *catalogs.RecipeDef
	Err    error
}

// Completion reports how many result units fit in the inventory.
// Added < Recipe.ResultAmount means the rest was lost to a full store.
type Completion struct {
	Recipe *catalogs.RecipeDef
	Added  int
}

type Status struct {
	Cooking    bool
	RecipeID   string
	RecipeName string
	Total      time.Duration
	Remaining  time.Duration
	Progress   float64
}

type Pipeline struct {
	inv     *inventory.Store
	unlocks UnlockChecker
	logger  *log.Logger
	job     *Job

	started   notify.Hub[Started]
	failed    notify.Hub[Failed]
	completed notify.Hub[Completion]
}

// New builds an idle pipeline. unlocks may be nil, in which case every recipe
// counts as unlocked.
func New(inv *inventory.Store, unlocks UnlockChecker, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{inv: inv, unlocks: unlocks, logger: logger}
}

func (p *Pipeline) OnStarted(fn func(Started)) (cancel func()) { return p.started.Subscribe(fn) }

func (p *Pipeline) OnFailed(fn func(Failed)) (cancel func()) { return p.failed.Subscribe(fn) }

func (p *Pipeline) OnCompleted(fn func(Completion)) (cancel func()) {
	return p.completed.Subscribe(fn)
}

func (p *Pipeline) IsCooking() bool { return p.job != nil }

// Check reports why recipe cannot start now, or nil.
func (p *Pipeline) Check(recipe *catalogs.RecipeDef) error {
	if recipe == nil || recipe.ResultItem == nil {
		return ErrUnknownRecipe
	}
	if p.job != nil {
		return ErrBusy
	}
	if p.unlocks != nil && !p.unlocks.IsUnlocked(recipe.RecipeID) {
		return ErrRecipeLocked
	}
	for _, need := range requirements(recipe) {
		if !p.inv.HasItem(need.Def, need.Count) {
			return ErrMissingIngredients
		}
	}
	return nil
}

// requirements folds repeated ingredient lines into one count per item.
func requirements(recipe *catalogs.RecipeDef) []catalogs.ItemCount {
	out := make([]catalogs.ItemCount, 0, len(recipe.Ingredients))
	idx := make(map[string]int, len(recipe.Ingredients))
	for _, in := range recipe.Ingredients {
		if i, ok := idx[in.Item]; ok {
			out[i].Count += in.Count
			continue
		}
		idx[in.Item] = len(out)
		out = append(out, in)
	}
	return out
}

func (p *Pipeline) CanStart(recipe *catalogs.RecipeDef) bool { return p.Check(recipe) == nil }

// Start consumes the ingredients and begins the job.
func (p *Pipeline) Start(recipe *catalogs.RecipeDef) error {
	if err := p.Check(recipe); err != nil {
		p.failed.Emit(Failed{Recipe: recipe, Err: err})
		return err
	}
	needs := requirements(recipe)
	for i, need := range needs {
		got := p.inv.Remove(need.Def, need.Count)
		if got == need.Count {
			continue
		}
		// The store came up short after Check passed: put everything back.
		p.inv.Add(need.Def, got)
		for _, done := range needs[:i] {
			p.inv.Add(done.Def, done.Count)
		}
		p.logger.Printf("recipe %s: removed %d of %d %s; ingredients restored", recipe.RecipeID, got, need.Count, need.Item)
		err := fmt.Errorf("%s: %w", need.Item, ErrMissingIngredients)
		p.failed.Emit(Failed{Recipe: recipe, Err: err})
		return err
	}
	d := recipe.Duration()
	p.job = &Job{Recipe: recipe, Total: d, Remaining: d}
	p.started.Emit(Started{Recipe: recipe, Duration: d})
	return nil
}

// Advance runs the active job forward by dt. It is a no-op while idle.
func (p *Pipeline) Advance(dt time.Duration) {
	if p.job == nil || dt < 0 {
		return
	}
	p.job.Remaining -= dt
	if p.job.Remaining > 0 {
		return
	}
	p.job.Remaining = 0
	job := p.job
	p.job = nil

	added := p.inv.Add(job.Recipe.ResultItem, job.Recipe.ResultAmount)
	if added < job.Recipe.ResultAmount {
		p.logger.Printf("recipe %s: inventory full, %d of %d %s lost",
			job.Recipe.RecipeID, job.Recipe.ResultAmount-added, job.Recipe.ResultAmount, job.Recipe.Result)
	}
	p.completed.Emit(Completion{Recipe: job.Recipe, Added: added})
}

func (p *Pipeline) Status() Status {
	if p.job == nil {
		return Status{}
	}
	st := Status{
		Cooking:    true,
		RecipeID:   p.job.Recipe.RecipeID,
		RecipeName: p.job.Recipe.Name,
		Total:      p.job.Total,
		Remaining:  p.job.Remaining,
	}
	if p.job.Total > 0 {
		st.Progress = 1 - float64(p.job.Remaining)/float64(p.job.Total)
	} else {
		st.Progress = 1
	}
	return st
}
