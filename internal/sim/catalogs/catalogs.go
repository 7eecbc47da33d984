package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	DefaultMaxStack       = 99
	DefaultCookingSeconds = 10
	DefaultPrice          = 100
	DefaultResultAmount   = 1
)

type Catalogs struct {
	Items   ItemCatalog
	Recipes RecipeCatalog
	Shop    ShopCatalog
}

type ItemCatalog struct {
	Palette    []string
	Defs       map[string]*ItemDef
	DefsDigest string
}

type ItemKind string

const (
	KindIngredient ItemKind = "INGREDIENT"
	KindConsumable ItemKind = "CONSUMABLE"
	KindDish       ItemKind = "DISH"
	KindMisc       ItemKind = "MISC"
)

// ItemDef is immutable once loaded; inventories hold pointers into the catalog.
type ItemDef struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	Kind          ItemKind `json:"kind"`
	IngredientKey string   `json:"ingredient_key,omitempty"`
	MaxStack      int      `json:"max_stack,omitempty"`
}

type RecipeCatalog struct {
	ByID map[string]*RecipeDef
	// ByResult maps a result item id to the recipe producing it.
	ByResult map[string]*RecipeDef
	Order    []string
	Digest   string
}

type RecipeDef struct {
	RecipeID       string      `json:"recipe_id"`
	Name           string      `json:"name"`
	CookingSeconds float64     `json:"cooking_seconds,omitempty"`
	Price          int64       `json:"price,omitempty"`
	Ingredients    []ItemCount `json:"ingredients"`
	Result         string      `json:"result"`
	ResultAmount   int         `json:"result_amount,omitempty"`

	// Resolved at load time.
	ResultItem *ItemDef `json:"-"`
}

// Duration is the cooking time.
func (r *RecipeDef) Duration() time.Duration {
	return time.Duration(r.CookingSeconds * float64(time.Second))
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`

	Def *ItemDef `json:"-"`
}

type ShopCatalog struct {
	Entries  []ShopEntry
	ByRecipe map[string]ShopEntry
	Digest   string
}

type ShopEntry struct {
	RecipeID string `json:"recipe_id"`
	Price    int64  `json:"price"`
}

type shopFile struct {
	Entries []ShopEntry `json:"entries"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadItems(filepath.Join(configDir, "items.json"), &c.Items); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Items, &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadShop(filepath.Join(configDir, "shop.json"), &c.Recipes, &c.Shop); err != nil {
		return nil, err
	}
	return &c, nil
}

// Item looks up an item definition.
func (c *Catalogs) Item(id string) (*ItemDef, bool) {
	d, ok := c.Items.Defs[id]
	return d, ok
}

// Recipe looks up a recipe definition.
func (c *Catalogs) Recipe(id string) (*RecipeDef, bool) {
	r, ok := c.Recipes.ByID[id]
	return r, ok
}

// RecipeForResult returns the recipe whose result is itemID.
func (c *Catalogs) RecipeForResult(itemID string) (*RecipeDef, bool) {
	r, ok := c.Recipes.ByResult[itemID]
	return r, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadItems(path string, out *ItemCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := validate(schemaItems, raw); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	out.DefsDigest = sha256Hex(raw)

	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("items.json: %w", err)
	}
	return BuildItems(defs, out)
}

// BuildItems indexes item definitions, applying defaults.
func BuildItems(defs []ItemDef, out *ItemCatalog) error {
	out.Defs = make(map[string]*ItemDef, len(defs))
	for i := range defs {
		d := defs[i]
		if d.ID == "" {
			return fmt.Errorf("items.json: empty id")
		}
		if _, dup := out.Defs[d.ID]; dup {
			return fmt.Errorf("items.json: duplicate id %s", d.ID)
		}
		if d.MaxStack <= 0 {
			d.MaxStack = DefaultMaxStack
		}
		if d.DisplayName == "" {
			d.DisplayName = d.ID
		}
		if d.Kind == "" {
			d.Kind = KindMisc
		}
		out.Defs[d.ID] = &d
	}

	ids := make([]string, 0, len(out.Defs))
	for id := range out.Defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out.Palette = ids
	return nil
}

func loadRecipes(path string, items *ItemCatalog, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := validate(schemaRecipes, raw); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.Digest = sha256Hex(raw)

	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	if err := BuildRecipes(defs, items, out); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	return nil
}

// BuildRecipes resolves item references and builds the id and result indexes.
func BuildRecipes(defs []RecipeDef, items *ItemCatalog, out *RecipeCatalog) error {
	out.ByID = make(map[string]*RecipeDef, len(defs))
	out.ByResult = make(map[string]*RecipeDef, len(defs))
	out.Order = out.Order[:0]

	for i := range defs {
		r := defs[i]
		if r.RecipeID == "" {
			return fmt.Errorf("empty recipe_id")
		}
		if _, dup := out.ByID[r.RecipeID]; dup {
			return fmt.Errorf("duplicate recipe_id %s", r.RecipeID)
		}
		if r.Name == "" {
			r.Name = r.RecipeID
		}
		if r.CookingSeconds <= 0 {
			r.CookingSeconds = DefaultCookingSeconds
		}
		if r.Price <= 0 {
			r.Price = DefaultPrice
		}
		if r.ResultAmount <= 0 {
			r.ResultAmount = DefaultResultAmount
		}

		res, ok := items.Defs[r.Result]
		if !ok {
			return fmt.Errorf("recipe %s: unknown result item %q", r.RecipeID, r.Result)
		}
		r.ResultItem = res

		ings := make([]ItemCount, 0, len(r.Ingredients))
		seen := make(map[string]bool, len(r.Ingredients))
		for _, in := range r.Ingredients {
			if seen[in.Item] {
				return fmt.Errorf("recipe %s: ingredient %s listed more than once", r.RecipeID, in.Item)
			}
			seen[in.Item] = true
			def, ok := items.Defs[in.Item]
			if !ok {
				return fmt.Errorf("recipe %s: unknown ingredient %q", r.RecipeID, in.Item)
			}
			if in.Count <= 0 {
				return fmt.Errorf("recipe %s: ingredient %s: count must be positive", r.RecipeID, in.Item)
			}
			in.Def = def
			ings = append(ings, in)
		}
		r.Ingredients = ings

		if prev, dup := out.ByResult[r.Result]; dup {
			return fmt.Errorf("recipe %s: result %s already produced by %s", r.RecipeID, r.Result, prev.RecipeID)
		}
		rp := &r
		out.ByID[r.RecipeID] = rp
		out.ByResult[r.Result] = rp
		out.Order = append(out.Order, r.RecipeID)
	}
	return nil
}

func loadShop(path string, recipes *RecipeCatalog, out *ShopCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		// An empty shop is valid.
		if os.IsNotExist(err) {
			out.Digest = sha256Hex(nil)
			out.ByRecipe = map[string]ShopEntry{}
			return nil
		}
		return err
	}
	if err := validate(schemaShop, raw); err != nil {
		return fmt.Errorf("shop.json: %w", err)
	}
	out.Digest = sha256Hex(raw)

	var f shopFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("shop.json: %w", err)
	}
	if err := BuildShop(f.Entries, recipes, out); err != nil {
		return fmt.Errorf("shop.json: %w", err)
	}
	return nil
}

// BuildShop checks every entry against the recipe catalog.
func BuildShop(entries []ShopEntry, recipes *RecipeCatalog, out *ShopCatalog) error {
	out.Entries = make([]ShopEntry, 0, len(entries))
	out.ByRecipe = make(map[string]ShopEntry, len(entries))
	for _, e := range entries {
		if _, ok := recipes.ByID[e.RecipeID]; !ok {
			return fmt.Errorf("unknown recipe %q", e.RecipeID)
		}
		if e.Price <= 0 {
			return fmt.Errorf("recipe %s: price must be positive", e.RecipeID)
		}
		if _, dup := out.ByRecipe[e.RecipeID]; dup {
			return fmt.Errorf("duplicate entry for %s", e.RecipeID)
		}
		out.Entries = append(out.Entries, e)
		out.ByRecipe[e.RecipeID] = e
	}
	return nil
}
