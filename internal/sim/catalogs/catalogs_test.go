package catalogs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRepoConfigs(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	if len(cats.Items.Palette) == 0 {
		t.Fatalf("expected items")
	}
	r, ok := cats.Recipe("tteokbokki")
	if !ok {
		t.Fatalf("missing tteokbokki recipe")
	}
	if r.ResultItem == nil || r.ResultItem.ID != "TTEOKBOKKI" {
		t.Fatalf("result not resolved: %+v", r.ResultItem)
	}
	if r.Duration() != 10*time.Second {
		t.Fatalf("duration: got %v", r.Duration())
	}
	byResult, ok := cats.RecipeForResult("TTEOKBOKKI")
	if !ok || byResult != r {
		t.Fatalf("result index mismatch")
	}
	for _, in := range r.Ingredients {
		if in.Def == nil {
			t.Fatalf("ingredient %s not resolved", in.Item)
		}
	}
	if len(cats.Shop.Entries) == 0 {
		t.Fatalf("expected shop entries")
	}
	if cats.Items.DefsDigest == "" || cats.Recipes.Digest == "" || cats.Shop.Digest == "" {
		t.Fatalf("expected digests")
	}
}

func TestBuildItemsDefaults(t *testing.T) {
	var out ItemCatalog
	if err := BuildItems([]ItemDef{{ID: "TOMATO"}}, &out); err != nil {
		t.Fatalf("BuildItems: %v", err)
	}
	d := out.Defs["TOMATO"]
	if d.MaxStack != DefaultMaxStack {
		t.Fatalf("max stack default: got %d", d.MaxStack)
	}
	if d.DisplayName != "TOMATO" || d.Kind != KindMisc {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if err := BuildItems([]ItemDef{{ID: "A"}, {ID: "A"}}, &out); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestBuildRecipesRejectsUnknownAndDuplicateResult(t *testing.T) {
	var items ItemCatalog
	if err := BuildItems([]ItemDef{{ID: "TOMATO"}, {ID: "BUN"}, {ID: "BURGER"}}, &items); err != nil {
		t.Fatalf("BuildItems: %v", err)
	}

	var out RecipeCatalog
	err := BuildRecipes([]RecipeDef{{
		RecipeID:    "burger",
		Ingredients: []ItemCount{{Item: "LETTUCE", Count: 1}},
		Result:      "BURGER",
	}}, &items, &out)
	if err == nil {
		t.Fatalf("expected unknown ingredient error")
	}

	err = BuildRecipes([]RecipeDef{
		{RecipeID: "a", Ingredients: []ItemCount{{Item: "BUN", Count: 1}}, Result: "BURGER"},
		{RecipeID: "b", Ingredients: []ItemCount{{Item: "TOMATO", Count: 1}}, Result: "BURGER"},
	}, &items, &out)
	if err == nil {
		t.Fatalf("expected duplicate result error")
	}

	err = BuildRecipes([]RecipeDef{{
		RecipeID:    "double",
		Ingredients: []ItemCount{{Item: "TOMATO", Count: 1}, {Item: "TOMATO", Count: 1}},
		Result:      "BURGER",
	}}, &items, &out)
	if err == nil {
		t.Fatalf("expected repeated ingredient error")
	}

	err = BuildRecipes([]RecipeDef{
		{RecipeID: "a", Ingredients: []ItemCount{{Item: "BUN", Count: 1}}, Result: "BURGER"},
	}, &items, &out)
	if err != nil {
		t.Fatalf("BuildRecipes: %v", err)
	}
	r := out.ByID["a"]
	if r.Price != DefaultPrice || r.ResultAmount != DefaultResultAmount || r.CookingSeconds != DefaultCookingSeconds {
		t.Fatalf("defaults not applied: %+v", r)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("items.json", `[{"id":"TOMATO","max_stack":0}]`)
	write("recipes.json", `[]`)

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected schema error for max_stack=0")
	}

	write("items.json", `[{"id":"TOMATO"},{"id":"SAUCE"}]`)
	write("recipes.json", `[{"recipe_id":"sauce","ingredients":[{"item":"TOMATO","count":2}],"result":"SAUCE"}]`)
	cats, err := Load(dir)
	if err != nil {
		t.Fatalf("load without shop.json: %v", err)
	}
	if len(cats.Shop.Entries) != 0 {
		t.Fatalf("expected empty shop")
	}

	write("shop.json", `{"entries":[{"recipe_id":"missing","price":10}]}`)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected unknown recipe error")
	}
}
