package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipekeeper/internal/client/client"
	"github.com/dmitrijs2005/recipekeeper/internal/client/models"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/recipe"
)

func (a *App) List(ctx context.Context) error {
	res, err := a.recipes.List(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}

	if res.FromCache {
		a.setMode(ModeOffline)
		a.println("Offline: showing cached recipes.")
	} else {
		a.setMode(ModeOnline)
	}

	if len(res.Recipes) == 0 {
		a.println("No recipes yet. Try 'import <url>'.")
		return nil
	}
	for _, r := range res.Recipes {
		a.println(formatRecipeLine(r))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	res, err := a.recipes.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		a.printf("Recipe %s not found.\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	if res.FromCache {
		a.setMode(ModeOffline)
		a.println("Offline: showing cached copy.")
	}

	a.println(formatRecipe(res.Recipe))
	return nil
}

func formatRecipeLine(r models.CachedRecipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", r.ID, r.Name)
	if r.Favorite {
		b.WriteString(" *")
	}
	if total := r.PrepMinutes + r.CookMinutes; total > 0 {
		fmt.Fprintf(&b, "  (%d min)", total)
	}
	return b.String()
}

func formatRecipe(d *models.CachedRecipeDetail) string {
	var b strings.Builder

	b.WriteString(d.Name + "\n")
	if d.Description != "" {
		b.WriteString(d.Description + "\n")
	}
	if d.Servings > 0 {
		fmt.Fprintf(&b, "Serves %d", d.Servings)
		if d.PrepMinutes > 0 || d.CookMinutes > 0 {
			fmt.Fprintf(&b, ", prep %d min, cook %d min", d.PrepMinutes, d.CookMinutes)
		}
		b.WriteString("\n")
	}
	if d.SourceURL != "" {
		b.WriteString("Source: " + d.SourceURL + "\n")
	}

	b.WriteString("\nIngredients:\n")
	for _, in := range d.Ingredients {
		qty := strings.TrimSpace(in.Quantity + " " + in.Unit)
		if qty != "" {
			fmt.Fprintf(&b, "  - %s %s\n", qty, in.Name)
		} else {
			fmt.Fprintf(&b, "  - %s\n", in.Name)
		}
	}

	b.WriteString("\nSteps:\n")
	for i, st := range d.Steps {
		cat, text := recipe.ClassifyStepText(st.Description)
		if cat == recipe.CategoryUncategorized {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, text)
		} else {
			fmt.Fprintf(&b, "  %d. [%s] %s\n", i+1, cat, text)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
