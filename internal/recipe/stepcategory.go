// Package recipe holds presentation helpers for imported recipes.
package recipe

import (
	"strings"
	"unicode"
)

// StepCategory tags an instruction step for display.
type StepCategory string

const (
	CategoryPrep          StepCategory = "prep"
	CategoryCook          StepCategory = "cook"
	CategoryBake          StepCategory = "bake"
	CategoryRest          StepCategory = "rest"
	CategoryServe         StepCategory = "serve"
	CategoryTip           StepCategory = "tip"
	CategoryUncategorized StepCategory = "uncategorized"
)

// Categories lists every category in display order.
var Categories = []StepCategory{
	CategoryPrep, CategoryCook, CategoryBake, CategoryRest, CategoryServe, CategoryTip, CategoryUncategorized,
}

type marker struct {
	category StepCategory
	emoji    []string
	keywords []string
}

// Checked in order; the first match wins.
var markers = []marker{
	{CategoryPrep, []string{"🔪", "🥣", "🥄"}, []string{"prep", "preparation", "prepare"}},
	{CategoryCook, []string{"🔥", "🍳", "🥘"}, []string{"cook", "cooking"}},
	{CategoryBake, []string{"🥖", "🍞", "🧁"}, []string{"bake", "baking"}},
	{CategoryRest, []string{"⏲️", "⏲", "⏳", "⏰"}, []string{"rest", "resting", "chill", "wait"}},
	{CategoryServe, []string{"🍽️", "🍽"}, []string{"serve", "serving", "plate"}},
	{CategoryTip, []string{"💡", "📝"}, []string{"tip", "note", "hint"}},
}

// ClassifyStepText splits a leading category marker off a step. A marker is
// either one of the category emoji or a keyword followed by a colon, e.g.
// "Prep: dice the onion". Text without a marker is uncategorized and only
// trimmed.
func ClassifyStepText(text string) (StepCategory, string) {
	trimmed := strings.TrimSpace(text)

	for _, m := range markers {
		for _, e := range m.emoji {
			if rest, ok := strings.CutPrefix(trimmed, e); ok {
				return m.category, stripSeparator(rest)
			}
		}
	}

	head, rest, ok := strings.Cut(trimmed, ":")
	if ok {
		head = strings.ToLower(strings.TrimSpace(head))
		for _, m := range markers {
			for _, k := range m.keywords {
				if head == k {
					return m.category, stripSeparator(rest)
				}
			}
		}
	}

	return CategoryUncategorized, trimmed
}

func stripSeparator(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		// variation selector left over from a bare emoji prefix
		return unicode.IsSpace(r) || r == '\uFE0F' || r == ':' || r == '-'
	})
	return strings.TrimSpace(s)
}
