package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"EconomySentinel/internal/model"
)

// FormatLedger formats a ledger snapshot for display.
func FormatLedger(l model.Ledger) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("⚡ energy %s/%s | ❤️ hearts %d/%d\n",
		humanize.Comma(l[model.ResourceEnergy]), humanize.Comma(model.ResourceCap(model.ResourceEnergy)),
		l[model.ResourceHearts], model.ResourceCap(model.ResourceHearts)))
	b.WriteString(fmt.Sprintf("🪙 coins %s | ✨ xp %s | level %d | streak %d\n",
		humanize.Comma(l[model.ResourceCoins]),
		humanize.Comma(l[model.ResourceXP]),
		l[model.ResourceLevel],
		l[model.ResourceStreak]))

	gems := []model.Resource{
		model.ResourceSapphires, model.ResourceEmeralds, model.ResourceRubies,
		model.ResourceAmethysts, model.ResourceDiamonds,
	}
	parts := make([]string, 0, len(gems))
	for _, g := range gems {
		parts = append(parts, fmt.Sprintf("%s %d", g, l[g]))
	}
	b.WriteString("💎 " + strings.Join(parts, " | "))

	return b.String()
}

// FormatEvents formats the active global event set for display.
func FormatEvents(events []model.GlobalEvent) string {
	if len(events) == 0 {
		return "no active events"
	}
	var b strings.Builder
	for i, ev := range events {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("🎉 " + ev.Name)
		if ev.Category != "" {
			b.WriteString(" (buffed category: " + ev.Category + ")")
		}
		for r, mult := range ev.Multipliers {
			b.WriteString(fmt.Sprintf(" %s×%.2g", r, mult))
		}
	}
	return b.String()
}
