package pricing

import (
	"fmt"
	"math"

	"github.com/platewise/platewise-orders-service/internal/models"
)

// ItemPrice is the priced result for a single cart line.
type ItemPrice struct {
	UnitPrice     float64
	ExtendedPrice float64

	// Warnings records recoverable rule problems. A malformed rule set
	// degrades the line to its base price; it never fails the cart.
	Warnings []string
}

// ComputeItemPrice applies a line's modifier rules to its base price.
//
// Rules evaluate in a fixed order because the kinds do not commute:
// fixed overrides first (last matching one wins), then multipliers in
// declaration order (compounding), then additions. A rule matches when at
// least one of its triggering choices appears in the selections; selections
// that trigger nothing are ignored. The unit price is clamped at zero.
//
// Preconditions: basePrice >= 0 and quantity >= 1, validated by the caller.
func ComputeItemPrice(basePrice float64, rules []models.ModifierRule, selections []models.OptionSelection, quantity int) ItemPrice {
	running, err := evaluateRules(basePrice, rules, selections)
	if err != nil {
		// Fall back to the base price so one bad rule cannot block
		// checkout of the rest of the cart.
		return ItemPrice{
			UnitPrice:     basePrice,
			ExtendedPrice: Round2(basePrice * float64(quantity)),
			Warnings:      []string{err.Error()},
		}
	}

	unit := math.Max(running, 0)
	return ItemPrice{
		UnitPrice:     unit,
		ExtendedPrice: Round2(unit * float64(quantity)),
	}
}

func evaluateRules(basePrice float64, rules []models.ModifierRule, selections []models.OptionSelection) (float64, error) {
	selected := make(map[string]int, len(selections))
	for _, s := range selections {
		selected[s.ChoiceID] += s.Count()
	}

	for _, r := range rules {
		if err := checkRule(r); err != nil {
			return 0, err
		}
	}

	running := basePrice

	// Pass 1: fixed overrides. Last matching rule wins; earlier matches
	// are overwritten, which is the documented policy choice.
	for _, r := range rules {
		if r.Kind == models.RuleFixed && ruleMatches(r, selected) {
			running = r.Value
		}
	}

	// Pass 2: multipliers compound in declaration order.
	for _, r := range rules {
		if r.Kind == models.RuleMultiplier && ruleMatches(r, selected) {
			running *= r.Factor
		}
	}

	// Pass 3: additions, scaled by the selection quantity of the
	// triggering choices when the rule is per-quantity.
	for _, r := range rules {
		if r.Kind != models.RuleAddition || !ruleMatches(r, selected) {
			continue
		}
		times := 1
		if r.PerQuantity {
			times = triggerQuantity(r, selected)
		}
		running += r.Amount * float64(times)
	}

	return running, nil
}

func checkRule(r models.ModifierRule) error {
	switch r.Kind {
	case models.RuleMultiplier:
		if r.Factor < 0 {
			return fmt.Errorf("modifier rule %s: negative multiplier factor", r.ID)
		}
	case models.RuleAddition, models.RuleFixed:
	default:
		return fmt.Errorf("modifier rule %s: unknown kind %q", r.ID, r.Kind)
	}
	if len(r.Triggers) == 0 {
		return fmt.Errorf("modifier rule %s: no trigger choices", r.ID)
	}
	return nil
}

func ruleMatches(r models.ModifierRule, selected map[string]int) bool {
	for _, t := range r.Triggers {
		if selected[t] > 0 {
			return true
		}
	}
	return false
}

func triggerQuantity(r models.ModifierRule, selected map[string]int) int {
	total := 0
	for _, t := range r.Triggers {
		total += selected[t]
	}
	if total < 1 {
		total = 1
	}
	return total
}
