package models

// MenuItem is the pricing-time snapshot of a menu item. The menu management
// subsystem owns authoring; pricing only reads these fields.
type MenuItem struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	BasePrice float64        `json:"base_price"`
	Available bool           `json:"available"`
	Hidden    bool           `json:"hidden"`
	Rules     []ModifierRule `json:"rules,omitempty"`
}

// AdjustmentKind is the price adjustment carried by a single option choice.
type AdjustmentKind string

const (
	AdjustmentAdditive       AdjustmentKind = "additive"
	AdjustmentMultiplicative AdjustmentKind = "multiplicative"
	AdjustmentFixedOverride  AdjustmentKind = "fixed_override"
)

// PriceAdjustment describes how selecting a choice changes the item price.
type PriceAdjustment struct {
	Kind  AdjustmentKind `json:"kind"`
	Value float64        `json:"value"`
}

// OptionChoice is one selectable choice inside an option group.
type OptionChoice struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	Name       string          `json:"name"`
	Adjustment PriceAdjustment `json:"adjustment"`
}

// RuleKind is the tagged variant over modifier rule behaviors.
type RuleKind string

const (
	RuleMultiplier RuleKind = "multiplier"
	RuleAddition   RuleKind = "addition"
	RuleFixed      RuleKind = "fixed"
)

// ModifierRule adjusts an item's price when its triggering choices are
// selected. Exactly one of Factor, Amount or Value is meaningful depending
// on Kind.
type ModifierRule struct {
	ID       string   `json:"id"`
	Kind     RuleKind `json:"kind"`
	Triggers []string `json:"triggers"`

	// Factor scales the running price (Kind == multiplier).
	Factor float64 `json:"factor,omitempty"`

	// Amount is added to the running price (Kind == addition). When
	// PerQuantity is set the amount is scaled by the selection quantity.
	Amount      float64 `json:"amount,omitempty"`
	PerQuantity bool    `json:"per_quantity,omitempty"`

	// Value replaces the running price outright (Kind == fixed).
	Value float64 `json:"value,omitempty"`
}

// RulesFromChoices compiles per-choice price adjustments into modifier
// rules, one rule per choice. This bridges the menu subsystem's choice
// contract into the rule set the evaluator consumes.
func RulesFromChoices(choices []OptionChoice) []ModifierRule {
	rules := make([]ModifierRule, 0, len(choices))
	for _, ch := range choices {
		rule := ModifierRule{
			ID:       "choice:" + ch.ID,
			Triggers: []string{ch.ID},
		}
		switch ch.Adjustment.Kind {
		case AdjustmentAdditive:
			rule.Kind = RuleAddition
			rule.Amount = ch.Adjustment.Value
			rule.PerQuantity = true
		case AdjustmentMultiplicative:
			rule.Kind = RuleMultiplier
			rule.Factor = ch.Adjustment.Value
		case AdjustmentFixedOverride:
			rule.Kind = RuleFixed
			rule.Value = ch.Adjustment.Value
		default:
			// Unknown kinds are carried through so the evaluator can flag
			// them instead of dropping them silently.
			rule.Kind = RuleKind(ch.Adjustment.Kind)
		}
		rules = append(rules, rule)
	}
	return rules
}
