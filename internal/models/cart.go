package models

// OptionSelection references a choice the customer picked, with an optional
// repeat quantity for repeatable add-ons. Quantity zero means one.
type OptionSelection struct {
	ChoiceID string `json:"choice_id"`
	Quantity int    `json:"quantity,omitempty"`
}

// Count returns the effective selection quantity.
func (s OptionSelection) Count() int {
	if s.Quantity < 1 {
		return 1
	}
	return s.Quantity
}

// CartLine is one item in a cart. Rules are snapshotted at add-time so a
// later menu edit never changes an in-progress cart.
type CartLine struct {
	MenuItemID          string            `json:"menu_item_id"`
	Name                string            `json:"name"`
	BasePrice           float64           `json:"base_price"`
	Quantity            int               `json:"quantity"`
	Selections          []OptionSelection `json:"selections,omitempty"`
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	Rules               []ModifierRule    `json:"rules,omitempty"`
}

// Cart holds the lines a customer is assembling. A cart is scoped to exactly
// one restaurant at a time.
type Cart struct {
	RestaurantID string     `json:"restaurant_id"`
	Lines        []CartLine `json:"lines"`
}

// AddLine appends a line. Adding an item from a different restaurant
// replaces the whole cart rather than merging menus.
func (c *Cart) AddLine(restaurantID string, line CartLine) {
	if c.RestaurantID != restaurantID {
		c.RestaurantID = restaurantID
		c.Lines = nil
	}
	c.Lines = append(c.Lines, line)
}

// RemoveLine deletes the line at index i, preserving order.
func (c *Cart) RemoveLine(i int) {
	if i < 0 || i >= len(c.Lines) {
		return
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}

// Clear empties the cart but keeps its restaurant scope.
func (c *Cart) Clear() {
	c.Lines = nil
}
