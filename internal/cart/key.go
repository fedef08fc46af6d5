package cart

import "strings"

// ConfigKey derives the identity of a line item's configuration: product plus
// every customization choice, excluding quantity. Two lines with the same key
// are the same cart entry no matter when or in what order they were added.
func ConfigKey(productID, sizeOption, sugarLevel, iceOption string, toppings []ToppingRef) string {
	var b strings.Builder
	b.WriteString(productID)
	b.WriteByte('|')
	b.WriteString(sizeOption)
	b.WriteByte('|')
	b.WriteString(NormalizeSugarLevel(sugarLevel))
	b.WriteByte('|')
	b.WriteString(iceOption)

	for _, topping := range normalizeToppings(toppings) {
		b.WriteByte('|')
		b.WriteString(topping.ID)
		b.WriteByte(':')
		b.WriteString(topping.Name)
		b.WriteByte(':')
		b.WriteString(topping.ExtraPrice.String())
	}
	return b.String()
}

// ConfigKey returns the configuration identity of this line.
func (i LineItem) ConfigKey() string {
	return ConfigKey(i.ProductID, i.SizeOption, i.SugarLevel, i.IceOption, i.Toppings)
}
