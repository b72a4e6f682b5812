package domain

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatGil renders an amount with thousands separators, "1,234,567".
func FormatGil(v uint64) string {
	return numberPrinter.Sprintf("%d", v)
}

// FormatSignedGil renders a net amount with an explicit sign when positive.
func FormatSignedGil(v int64) string {
	if v > 0 {
		return "+" + numberPrinter.Sprintf("%d", v)
	}
	return numberPrinter.Sprintf("%d", v)
}

// FormatStackQuantity groups a quantity into full stacks when the item
// stacks and the quantity reaches at least one stack.
func FormatStackQuantity(qty uint64, stackSize uint32) string {
	if stackSize <= 1 || qty < uint64(stackSize) {
		return FormatGil(qty)
	}

	stacks := qty / uint64(stackSize)
	rest := qty % uint64(stackSize)
	unit := "stacks"
	if stacks == 1 {
		unit = "stack"
	}
	if rest == 0 {
		return fmt.Sprintf("%d %s", stacks, unit)
	}

	return fmt.Sprintf("%d %s + %d", stacks, unit, rest)
}
