package shopping

// Multiplier returns the serving ratio applied to a recipe's quantities.
// A missing base defaults to 1; missing selected servings default to the
// base, giving a ratio of 1.
func Multiplier(selectedServings, baseServings int) float64 {
	if baseServings < 1 {
		baseServings = 1
	}
	if selectedServings < 1 {
		selectedServings = baseServings
	}
	return float64(selectedServings) / float64(baseServings)
}

// Scale applies a multiplier to a parsed line. Quantity-less lines pass
// through unchanged. Rounding happens only at formatting time so error does
// not compound across recipes sharing an ingredient.
func Scale(line ParsedLine, multiplier float64) ParsedLine {
	if line.Quantity == nil {
		return line
	}
	scaled := *line.Quantity * multiplier
	line.Quantity = &scaled
	return line
}
