// Package textfit truncates strings to a character budget.
package textfit

// Ellipsis is appended to truncated text.
const Ellipsis = "..."

// Fit returns text unchanged when it has at most maxChars characters.
// Longer text is cut to maxChars-3 characters followed by Ellipsis, so the
// result never exceeds maxChars. Budgets below 3 yield the ellipsis cut to
// the budget (empty for budgets <= 0). Length is counted in runes.
func Fit(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	if maxChars < len(Ellipsis) {
		if maxChars <= 0 {
			return ""
		}
		return Ellipsis[:maxChars]
	}
	return string(runes[:maxChars-len(Ellipsis)]) + Ellipsis
}
