package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// money formats an amount with the currency symbol, dropping trailing
// zero cents for round prices.
func money(currency string, amount float64) string {
	if amount == math.Trunc(amount) {
		return currency + strconv.FormatFloat(amount, 'f', 0, 64)
	}
	return fmt.Sprintf("%s%.2f", currency, amount)
}

// wrap breaks text into lines no wider than width, on word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line += " " + word
		}
		lines = append(lines, line)
	}
	return lines
}
