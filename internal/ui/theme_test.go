package ui

import "testing"

func TestGetThemeFallsBackToDracula(t *testing.T) {
	theme := GetTheme("NoSuchTheme")
	if theme.Name != "Dracula" {
		t.Fatalf("expected Dracula fallback, got %q", theme.Name)
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	if len(names) < 2 {
		t.Fatalf("expected at least two themes, got %d", len(names))
	}

	seen := map[string]bool{}
	current := names[0]
	for range names {
		seen[current] = true
		current = NextTheme(current)
	}
	if current != names[0] {
		t.Fatalf("cycle did not return to %q, ended at %q", names[0], current)
	}
	for _, name := range names {
		if !seen[name] {
			t.Fatalf("theme %q never visited", name)
		}
	}
}

func TestNextThemeUnknownStartsAtFirst(t *testing.T) {
	if got := NextTheme("NoSuchTheme"); got != ThemeNames()[0] {
		t.Fatalf("expected first theme, got %q", got)
	}
}

func TestStatusColorsCoverOrderLifecycle(t *testing.T) {
	statuses := []string{"Order Placed", "Packing", "Shipped", "Out for delivery", "Delivered"}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		for _, status := range statuses {
			if theme.StatusColors[status] == "" {
				t.Errorf("theme %s missing color for status %q", name, status)
			}
		}
	}
}
