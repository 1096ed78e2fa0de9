package theme

// Theme is the OS UI appearance
type Theme int

const (
	Dark Theme = iota
	Light
)

func (t Theme) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// ParseTheme maps a stored string back to a Theme; anything unrecognized
// reports ok=false.
func ParseTheme(s string) (Theme, bool) {
	switch s {
	case "light":
		return Light, true
	case "dark":
		return Dark, true
	}
	return Dark, false
}
