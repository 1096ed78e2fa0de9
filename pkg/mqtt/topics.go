package mqtt

// Topics announced by the sunshift agent
const (
	// TopicThemeState carries the currently applied theme, retained so
	// late subscribers see the present state immediately
	TopicThemeState = "sunshift/theme"

	// TopicTransition carries one event per run describing the decision
	// and the planned next trigger
	TopicTransition = "sunshift/transition"
)
