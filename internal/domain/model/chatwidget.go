package model

import "time"

// Widget positions accepted by the storefront.
const (
	WidgetBottomRight = "bottom-right"
	WidgetBottomLeft  = "bottom-left"
)

// ChatWidgetSettings is the singleton configuration for the storefront chat
// widget. Greeting is authored as markdown and rendered to sanitized HTML at
// the API boundary.
type ChatWidgetSettings struct {
	Enabled        bool
	Position       string
	AccentColor    string
	Greeting       string
	OfflineMessage string
	UpdatedAt      time.Time
}

// DefaultChatWidgetSettings returns the configuration used before an admin
// has saved anything.
func DefaultChatWidgetSettings() ChatWidgetSettings {
	return ChatWidgetSettings{
		Enabled:        true,
		Position:       WidgetBottomRight,
		AccentColor:    "#2f6fed",
		Greeting:       "Hi there! How can we help?",
		OfflineMessage: "We're away right now. Leave a message and we'll get back to you.",
	}
}
