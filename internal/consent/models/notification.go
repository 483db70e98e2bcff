package models

import "time"

// Notification is broadcast every time a preference set is applied, so that other
// components can react to consent changes without depending on the consent module.
type Notification struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Preferences Preferences `json:"detail"`
	Client      string      `json:"client,omitempty"`
	At          time.Time   `json:"at"`
}
