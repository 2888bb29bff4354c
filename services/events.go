// services/events.go - Notification events
package services

// Event kinds pushed to connected clients.
const (
	EventXPGained       = "xp_gained"
	EventLevelUp        = "level_up"
	EventBadgeEarned    = "badge_earned"
	EventGateCleared    = "gate_cleared"
	EventRaidDamage     = "raid_damage"
	EventRaidCleared    = "raid_cleared"
	EventDailyCompleted = "daily_quest_completed"
)

// Event is a single notification payload.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Notifier is the broadcast sink for progression events. The transport
// (websocket hub) lives outside the services; tests use NoopNotifier.
type Notifier interface {
	Publish(userID uint, event Event)
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Publish(uint, Event) {}
