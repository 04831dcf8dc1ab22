package domain

// NotificationSubject is the (type, entityType, entityId) triple attached to a
// notification row, used to compute its in-app destination.
type NotificationSubject struct {
	Type       string
	EntityType string
	EntityID   string
}
