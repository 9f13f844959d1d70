package models

// Contact request and invite statuses
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Message statuses
const (
	MessageStatusSent = "sent"
	MessageStatusRead = "read"
)

// Notification types
const (
	NotificationContactRequest  = "contact_request"
	NotificationRequestAccepted = "request_accepted"
	NotificationInviteAccepted  = "invite_accepted"
)
