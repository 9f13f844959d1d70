package models

// Notification is an in-app notification created by the contact flows and
// marked read by the recipient's own client.
type Notification struct {
	UserID         string `dynamodbav:"userId" json:"userId"`                 // Partition Key (recipient)
	NotificationID string `dynamodbav:"notificationId" json:"notificationId"` // Sort Key
	Type           string `dynamodbav:"type" json:"type"`
	FromUID        string `dynamodbav:"fromUid" json:"fromUid"`
	FromName       string `dynamodbav:"fromName,omitempty" json:"fromName,omitempty"`
	FromPhoto      string `dynamodbav:"fromPhoto,omitempty" json:"fromPhoto,omitempty"`
	Message        string `dynamodbav:"message" json:"message"`
	Read           bool   `dynamodbav:"read" json:"read"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// NotificationsTable is the DynamoDB table name for notifications
const NotificationsTable = "Notifications"
