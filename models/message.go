package models

import (
	"sort"
	"strings"
)

// Message is an immutable chat message. createdAt is the sort key, so a
// query on chatId returns messages in creation order without a client sort.
type Message struct {
	ChatID      string `dynamodbav:"chatId" json:"chatId"`       // Partition Key
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"` // Sort Key (RFC3339Nano)
	MessageID   string `dynamodbav:"messageId" json:"messageId"`
	UID         string `dynamodbav:"uid" json:"uid"` // sender
	RecipientID string `dynamodbav:"recipientId" json:"recipientId"`
	Text        string `dynamodbav:"text" json:"text"`
	Status      string `dynamodbav:"status" json:"status"` // sent, read
}

// ChatID derives the two-party channel id: both uids sorted lexicographically
// and joined with "_", so either participant computes the same id.
func ChatID(uidA, uidB string) string {
	ids := []string{uidA, uidB}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
