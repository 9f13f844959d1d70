package models

// Contact is one directional edge of a mutual friendship. A connected pair
// always has two edges (A→B and B→A), written together in one transaction.
// The userId+contactId composite key makes duplicate edges unexpressible.
type Contact struct {
	UserID      string `dynamodbav:"userId" json:"userId"`       // Partition Key
	ContactID   string `dynamodbav:"contactId" json:"contactId"` // Sort Key
	DisplayName string `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	PhotoURL    string `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`
	ChatID      string `dynamodbav:"chatId" json:"chatId"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
	LastChatAt  string `dynamodbav:"lastChatAt,omitempty" json:"lastChatAt,omitempty"`
	LastMessage string `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
}

// ContactWithUser is a contact edge joined with the fresh user document,
// as returned by the contact-list endpoint.
type ContactWithUser struct {
	Contact
	UserInfo *User `json:"userInfo"`
}

// ContactsTable is the DynamoDB table name for contact edges
const ContactsTable = "Contacts"
