package models

import "fmt"

// ContactRequest is the pending/accepted/rejected friend request document.
// The composite requestId key doubles as the store-side uniqueness constraint:
// a second request for the same ordered pair fails the conditional put.
type ContactRequest struct {
	RequestID  string       `dynamodbav:"requestId" json:"requestId"` // "{fromUid}_{toUid}"
	FromUID    string       `dynamodbav:"fromUid" json:"fromUid"`
	ToUID      string       `dynamodbav:"toUid" json:"toUid"`
	Status     string       `dynamodbav:"status" json:"status"` // pending, accepted, rejected
	SenderInfo *UserSnapshot `dynamodbav:"senderInfo,omitempty" json:"senderInfo,omitempty"`
	CreatedAt  string       `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt  string       `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UserSnapshot is the denormalized sender info carried on a request so the
// recipient can render it without a join.
type UserSnapshot struct {
	UID         string `dynamodbav:"uid" json:"uid"`
	DisplayName string `dynamodbav:"displayName" json:"displayName"`
	PhotoURL    string `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`
}

// ContactRequestID builds the composite document id for a directed request.
func ContactRequestID(fromUID, toUID string) string {
	return fmt.Sprintf("%s_%s", fromUID, toUID)
}

// ContactRequestsTable is the DynamoDB table name for contact requests
const ContactRequestsTable = "ContactRequests"

// GSIs for listing incoming and sent requests
const (
	ToUIDIndex   = "toUid-index"
	FromUIDIndex = "fromUid-index"
)
