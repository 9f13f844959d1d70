package models

import "time"

// InviteTTL is how long a shareable invite link stays redeemable.
const InviteTTL = 24 * time.Hour

// Invite is a short-lived shareable token. Redemption flips status with a
// condition on the current value, so the token is single-use even under
// concurrent redeemers.
type Invite struct {
	InviteID     string `dynamodbav:"inviteId" json:"inviteId"`
	CreatedBy    string `dynamodbav:"createdBy" json:"createdBy"`
	CreatorName  string `dynamodbav:"creatorName" json:"creatorName"`
	CreatorPhoto string `dynamodbav:"creatorPhoto,omitempty" json:"creatorPhoto,omitempty"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	ExpiresAt    string `dynamodbav:"expiresAt" json:"expiresAt"`
	Status       string `dynamodbav:"status" json:"status"` // pending, accepted
	AcceptedBy   string `dynamodbav:"acceptedBy,omitempty" json:"acceptedBy,omitempty"`
	AcceptedAt   string `dynamodbav:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
}

// Expired reports whether the invite is past its 24h window at the given time.
func (i Invite) Expired(now time.Time) bool {
	expires, err := time.Parse(time.RFC3339, i.ExpiresAt)
	if err != nil {
		return true
	}
	return now.After(expires)
}

// InvitesTable is the DynamoDB table name for invites
const InvitesTable = "Invites"
