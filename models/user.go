package models

// User is the profile document created on first sign-in and keyed by the
// Firebase uid. Username is assigned post-registration and stored lowercase.
type User struct {
	UID         string `dynamodbav:"uid" json:"uid"`
	Email       string `dynamodbav:"email" json:"email"`
	DisplayName string `dynamodbav:"displayName" json:"displayName"`
	Username    string `dynamodbav:"username,omitempty" json:"username,omitempty"`
	PhotoURL    string `dynamodbav:"photoURL,omitempty" json:"photoURL,omitempty"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UsernameClaim reserves a handle in the Usernames table. The username is the
// partition key, so a conditional put is a store-enforced uniqueness
// constraint across all users.
type UsernameClaim struct {
	Username string `dynamodbav:"username" json:"username"`
	UID      string `dynamodbav:"uid" json:"uid"`
}

// UsersTable is the DynamoDB table name for user profiles
const UsersTable = "Users"

// UsernamesTable is the DynamoDB table name for handle claims
const UsernamesTable = "Usernames"

// GSIs used for contact-request target resolution
const (
	EmailIndex    = "email-index"
	UsernameIndex = "username-index"
)
