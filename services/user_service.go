package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("username must be 3-20 characters: letters, numbers, underscores")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrUsernameSet     = errors.New("username is already set")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

type UserService struct {
	Dynamo DynamoAPI
}

// SyncUser upserts the caller's user document from verified token claims.
// The document is created on first sign-in and refreshed on later ones;
// username and createdAt survive the refresh.
func (s *UserService) SyncUser(ctx context.Context, uid, email, displayName, photoURL string) (*models.User, error) {
	if displayName == "" && email != "" {
		displayName = strings.Split(email, "@")[0]
	}

	_, err := s.GetUser(ctx, uid)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		user := models.User{
			UID:         uid,
			Email:       email,
			DisplayName: displayName,
			PhotoURL:    photoURL,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Dynamo.PutItem(ctx, models.UsersTable, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		logger.Sugar.Infof("✅ User created: %s", uid)
		return &user, nil
	}

	updateExpression := "SET email = :email, displayName = :displayName, photoURL = :photoURL, updatedAt = :updatedAt"
	key := utils.StringKey("uid", uid)
	expressionValues := map[string]types.AttributeValue{
		":email":       &types.AttributeValueMemberS{Value: email},
		":displayName": &types.AttributeValueMemberS{Value: displayName},
		":photoURL":    &types.AttributeValueMemberS{Value: photoURL},
		":updatedAt":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression, key, expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(attrs, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// GetUser retrieves a user document by uid.
func (s *UserService) GetUser(ctx context.Context, uid string) (*models.User, error) {
	key := utils.StringKey("uid", uid)

	item, err := s.Dynamo.GetItem(ctx, models.UsersTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// UpdateProfile edits the mutable display fields.
func (s *UserService) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) (*models.User, error) {
	updateExpression := "SET displayName = :displayName, photoURL = :photoURL, updatedAt = :updatedAt"
	key := utils.StringKey("uid", uid)
	expressionValues := map[string]types.AttributeValue{
		":displayName": &types.AttributeValueMemberS{Value: displayName},
		":photoURL":    &types.AttributeValueMemberS{Value: photoURL},
		":updatedAt":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.UsersTable, updateExpression, key, expressionValues, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(attrs, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// SetUsername assigns the unique lowercase handle, once. Uniqueness is a
// claim document in the Usernames table: the claim put and the profile update
// share one transaction, each guarded by its own condition, so concurrent
// claimers of the same handle cannot both win.
func (s *UserService) SetUsername(ctx context.Context, uid, username string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	user, err := s.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.Username != "" {
		return nil, ErrUsernameSet
	}

	claim, err := attributevalue.MarshalMap(models.UsernameClaim{Username: username, UID: uid})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal username claim: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	items := []types.TransactWriteItem{
		{
			Put: &types.Put{
				TableName:           tableName(models.UsernamesTable),
				Item:                claim,
				ConditionExpression: strPtr("attribute_not_exists(username)"),
			},
		},
		{
			Update: &types.Update{
				TableName:           tableName(models.UsersTable),
				Key:                 utils.StringKey("uid", uid),
				UpdateExpression:    strPtr("SET username = :username, updatedAt = :updatedAt"),
				ConditionExpression: strPtr("attribute_not_exists(username)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":username":  &types.AttributeValueMemberS{Value: username},
					":updatedAt": &types.AttributeValueMemberS{Value: now},
				},
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to set username: %w", err)
	}

	logger.Sugar.Infof("✅ Username set for %s: %s", uid, username)

	user.Username = username
	user.UpdatedAt = now
	return user, nil
}

// LookupByEmail resolves a user through the email GSI.
func (s *UserService) LookupByEmail(ctx context.Context, email string) (*models.User, error) {
	keyCondition := "email = :email"
	expressionValues := map[string]types.AttributeValue{
		":email": &types.AttributeValueMemberS{Value: email},
	}
	return s.lookupOne(ctx, models.EmailIndex, keyCondition, expressionValues)
}

// LookupByUsername resolves a user through the username GSI.
func (s *UserService) LookupByUsername(ctx context.Context, username string) (*models.User, error) {
	keyCondition := "username = :username"
	expressionValues := map[string]types.AttributeValue{
		":username": &types.AttributeValueMemberS{Value: strings.ToLower(username)},
	}
	return s.lookupOne(ctx, models.UsernameIndex, keyCondition, expressionValues)
}

func (s *UserService) lookupOne(ctx context.Context, indexName, keyCondition string, expressionValues map[string]types.AttributeValue) (*models.User, error) {
	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.UsersTable, indexName, keyCondition, expressionValues, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", indexName, err)
	}
	if len(items) == 0 {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(items[0], &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// ListUsers returns the user directory, excluding the caller.
func (s *UserService) ListUsers(ctx context.Context, excludeUID string) ([]models.User, error) {
	filterExpression := "#uid <> :uid"
	expressionValues := map[string]types.AttributeValue{
		":uid": &types.AttributeValueMemberS{Value: excludeUID},
	}
	expressionNames := map[string]string{
		"#uid": "uid",
	}

	items, err := s.Dynamo.ScanItems(ctx, models.UsersTable, filterExpression, expressionValues, expressionNames)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var users []models.User
	if err := attributevalue.UnmarshalListOfMaps(items, &users); err != nil {
		return nil, fmt.Errorf("failed to unmarshal users: %w", err)
	}
	return users, nil
}
