package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"bumblechat_server/models"
	"bumblechat_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	Dynamo DynamoAPI
}

// Create writes an unread notification for userID carrying a snapshot of the
// acting user.
func (s *NotificationService) Create(ctx context.Context, userID, notificationType string, from *models.User, message string) error {
	notification := models.Notification{
		UserID:         userID,
		NotificationID: uuid.New().String(),
		Type:           notificationType,
		Message:        message,
		Read:           false,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if from != nil {
		notification.FromUID = from.UID
		notification.FromName = from.DisplayName
		notification.FromPhoto = from.PhotoURL
	}

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: userID},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.NotificationsTable, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	var notifications []models.Notification
	if err := attributevalue.UnmarshalListOfMaps(items, &notifications); err != nil {
		return nil, fmt.Errorf("failed to unmarshal notifications: %w", err)
	}

	// the sort key is the notification id, so order by time here
	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt > notifications[j].CreatedAt
	})
	return notifications, nil
}

// MarkRead flips the read flag on one of the caller's own notifications.
// The update is conditioned on the document existing so an unknown id is a
// not-found, not a phantom write.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	updateExpression := "SET #r = :read"
	condition := "attribute_exists(notificationId)"
	key := utils.CompositeKey("userId", userID, "notificationId", notificationID)
	expressionValues := map[string]types.AttributeValue{
		":read": &types.AttributeValueMemberBOOL{Value: true},
	}
	expressionNames := map[string]string{
		"#r": "read",
	}

	if _, err := s.Dynamo.UpdateItemWithCondition(ctx, models.NotificationsTable, updateExpression, condition, key, expressionValues, expressionNames); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
