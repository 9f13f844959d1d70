package services

import (
	"context"
	"testing"

	"bumblechat_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNotificationCarriesActorSnapshot(t *testing.T) {
	fake := &fakeDynamo{}
	svc := &NotificationService{Dynamo: fake}

	err := svc.Create(context.Background(), "uid-bob", models.NotificationContactRequest, alice(), "Alice wants to connect with you")
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	notification, ok := fake.puts[0].Item.(models.Notification)
	require.True(t, ok)
	assert.Equal(t, "uid-bob", notification.UserID)
	assert.Equal(t, "uid-alice", notification.FromUID)
	assert.Equal(t, "Alice", notification.FromName)
	assert.False(t, notification.Read)
	assert.NotEmpty(t, notification.NotificationID)
}

func TestListNotificationsNewestFirst(t *testing.T) {
	fake := &fakeDynamo{
		queryFn: func(table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
			return []map[string]types.AttributeValue{
				mustMarshal(t, models.Notification{NotificationID: "n1", CreatedAt: "2025-06-01T10:00:00Z"}),
				mustMarshal(t, models.Notification{NotificationID: "n2", CreatedAt: "2025-06-03T10:00:00Z"}),
				mustMarshal(t, models.Notification{NotificationID: "n3", CreatedAt: "2025-06-02T10:00:00Z"}),
			}, nil
		},
	}
	svc := &NotificationService{Dynamo: fake}

	notifications, err := svc.List(context.Background(), "uid-bob")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	assert.Equal(t, "n2", notifications[0].NotificationID)
	assert.Equal(t, "n3", notifications[1].NotificationID)
	assert.Equal(t, "n1", notifications[2].NotificationID)
}

func TestMarkReadTargetsCallersOwnRow(t *testing.T) {
	fake := &fakeDynamo{}
	svc := &NotificationService{Dynamo: fake}

	err := svc.MarkRead(context.Background(), "uid-bob", "n1")
	require.NoError(t, err)

	require.Len(t, fake.updates, 1)
	assert.Equal(t, models.NotificationsTable, fake.updates[0].Table)
	if v, ok := fake.updates[0].Key["userId"].(*types.AttributeValueMemberS); assert.True(t, ok) {
		assert.Equal(t, "uid-bob", v.Value)
	}
}

func TestMarkReadUnknownIDIsNotFound(t *testing.T) {
	fake := &fakeDynamo{
		updateCondFn: func(table, expr, condition string, key, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
			assert.Equal(t, "attribute_exists(notificationId)", condition)
			return nil, ErrConditionFailed
		},
	}
	svc := &NotificationService{Dynamo: fake}

	err := svc.MarkRead(context.Background(), "uid-bob", "no-such-id")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
