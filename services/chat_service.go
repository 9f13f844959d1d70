package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	ErrEmptyMessage = errors.New("message text cannot be empty")
	ErrSelfChat     = errors.New("you cannot message yourself")
)

// ChatService stores and fetches messages for two-party channels.
type ChatService struct {
	Dynamo DynamoAPI
}

// SendMessage appends a message to the channel between sender and recipient
// and touches lastChatAt/lastMessage on both contact edges. The message write
// is the source of truth; the edge updates are display denormalization and
// only logged on failure.
func (s *ChatService) SendMessage(ctx context.Context, senderUID, recipientID, text string) (*models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if recipientID == senderUID {
		return nil, ErrSelfChat
	}

	now := time.Now().UTC()
	message := models.Message{
		ChatID:      models.ChatID(senderUID, recipientID),
		CreatedAt:   now.Format(time.RFC3339Nano),
		MessageID:   uuid.New().String(),
		UID:         senderUID,
		RecipientID: recipientID,
		Text:        text,
		Status:      models.MessageStatusSent,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	logger.Sugar.Debugf("📩 Message stored for chat %s", message.ChatID)

	s.touchContact(ctx, senderUID, recipientID, text, now)
	s.touchContact(ctx, recipientID, senderUID, text, now)

	return &message, nil
}

// GetMessages returns up to limit messages for the caller's channel with peer,
// strictly ascending by creation time (store-side sort on the range key).
func (s *ChatService) GetMessages(ctx context.Context, uid, peerID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	chatID := models.ChatID(uid, peerID)
	keyCondition := "chatId = :chatId"
	expressionValues := map[string]types.AttributeValue{
		":chatId": &types.AttributeValueMemberS{Value: chatID},
	}

	items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, int32(limit), true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return messages, nil
}

// readBatchSize is how many messages one mark-as-read page fetches; the loop
// cursors through the whole channel on the createdAt range key.
const readBatchSize = 200

// MarkMessagesAsRead flips status on the messages the caller received in the
// channel with peer. Messages are otherwise immutable.
func (s *ChatService) MarkMessagesAsRead(ctx context.Context, uid, peerID string) (int, error) {
	chatID := models.ChatID(uid, peerID)

	updated := 0
	after := ""
	for {
		keyCondition := "chatId = :chatId"
		expressionValues := map[string]types.AttributeValue{
			":chatId": &types.AttributeValueMemberS{Value: chatID},
		}
		if after != "" {
			keyCondition += " AND createdAt > :after"
			expressionValues[":after"] = &types.AttributeValueMemberS{Value: after}
		}

		items, err := s.Dynamo.QueryItemsWithOptions(ctx, models.MessagesTable, keyCondition, expressionValues, nil, readBatchSize, true)
		if err != nil {
			return updated, fmt.Errorf("failed to fetch messages: %w", err)
		}

		var messages []models.Message
		if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
			return updated, fmt.Errorf("failed to unmarshal messages: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			if msg.UID == uid || msg.Status == models.MessageStatusRead {
				continue
			}

			key := utils.CompositeKey("chatId", chatID, "createdAt", msg.CreatedAt)
			updateExpression := "SET #s = :read"
			values := map[string]types.AttributeValue{
				":read": &types.AttributeValueMemberS{Value: models.MessageStatusRead},
			}
			names := map[string]string{
				"#s": "status",
			}

			if _, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, updateExpression, key, values, names); err != nil {
				logger.Sugar.Warnf("⚠️ Failed to mark message %s read: %v", msg.MessageID, err)
				continue
			}
			updated++
		}

		after = messages[len(messages)-1].CreatedAt
		if len(messages) < readBatchSize {
			break
		}
	}

	logger.Sugar.Debugf("✅ Marked %d messages read in chat %s", updated, chatID)
	return updated, nil
}

func (s *ChatService) touchContact(ctx context.Context, userID, contactID, lastMessage string, at time.Time) {
	key := utils.CompositeKey("userId", userID, "contactId", contactID)
	updateExpression := "SET lastChatAt = :lastChatAt, lastMessage = :lastMessage"
	values := map[string]types.AttributeValue{
		":lastChatAt":  &types.AttributeValueMemberS{Value: at.Format(time.RFC3339)},
		":lastMessage": &types.AttributeValueMemberS{Value: lastMessage},
	}

	if _, err := s.Dynamo.UpdateItem(ctx, models.ContactsTable, updateExpression, key, values, nil); err != nil {
		logger.Sugar.Warnf("⚠️ Failed to update contact %s_%s: %v", userID, contactID, err)
	}
}
