package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

var (
	ErrInviteNotFound = errors.New("invalid or expired invitation link")
	ErrInviteExpired  = errors.New("this invitation link has expired")
	ErrInviteRedeemed = errors.New("this invitation has already been used")
	ErrSelfInvite     = errors.New("you cannot redeem your own invite")
)

// InviteService handles shareable invite links: create, inspect, redeem.
type InviteService struct {
	Dynamo        DynamoAPI
	Contacts      *ContactService
	Notifications *NotificationService
}

// CreateInvite writes a 24h single-use token carrying a creator snapshot.
func (s *InviteService) CreateInvite(ctx context.Context, creator *models.User) (*models.Invite, error) {
	now := time.Now().UTC()
	invite := models.Invite{
		InviteID:     uuid.New().String(),
		CreatedBy:    creator.UID,
		CreatorName:  creator.DisplayName,
		CreatorPhoto: creator.PhotoURL,
		CreatedAt:    now.Format(time.RFC3339),
		ExpiresAt:    now.Add(models.InviteTTL).Format(time.RFC3339),
		Status:       models.StatusPending,
	}

	if err := s.Dynamo.PutItem(ctx, models.InvitesTable, invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	logger.Sugar.Infof("✅ Invite created by %s: %s", creator.UID, invite.InviteID)
	return &invite, nil
}

// GetInvite fetches a token for the redemption page. Unknown tokens and
// expired ones are errors; an already-used token is reported as such.
func (s *InviteService) GetInvite(ctx context.Context, inviteID string) (*models.Invite, error) {
	key := utils.StringKey("inviteId", inviteID)

	item, err := s.Dynamo.GetItem(ctx, models.InvitesTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	var invite models.Invite
	if err := attributevalue.UnmarshalMap(item, &invite); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invite: %w", err)
	}

	if invite.Status == models.StatusAccepted {
		return nil, ErrInviteRedeemed
	}
	if invite.Expired(time.Now().UTC()) {
		return nil, ErrInviteExpired
	}
	return &invite, nil
}

// RedeemInvite connects the redeemer with the invite's creator: one
// transaction carrying the pending→accepted status flip (conditional, so
// concurrent redeemers lose) and both contact edges.
func (s *InviteService) RedeemInvite(ctx context.Context, inviteID string, redeemer *models.User) (*models.Invite, error) {
	invite, err := s.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	if invite.CreatedBy == redeemer.UID {
		return nil, ErrSelfInvite
	}

	connected, err := s.Contacts.AreContacts(ctx, redeemer.UID, invite.CreatedBy)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, ErrAlreadyContacts
	}

	now := time.Now().UTC().Format(time.RFC3339)
	chatID := models.ChatID(redeemer.UID, invite.CreatedBy)

	statusFlip := types.TransactWriteItem{
		Update: &types.Update{
			TableName: tableName(models.InvitesTable),
			Key:       utils.StringKey("inviteId", inviteID),
			UpdateExpression:    strPtr("SET #s = :accepted, acceptedBy = :acceptedBy, acceptedAt = :acceptedAt"),
			ConditionExpression: strPtr("#s = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":accepted":   &types.AttributeValueMemberS{Value: models.StatusAccepted},
				":acceptedBy": &types.AttributeValueMemberS{Value: redeemer.UID},
				":acceptedAt": &types.AttributeValueMemberS{Value: now},
				":pending":    &types.AttributeValueMemberS{Value: models.StatusPending},
			},
		},
	}

	items := []types.TransactWriteItem{statusFlip}

	edges := []models.Contact{
		{
			UserID:      redeemer.UID,
			ContactID:   invite.CreatedBy,
			DisplayName: invite.CreatorName,
			PhotoURL:    invite.CreatorPhoto,
			ChatID:      chatID,
			CreatedAt:   now,
			LastChatAt:  now,
			LastMessage: "Chat started",
		},
		{
			UserID:      invite.CreatedBy,
			ContactID:   redeemer.UID,
			DisplayName: redeemer.DisplayName,
			PhotoURL:    redeemer.PhotoURL,
			ChatID:      chatID,
			CreatedAt:   now,
			LastChatAt:  now,
			LastMessage: "Chat started",
		},
	}

	for _, edge := range edges {
		item, err := attributevalue.MarshalMap(edge)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal contact edge: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName: tableName(models.ContactsTable),
				Item:      item,
			},
		})
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrInviteRedeemed
		}
		return nil, err
	}

	invite.Status = models.StatusAccepted
	invite.AcceptedBy = redeemer.UID
	invite.AcceptedAt = now
	logger.Sugar.Infof("🎉 Invite %s redeemed by %s", inviteID, redeemer.UID)

	if err := s.Notifications.Create(ctx, invite.CreatedBy, models.NotificationInviteAccepted, redeemer, fmt.Sprintf("%s accepted your invite", redeemer.DisplayName)); err != nil {
		logger.Sugar.Warnf("⚠️ Failed to notify %s about invite: %v", invite.CreatedBy, err)
	}

	return invite, nil
}
