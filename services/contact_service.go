package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bumblechat_server/logger"
	"bumblechat_server/models"
	"bumblechat_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var (
	ErrSelfRequest       = errors.New("you cannot add yourself")
	ErrAlreadyContacts   = errors.New("already in your contacts")
	ErrRequestExists     = errors.New("a request between these users already exists")
	ErrRequestNotFound   = errors.New("contact request not found")
	ErrRequestNotPending = errors.New("contact request is no longer pending")
	ErrNotRecipient      = errors.New("only the recipient can respond to a request")
	ErrInvalidStatus     = errors.New("status must be accepted or rejected")
)

// ContactService owns the contact-request lifecycle and the contact list.
type ContactService struct {
	Dynamo        DynamoAPI
	Users         *UserService
	Notifications *NotificationService
}

// SendRequest resolves the target by email or username and writes a pending
// request. The pre-reads give friendly errors; the conditional put is what
// actually prevents a duplicate slipping through a race.
func (s *ContactService) SendRequest(ctx context.Context, from *models.User, target string) (*models.ContactRequest, error) {
	var to *models.User
	var err error
	if strings.Contains(target, "@") {
		to, err = s.Users.LookupByEmail(ctx, target)
	} else {
		to, err = s.Users.LookupByUsername(ctx, target)
	}
	if err != nil {
		return nil, err
	}

	if to.UID == from.UID {
		return nil, ErrSelfRequest
	}

	connected, err := s.AreContacts(ctx, from.UID, to.UID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, ErrAlreadyContacts
	}

	// a live request in the opposite direction also blocks a new one
	reverse, err := s.getRequest(ctx, models.ContactRequestID(to.UID, from.UID))
	switch {
	case err == nil:
		if reverse.Status == models.StatusPending || reverse.Status == models.StatusAccepted {
			return nil, ErrRequestExists
		}
	case !errors.Is(err, ErrRequestNotFound):
		return nil, fmt.Errorf("failed to check reverse request: %w", err)
	}

	request := models.ContactRequest{
		RequestID: models.ContactRequestID(from.UID, to.UID),
		FromUID:   from.UID,
		ToUID:     to.UID,
		Status:    models.StatusPending,
		SenderInfo: &models.UserSnapshot{
			UID:         from.UID,
			DisplayName: from.DisplayName,
			PhotoURL:    from.PhotoURL,
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	// a fresh pair gets a new document; a rejected one is overwritten back to
	// pending, so a rejection never blocks a later re-send
	condition := "attribute_not_exists(requestId) OR #s = :rejected"
	err = s.Dynamo.PutItemWithCondition(ctx, models.ContactRequestsTable, request, condition,
		map[string]types.AttributeValue{
			":rejected": &types.AttributeValueMemberS{Value: models.StatusRejected},
		},
		map[string]string{"#s": "status"})
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrRequestExists
		}
		return nil, fmt.Errorf("failed to save contact request: %w", err)
	}

	logger.Sugar.Infof("✅ Contact request saved: %s -> %s", from.UID, to.UID)

	if err := s.Notifications.Create(ctx, to.UID, models.NotificationContactRequest, from, fmt.Sprintf("%s wants to connect with you", from.DisplayName)); err != nil {
		logger.Sugar.Warnf("⚠️ Failed to notify %s about request: %v", to.UID, err)
	}

	return &request, nil
}

// ListIncoming returns the caller's pending incoming requests.
func (s *ContactService) ListIncoming(ctx context.Context, uid string) ([]models.ContactRequest, error) {
	keyCondition := "toUid = :toUid"
	expressionValues := map[string]types.AttributeValue{
		":toUid": &types.AttributeValueMemberS{Value: uid},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ContactRequestsTable, models.ToUIDIndex, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming requests: %w", err)
	}

	var requests []models.ContactRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}

	pending := requests[:0]
	for _, r := range requests {
		if r.Status == models.StatusPending {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// ListSent returns every request the caller has sent, any status.
func (s *ContactService) ListSent(ctx context.Context, uid string) ([]models.ContactRequest, error) {
	keyCondition := "fromUid = :fromUid"
	expressionValues := map[string]types.AttributeValue{
		":fromUid": &types.AttributeValueMemberS{Value: uid},
	}

	items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.ContactRequestsTable, models.FromUIDIndex, keyCondition, expressionValues, nil, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent requests: %w", err)
	}

	var requests []models.ContactRequest
	if err := attributevalue.UnmarshalListOfMaps(items, &requests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal requests: %w", err)
	}
	return requests, nil
}

// Respond accepts or rejects a pending request. Accepting flips the status and
// writes both contact edges in one transaction, so a half-created friendship
// cannot exist. The status condition makes terminal states final.
func (s *ContactService) Respond(ctx context.Context, requestID, responderUID, status string) (*models.ContactRequest, error) {
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, ErrInvalidStatus
	}

	request, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ToUID != responderUID {
		return nil, ErrNotRecipient
	}
	if request.Status != models.StatusPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now().UTC().Format(time.RFC3339)

	statusUpdate := types.TransactWriteItem{
		Update: &types.Update{
			TableName: tableName(models.ContactRequestsTable),
			Key:       utils.StringKey("requestId", requestID),
			UpdateExpression:    strPtr("SET #s = :status, updatedAt = :updatedAt"),
			ConditionExpression: strPtr("#s = :pending"),
			ExpressionAttributeNames: map[string]string{
				"#s": "status",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":status":    &types.AttributeValueMemberS{Value: status},
				":updatedAt": &types.AttributeValueMemberS{Value: now},
				":pending":   &types.AttributeValueMemberS{Value: models.StatusPending},
			},
		},
	}

	items := []types.TransactWriteItem{statusUpdate}

	if status == models.StatusAccepted {
		recipient, err := s.Users.GetUser(ctx, responderUID)
		if err != nil {
			return nil, err
		}

		sender := models.UserSnapshot{UID: request.FromUID}
		if request.SenderInfo != nil {
			sender = *request.SenderInfo
		}

		chatID := models.ChatID(request.FromUID, request.ToUID)
		edges := []models.Contact{
			{
				UserID:      request.ToUID,
				ContactID:   request.FromUID,
				DisplayName: sender.DisplayName,
				PhotoURL:    sender.PhotoURL,
				ChatID:      chatID,
				CreatedAt:   now,
			},
			{
				UserID:      request.FromUID,
				ContactID:   request.ToUID,
				DisplayName: recipient.DisplayName,
				PhotoURL:    recipient.PhotoURL,
				ChatID:      chatID,
				CreatedAt:   now,
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
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, ErrRequestNotPending
		}
		return nil, err
	}

	request.Status = status
	request.UpdatedAt = now
	logger.Sugar.Infof("✅ Contact request %s: %s", status, requestID)

	if status == models.StatusAccepted {
		recipient, err := s.Users.GetUser(ctx, responderUID)
		if err == nil {
			if err := s.Notifications.Create(ctx, request.FromUID, models.NotificationRequestAccepted, recipient, fmt.Sprintf("%s accepted your contact request", recipient.DisplayName)); err != nil {
				logger.Sugar.Warnf("⚠️ Failed to notify %s about acceptance: %v", request.FromUID, err)
			}
		}
	}

	return request, nil
}

// ListContacts returns the caller's edges joined against the Users table,
// newest conversation first. Edges whose user document vanished are dropped.
func (s *ContactService) ListContacts(ctx context.Context, uid string) ([]models.ContactWithUser, error) {
	keyCondition := "userId = :userId"
	expressionValues := map[string]types.AttributeValue{
		":userId": &types.AttributeValueMemberS{Value: uid},
	}

	items, err := s.Dynamo.QueryItems(ctx, models.ContactsTable, keyCondition, expressionValues, nil, 200)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	var edges []models.Contact
	if err := attributevalue.UnmarshalListOfMaps(items, &edges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contacts: %w", err)
	}

	contacts := make([]models.ContactWithUser, 0, len(edges))
	for _, edge := range edges {
		user, err := s.Users.GetUser(ctx, edge.ContactID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		contacts = append(contacts, models.ContactWithUser{Contact: edge, UserInfo: user})
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].LastChatAt > contacts[j].LastChatAt
	})

	return contacts, nil
}

// AreContacts reports whether the a→b edge exists.
func (s *ContactService) AreContacts(ctx context.Context, a, b string) (bool, error) {
	key := utils.CompositeKey("userId", a, "contactId", b)
	_, err := s.Dynamo.GetItem(ctx, models.ContactsTable, key)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveContact deletes both directions of the edge in one transaction.
func (s *ContactService) RemoveContact(ctx context.Context, uid, contactID string) error {
	items := []types.TransactWriteItem{
		{
			Delete: &types.Delete{
				TableName: tableName(models.ContactsTable),
				Key:       utils.CompositeKey("userId", uid, "contactId", contactID),
			},
		},
		{
			Delete: &types.Delete{
				TableName: tableName(models.ContactsTable),
				Key:       utils.CompositeKey("userId", contactID, "contactId", uid),
			},
		},
	}

	if err := s.Dynamo.TransactWriteItems(ctx, items); err != nil {
		return fmt.Errorf("failed to remove contact: %w", err)
	}
	logger.Sugar.Infof("🗑️ Contact removed: %s x %s", uid, contactID)
	return nil
}

func (s *ContactService) getRequest(ctx context.Context, requestID string) (*models.ContactRequest, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ContactRequestsTable, utils.StringKey("requestId", requestID))
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	var request models.ContactRequest
	if err := attributevalue.UnmarshalMap(item, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return &request, nil
}

func tableName(name string) *string { return &name }

func strPtr(s string) *string { return &s }
