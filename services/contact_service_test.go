package services

import (
	"context"
	"testing"

	"bumblechat_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContactService(fake *fakeDynamo) *ContactService {
	users := &UserService{Dynamo: fake}
	return &ContactService{
		Dynamo:        fake,
		Users:         users,
		Notifications: &NotificationService{Dynamo: fake},
	}
}

func alice() *models.User {
	return &models.User{UID: "uid-alice", Email: "alice@example.com", DisplayName: "Alice", Username: "alice"}
}

func bob() *models.User {
	return &models.User{UID: "uid-bob", Email: "bob@example.com", DisplayName: "Bob", Username: "bob"}
}

// directoryOf makes the username/email GSI lookups resolve the given users.
func directoryOf(t *testing.T, users ...*models.User) func(table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return func(table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
		var want string
		for _, v := range values {
			if s, ok := v.(*types.AttributeValueMemberS); ok {
				want = s.Value
			}
		}
		for _, u := range users {
			if u.Email == want || u.Username == want {
				return []map[string]types.AttributeValue{mustMarshal(t, u)}, nil
			}
		}
		return nil, nil
	}
}

func TestSendRequestCreatesPendingRequest(t *testing.T) {
	fake := &fakeDynamo{queryIndexFn: directoryOf(t, bob())}
	svc := newContactService(fake)

	request, err := svc.SendRequest(context.Background(), alice(), "bob@example.com")
	require.NoError(t, err)

	assert.Equal(t, "uid-alice_uid-bob", request.RequestID)
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, "uid-alice", request.FromUID)
	assert.Equal(t, "uid-bob", request.ToUID)
	require.NotNil(t, request.SenderInfo)
	assert.Equal(t, "Alice", request.SenderInfo.DisplayName)

	// conditional put of the request, then the recipient's notification
	require.Len(t, fake.puts, 2)
	assert.Equal(t, models.ContactRequestsTable, fake.puts[0].Table)
	assert.Equal(t, "attribute_not_exists(requestId) OR #s = :rejected", fake.puts[0].Condition)
	assert.Equal(t, models.NotificationsTable, fake.puts[1].Table)
}

// requestStore scripts the conditional put the way the store evaluates it:
// no existing document passes, an existing one passes only through the
// rejected escape hatch.
func requestStore(existing *models.ContactRequest) func(table string, item interface{}, condition string, values map[string]types.AttributeValue, names map[string]string) error {
	return func(table string, item interface{}, condition string, values map[string]types.AttributeValue, names map[string]string) error {
		if existing == nil {
			return nil
		}
		admitted, ok := values[":rejected"]
		if !ok || names["#s"] != "status" {
			return ErrConditionFailed
		}
		if s, ok := admitted.(*types.AttributeValueMemberS); ok && existing.Status == s.Value {
			return nil
		}
		return ErrConditionFailed
	}
}

func TestSendRequestAfterRejectionCreatesFreshPending(t *testing.T) {
	rejected := pendingRequest()
	rejected.Status = models.StatusRejected
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		putCondFn:    requestStore(&rejected),
	}
	svc := newContactService(fake)

	request, err := svc.SendRequest(context.Background(), alice(), "bob")
	require.NoError(t, err, "a rejection must not block a later re-send")
	assert.Equal(t, models.StatusPending, request.Status)
	assert.Equal(t, "uid-alice_uid-bob", request.RequestID)
}

func TestSendRequestPendingStillBlockedAtStore(t *testing.T) {
	pending := pendingRequest()
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		putCondFn:    requestStore(&pending),
	}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "bob")
	assert.ErrorIs(t, err, ErrRequestExists)
}

func TestSendRequestReverseCheckFailurePropagates(t *testing.T) {
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			if table == models.ContactRequestsTable {
				return nil, assert.AnError
			}
			return nil, ErrItemNotFound
		},
	}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "bob")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRequestExists, "a store outage is not a duplicate")
	assert.Empty(t, fake.puts)
}

func TestSendRequestResolvesByUsername(t *testing.T) {
	fake := &fakeDynamo{queryIndexFn: directoryOf(t, bob())}
	svc := newContactService(fake)

	request, err := svc.SendRequest(context.Background(), alice(), "bob")
	require.NoError(t, err)
	assert.Equal(t, "uid-bob", request.ToUID)
}

func TestSendRequestRejectsSelf(t *testing.T) {
	fake := &fakeDynamo{queryIndexFn: directoryOf(t, alice())}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "alice@example.com")
	assert.ErrorIs(t, err, ErrSelfRequest)
	assert.Empty(t, fake.puts, "a self request must fail before any write")
}

func TestSendRequestUnknownTarget(t *testing.T) {
	fake := &fakeDynamo{}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSendRequestRejectsExistingContact(t *testing.T) {
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			if table == models.ContactsTable {
				return mustMarshal(t, models.Contact{UserID: "uid-alice", ContactID: "uid-bob"}), nil
			}
			return nil, ErrItemNotFound
		},
	}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "bob")
	assert.ErrorIs(t, err, ErrAlreadyContacts)
	assert.Empty(t, fake.puts)
}

func TestSendRequestRejectsPendingReverseRequest(t *testing.T) {
	reverse := models.ContactRequest{
		RequestID: models.ContactRequestID("uid-bob", "uid-alice"),
		FromUID:   "uid-bob",
		ToUID:     "uid-alice",
		Status:    models.StatusPending,
	}
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			if table == models.ContactRequestsTable {
				return mustMarshal(t, reverse), nil
			}
			return nil, ErrItemNotFound
		},
	}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "bob")
	assert.ErrorIs(t, err, ErrRequestExists)
}

func TestSendRequestDuplicateLosesConditionalPut(t *testing.T) {
	fake := &fakeDynamo{
		queryIndexFn: directoryOf(t, bob()),
		putCondFn: func(table string, item interface{}, condition string, values map[string]types.AttributeValue, names map[string]string) error {
			return ErrConditionFailed
		},
	}
	svc := newContactService(fake)

	_, err := svc.SendRequest(context.Background(), alice(), "bob")
	assert.ErrorIs(t, err, ErrRequestExists)
}

func pendingRequest() models.ContactRequest {
	return models.ContactRequest{
		RequestID: models.ContactRequestID("uid-alice", "uid-bob"),
		FromUID:   "uid-alice",
		ToUID:     "uid-bob",
		Status:    models.StatusPending,
		SenderInfo: &models.UserSnapshot{
			UID:         "uid-alice",
			DisplayName: "Alice",
		},
	}
}

// respondFake resolves the request document and the responder's user document.
func respondFake(t *testing.T, request models.ContactRequest) *fakeDynamo {
	return &fakeDynamo{
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			switch table {
			case models.ContactRequestsTable:
				return mustMarshal(t, request), nil
			case models.UsersTable:
				return mustMarshal(t, bob()), nil
			}
			return nil, ErrItemNotFound
		},
	}
}

func TestRespondAcceptWritesStatusAndBothEdgesAtomically(t *testing.T) {
	fake := respondFake(t, pendingRequest())
	svc := newContactService(fake)

	request, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-bob", models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, request.Status)

	require.Len(t, fake.transacts, 1)
	items := fake.transacts[0]
	require.Len(t, items, 3, "status flip plus both contact edges in one transaction")

	require.NotNil(t, items[0].Update)
	assert.Equal(t, models.ContactRequestsTable, *items[0].Update.TableName)
	require.NotNil(t, items[0].Update.ConditionExpression)

	for _, item := range items[1:] {
		require.NotNil(t, item.Put)
		assert.Equal(t, models.ContactsTable, *item.Put.TableName)
	}

	// the sender gets an acceptance notification
	require.Len(t, fake.puts, 1)
	assert.Equal(t, models.NotificationsTable, fake.puts[0].Table)
}

func TestRespondRejectWritesNoEdges(t *testing.T) {
	fake := respondFake(t, pendingRequest())
	svc := newContactService(fake)

	request, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-bob", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, request.Status)

	require.Len(t, fake.transacts, 1)
	assert.Len(t, fake.transacts[0], 1, "a rejection only flips the status")
	assert.Empty(t, fake.puts, "no notification on rejection")
}

func TestRespondOnlyRecipientMayAnswer(t *testing.T) {
	fake := respondFake(t, pendingRequest())
	svc := newContactService(fake)

	_, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-alice", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrNotRecipient)
	assert.Empty(t, fake.transacts)
}

func TestRespondRejectsInvalidStatus(t *testing.T) {
	fake := respondFake(t, pendingRequest())
	svc := newContactService(fake)

	_, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-bob", "maybe")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRespondTerminalRequestStaysTerminal(t *testing.T) {
	answered := pendingRequest()
	answered.Status = models.StatusAccepted
	fake := respondFake(t, answered)
	svc := newContactService(fake)

	_, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-bob", models.StatusRejected)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.Empty(t, fake.transacts)
}

func TestRespondLosesRaceToConcurrentResponder(t *testing.T) {
	fake := respondFake(t, pendingRequest())
	fake.transactFn = func(items []types.TransactWriteItem) error {
		return ErrConditionFailed
	}
	svc := newContactService(fake)

	_, err := svc.Respond(context.Background(), "uid-alice_uid-bob", "uid-bob", models.StatusAccepted)
	assert.ErrorIs(t, err, ErrRequestNotPending)
}

func TestListIncomingFiltersPending(t *testing.T) {
	fake := &fakeDynamo{
		queryIndexFn: func(table, index, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
			assert.Equal(t, models.ToUIDIndex, index)
			return []map[string]types.AttributeValue{
				mustMarshal(t, models.ContactRequest{RequestID: "a_c", Status: models.StatusPending}),
				mustMarshal(t, models.ContactRequest{RequestID: "b_c", Status: models.StatusRejected}),
				mustMarshal(t, models.ContactRequest{RequestID: "d_c", Status: models.StatusPending}),
			}, nil
		},
	}
	svc := newContactService(fake)

	requests, err := svc.ListIncoming(context.Background(), "uid-c")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	for _, r := range requests {
		assert.Equal(t, models.StatusPending, r.Status)
	}
}

func TestListContactsDropsVanishedUsers(t *testing.T) {
	fake := &fakeDynamo{
		queryFn: func(table, keyCondition string, values map[string]types.AttributeValue, names map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
			return []map[string]types.AttributeValue{
				mustMarshal(t, models.Contact{UserID: "uid-alice", ContactID: "uid-bob", LastChatAt: "2025-06-02T00:00:00Z"}),
				mustMarshal(t, models.Contact{UserID: "uid-alice", ContactID: "uid-gone", LastChatAt: "2025-06-03T00:00:00Z"}),
			}, nil
		},
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			if v, ok := key["uid"].(*types.AttributeValueMemberS); ok && v.Value == "uid-bob" {
				return mustMarshal(t, bob()), nil
			}
			return nil, ErrItemNotFound
		},
	}
	svc := newContactService(fake)

	contacts, err := svc.ListContacts(context.Background(), "uid-alice")
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "uid-bob", contacts[0].ContactID)
	require.NotNil(t, contacts[0].UserInfo)
}

func TestRemoveContactDeletesBothEdgesAtomically(t *testing.T) {
	fake := &fakeDynamo{}
	svc := newContactService(fake)

	err := svc.RemoveContact(context.Background(), "uid-alice", "uid-bob")
	require.NoError(t, err)

	require.Len(t, fake.transacts, 1)
	items := fake.transacts[0]
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotNil(t, item.Delete)
		assert.Equal(t, models.ContactsTable, *item.Delete.TableName)
	}
}

func TestAreContacts(t *testing.T) {
	fake := &fakeDynamo{
		getFn: func(table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
			if v, ok := key["contactId"].(*types.AttributeValueMemberS); ok && v.Value == "uid-bob" {
				return mustMarshal(t, models.Contact{UserID: "uid-alice", ContactID: "uid-bob"}), nil
			}
			return nil, ErrItemNotFound
		},
	}
	svc := newContactService(fake)

	connected, err := svc.AreContacts(context.Background(), "uid-alice", "uid-bob")
	require.NoError(t, err)
	assert.True(t, connected)

	connected, err = svc.AreContacts(context.Background(), "uid-alice", "uid-carol")
	require.NoError(t, err)
	assert.False(t, connected)
}
