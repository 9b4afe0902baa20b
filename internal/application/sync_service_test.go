package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
	"github.com/bnema/spo-contact-sync/internal/ports/mocks"
)

type fakeSession struct {
	closes atomic.Int32
}

func (s *fakeSession) Execute(context.Context, string) (domain.CommandResult, error) {
	return domain.CommandResult{Succeeded: true}, nil
}

func (s *fakeSession) Send(string) error {
	return nil
}

func (s *fakeSession) ReadAvailable() ([]string, error) {
	return []string{}, nil
}

func (s *fakeSession) Close() error {
	s.closes.Add(1)
	return nil
}

var credentials = domain.Credentials{Username: "admin@contoso.com", Password: "hunter2"}

func newSyncFixture(t *testing.T) (*SyncService, *fakeSession, *mocks.MockContactDirectory) {
	t.Helper()

	session := &fakeSession{}
	directory := mocks.NewMockContactDirectory(t)
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))

	service := NewSyncService(
		func(context.Context) (ports.Session, error) { return session, nil },
		func(runner ports.CommandRunner, profile domain.Profile) ports.ContactDirectory {
			assert.Same(t, session, runner)
			return directory
		},
		clock,
		nil,
	)

	return service, session, directory
}

func expectConnected(directory *mocks.MockContactDirectory) {
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemExchange, credentials).Return(nil)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemSharePoint, credentials).Return(nil)
	directory.EXPECT().Disconnect(mockAnyContext(), domain.SystemSharePoint).Return(nil)
	directory.EXPECT().Disconnect(mockAnyContext(), domain.SystemExchange).Return(nil)
}

func contacts(list ...domain.Contact) domain.ContactCollection {
	collection := domain.ContactCollection{}
	for _, contact := range list {
		collection[contact.Key] = contact
	}
	return collection
}

func TestSyncRunAppliesPlanAndCloses(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	expectConnected(directory)

	alice := domain.NewContact("a@x", "Alice", map[string]string{domain.FieldPhone: "1"})
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(contacts(alice), nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemExchange).Return(contacts(domain.NewContact("c@x", "Carol", nil)), nil)
	directory.EXPECT().ApplyRemove(mockAnyContext(), domain.SystemExchange, "c@x").Return(nil)
	directory.EXPECT().ApplyAdd(mockAnyContext(), domain.SystemExchange, alice).Return(nil)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.NoError(t, err)

	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFetching, StateDiffing, StateApplying, StateClosed}, result.States)
	assert.Equal(t, int32(1), session.closes.Load())
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 1, result.SourceCount)
	assert.Equal(t, 1, result.TargetCount)
	assert.Equal(t, 1, result.ProjectedCount)
	require.NotNil(t, result.Report)
	assert.Equal(t, domain.RunOutcomeSuccess, result.Summary.Outcome)
	assert.Equal(t, 1, result.Summary.Added)
	assert.Equal(t, 1, result.Summary.Removed)
	assert.Equal(t, result.RunID, result.Summary.RunID)
	assert.False(t, result.Failed())
}

func TestSyncRunDryRunSkipsApplying(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	expectConnected(directory)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(contacts(domain.NewContact("a@x", "Alice", nil)), nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemExchange).Return(domain.ContactCollection{}, nil)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{DryRun: true})
	require.NoError(t, err)

	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFetching, StateDiffing, StateClosed}, result.States)
	assert.Len(t, result.Plan.ToAdd, 1)
	assert.Nil(t, result.Report)
	assert.Equal(t, domain.RunOutcomeDryRun, result.Summary.Outcome)
	assert.Equal(t, int32(1), session.closes.Load())
	directory.AssertNotCalled(t, "ApplyAdd", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncRunPartialFailureIsReportedNotReturned(t *testing.T) {
	t.Parallel()

	service, _, directory := newSyncFixture(t)
	expectConnected(directory)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(contacts(
		domain.NewContact("a@x", "Alice", nil),
		domain.NewContact("b@x", "Bob", nil),
	), nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemExchange).Return(domain.ContactCollection{}, nil)
	directory.EXPECT().ApplyAdd(mockAnyContext(), domain.SystemExchange, mock.MatchedBy(func(c domain.Contact) bool { return c.Key == "a@x" })).
		Return(errors.New("already exists"))
	directory.EXPECT().ApplyAdd(mockAnyContext(), domain.SystemExchange, mock.MatchedBy(func(c domain.Contact) bool { return c.Key == "b@x" })).
		Return(nil)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.RunOutcomePartial, result.Summary.Outcome)
	assert.Equal(t, 1, result.Summary.Added)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, StateClosed, result.FinalState())
}

func TestSyncRunParseErrorFailsAndStillCloses(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	expectConnected(directory)
	parseErr := &domain.ParseError{System: domain.SystemSharePoint, Line: 4, Reason: "record has no email address"}
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(nil, parseErr)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.ErrorIs(t, err, domain.ErrParse)

	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFetching, StateFailed, StateClosed}, result.States)
	assert.Equal(t, int32(1), session.closes.Load())
	assert.Equal(t, domain.RunOutcomeFailed, result.Summary.Outcome)
	assert.Contains(t, result.Summary.Error, "record has no email address")
	assert.True(t, result.Failed())
}

func TestSyncRunChannelErrorWhileApplyingFails(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	expectConnected(directory)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(domain.ContactCollection{}, nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemExchange).Return(contacts(
		domain.NewContact("c@x", "Carol", nil),
		domain.NewContact("d@x", "Dave", nil),
	), nil)
	directory.EXPECT().ApplyRemove(mockAnyContext(), domain.SystemExchange, "c@x").Return(domain.ErrChannelClosed)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.ErrorIs(t, err, domain.ErrChannelClosed)

	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFetching, StateDiffing, StateApplying, StateFailed, StateClosed}, result.States)
	require.NotNil(t, result.Report)
	assert.True(t, result.Report.Aborted)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.Equal(t, int32(1), session.closes.Load())
}

func TestSyncRunAuthenticationFailureSkipsDisconnect(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemExchange, credentials).Return(domain.ErrCommandFailed)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFailed, StateClosed}, result.States)
	assert.Equal(t, int32(1), session.closes.Load())
	directory.AssertNotCalled(t, "Disconnect", mock.Anything, mock.Anything)
}

func TestSyncRunSharePointAuthenticationFailureDisconnectsExchange(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemExchange, credentials).Return(nil)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemSharePoint, credentials).Return(domain.ErrCommandFailed)
	directory.EXPECT().Disconnect(mockAnyContext(), domain.SystemExchange).Return(nil).Once()

	_, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.Equal(t, int32(1), session.closes.Load())
	directory.AssertNotCalled(t, "Disconnect", mock.Anything, domain.SystemSharePoint)
}

func TestSyncRunTeardownDisconnectsBothSystemsInReverseOrder(t *testing.T) {
	t.Parallel()

	service, session, directory := newSyncFixture(t)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemExchange, credentials).Return(nil)
	directory.EXPECT().Connect(mockAnyContext(), domain.SystemSharePoint, credentials).Return(nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemSharePoint).Return(domain.ContactCollection{}, nil)
	directory.EXPECT().FetchContacts(mockAnyContext(), domain.SystemExchange).Return(domain.ContactCollection{}, nil)

	sharePoint := directory.EXPECT().Disconnect(mockAnyContext(), domain.SystemSharePoint).
		Return(errors.New("variable still in use")).Once()
	exchange := directory.EXPECT().Disconnect(mockAnyContext(), domain.SystemExchange).Return(nil).Once()
	mock.InOrder(sharePoint.Call, exchange.Call)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, domain.RunOutcomeSuccess, result.Summary.Outcome)
	assert.Equal(t, int32(1), session.closes.Load())
}

func TestSyncRunOpenFailure(t *testing.T) {
	t.Parallel()

	openErr := errors.New("pwsh: executable file not found")
	service := NewSyncService(
		func(context.Context) (ports.Session, error) { return nil, openErr },
		func(ports.CommandRunner, domain.Profile) ports.ContactDirectory {
			t.Fatal("directory must not be built without a session")
			return nil
		},
		nil,
		nil,
	)

	result, err := service.Run(context.Background(), storedProfile(), credentials, SyncOptions{})
	require.ErrorIs(t, err, openErr)
	assert.Equal(t, []SyncState{StateIdle, StateAuthenticating, StateFailed, StateClosed}, result.States)
	assert.Equal(t, domain.RunOutcomeFailed, result.Summary.Outcome)
}
