package chain

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/bnema/spo-contact-sync/internal/domain"
	portmocks "github.com/bnema/spo-contact-sync/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testKey = "csync/profiles/contoso/password"

func newTestChain(t *testing.T, logger *slog.Logger) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	pass := portmocks.NewMockSecretStore(t)
	file := portmocks.NewMockSecretStore(t)
	store, err := NewStore(logger,
		Backend{Name: "pass", Store: pass},
		Backend{Name: "file", Store: file},
	)
	require.NoError(t, err)

	return store, pass, file
}

func TestStoreGetUsesFirstBackendWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, pass, _ := newTestChain(t, nil)
	pass.EXPECT().Get(mock.Anything, testKey).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackAndLogsUnavailableBackend(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	store, pass, file := newTestChain(t, slog.New(slog.NewTextHandler(&logs, nil)))
	pass.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("gpg agent not running")).Once()
	file.EXPECT().Get(mock.Anything, testKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	assert.Contains(t, logs.String(), "secret backend unavailable")
	assert.Contains(t, logs.String(), "backend=pass")
}

func TestStoreGetSkipsMissingEntrySilently(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	store, pass, file := newTestChain(t, slog.New(slog.NewTextHandler(&logs, nil)))
	pass.EXPECT().Get(mock.Anything, testKey).Return("", domain.ErrSecretNotFound).Once()
	file.EXPECT().Get(mock.Anything, testKey).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	assert.Empty(t, logs.String())
}

func TestStoreGetNotFoundEverywhere(t *testing.T) {
	t.Parallel()

	store, pass, file := newTestChain(t, nil)
	pass.EXPECT().Get(mock.Anything, testKey).Return("", domain.ErrSecretNotFound).Once()
	file.EXPECT().Get(mock.Anything, testKey).Return("", domain.ErrSecretNotFound).Once()

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetCombinesBackendFailures(t *testing.T) {
	t.Parallel()

	store, pass, file := newTestChain(t, nil)
	pass.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("pass failed")).Once()
	file.EXPECT().Get(mock.Anything, testKey).Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass, file")
	assert.ErrorContains(t, err, "pass: pass failed")
	assert.ErrorContains(t, err, "file: file failed")
}

func TestStoreGetStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, pass, _ := newTestChain(t, nil)
	pass.EXPECT().Get(mock.Anything, testKey).Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStorePutFallsBackWhenFirstBackendFails(t *testing.T) {
	t.Parallel()

	store, pass, file := newTestChain(t, nil)
	pass.EXPECT().Put(mock.Anything, testKey, "secret").Return(errors.New("pass failed")).Once()
	file.EXPECT().Put(mock.Anything, testKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), testKey, "secret"))
}

func TestStorePutStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	store, pass, _ := newTestChain(t, nil)
	pass.EXPECT().Put(mock.Anything, testKey, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), testKey, "secret"))
}

func TestStorePutFailsWhenNoBackendAccepts(t *testing.T) {
	t.Parallel()

	store, pass, file := newTestChain(t, nil)
	pass.EXPECT().Put(mock.Anything, testKey, "secret").Return(errors.New("pass failed")).Once()
	file.EXPECT().Put(mock.Anything, testKey, "secret").Return(errors.New("disk full")).Once()

	err := store.Put(context.Background(), testKey, "secret")
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}

func TestStoreDeleteClearsEveryBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		passErr error
		fileErr error
		wantErr bool
	}{
		{name: "both succeed"},
		{name: "first fails", passErr: errors.New("pass failed")},
		{name: "second fails", fileErr: errors.New("read-only filesystem")},
		{name: "both fail", passErr: errors.New("pass failed"), fileErr: errors.New("read-only filesystem"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, pass, file := newTestChain(t, nil)
			pass.EXPECT().Delete(mock.Anything, testKey).Return(tt.passErr).Once()
			file.EXPECT().Delete(mock.Anything, testKey).Return(tt.fileErr).Once()

			err := store.Delete(context.Background(), testKey)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewStoreRejectsMissingBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil)
	require.Error(t, err)

	_, err = NewStore(nil, Backend{Name: "pass"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "\"pass\"")
}
