package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "csync/profiles/contoso/password"

func scripted(stdout, stderr string, err error, calls *[]invocation) runFunc {
	return func(ctx context.Context, inv invocation) (string, string, error) {
		if calls != nil {
			*calls = append(*calls, inv)
		}
		return stdout, stderr, err
	}
}

func TestStorePutInsertsMultilineEntry(t *testing.T) {
	t.Parallel()

	var calls []invocation
	store := NewStore()
	store.run = scripted("", "", nil, &calls)

	require.NoError(t, store.Put(context.Background(), testKey, "hunter2"))
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"insert", "--multiline", "--force", testKey}, calls[0].args)
	assert.Equal(t, "hunter2\n", calls[0].stdin)
	assert.Empty(t, calls[0].env)
}

func TestStorePutRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.run = func(ctx context.Context, inv invocation) (string, string, error) {
		t.Fatal("pass must not run for an empty password")
		return "", "", nil
	}

	err := store.Put(context.Background(), testKey, "")
	require.ErrorIs(t, err, errEmptySecret)
}

func TestStoreWithStoreDirSetsEnvironment(t *testing.T) {
	t.Parallel()

	var calls []invocation
	store := NewStore(WithStoreDir(" /srv/csync/password-store "))
	store.run = scripted("hunter2\n", "", nil, &calls)

	_, err := store.Get(context.Background(), testKey)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"PASSWORD_STORE_DIR=/srv/csync/password-store"}, calls[0].env)
}

func TestStoreGetReturnsFirstLineOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stdout  string
		want    string
		wantErr error
	}{
		{name: "single line", stdout: "hunter2\n", want: "hunter2"},
		{name: "crlf", stdout: "hunter2\r\n", want: "hunter2"},
		{name: "metadata lines", stdout: "hunter2\nuser: admin@contoso.com\nurl: https://outlook.office.com\n", want: "hunter2"},
		{name: "blank first line", stdout: "\nuser: admin@contoso.com\n", wantErr: errEmptySecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []invocation
			store := NewStore()
			store.run = scripted(tt.stdout, "", nil, &calls)

			value, err := store.Get(context.Background(), testKey)
			require.Len(t, calls, 1)
			assert.Equal(t, []string{"show", testKey}, calls[0].args)
			assert.Empty(t, calls[0].stdin)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, value)
		})
	}
}

func TestStoreGetMapsMissingEntryToNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.run = scripted("", "Error: "+testKey+" is not in the password store.", errors.New("exit status 1"), nil)

	_, err := store.Get(context.Background(), testKey)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	var calls []invocation
	store := NewStore()
	store.run = scripted("", "Error: "+testKey+" is not in the password store.", errors.New("exit status 1"), &calls)

	require.NoError(t, store.Delete(context.Background(), testKey))
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"rm", "--force", testKey}, calls[0].args)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.run = scripted("", "gpg: decryption failed: No secret key", errors.New("exit status 2"), nil)

	_, err := store.Get(context.Background(), testKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, testKey)
	assert.ErrorContains(t, err, "decryption failed")
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.run = func(ctx context.Context, inv invocation) (string, string, error) {
		t.Fatal("pass must not run with a canceled context")
		return "", "", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Get(ctx, testKey)
	require.ErrorIs(t, err, context.Canceled)
}
