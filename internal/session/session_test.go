package session

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	storage := NewFileStorage(path)

	c, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, c)

	require.NoError(t, storage.Save(Credentials{Token: "tok", Email: "a@b.com"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	c, err = storage.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok", Email: "a@b.com"}, c)

	require.NoError(t, storage.Clear())
	require.NoError(t, storage.Clear())

	c, err = storage.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, c)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStorage(path).Load()

	assert.Error(t, err)
}

func TestSession_Lifecycle(t *testing.T) {
	storage := NewMemoryStorage(Credentials{Token: "tok", Email: "a@b.com"})
	sess := New(storage)

	assert.False(t, sess.LoggedIn())

	require.NoError(t, sess.Init())
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, "a@b.com", sess.Email())

	require.NoError(t, sess.store("", "c@d.com"))
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, "c@d.com", sess.Email())

	saved, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok", Email: "c@d.com"}, saved)

	require.NoError(t, sess.Clear())
	assert.False(t, sess.LoggedIn())

	saved, err = storage.Load()
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, saved)
}

func TestSession_Headers(t *testing.T) {
	sess := New(NewMemoryStorage(Credentials{}))

	h := sess.Headers()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Empty(t, h.Get(EmailHeader))

	require.NoError(t, sess.store("tok", "a@b.com"))

	req, err := http.NewRequest(http.MethodGet, "http://localhost/vocab", nil)
	require.NoError(t, err)
	sess.Apply(req)

	assert.Equal(t, "a@b.com", req.Header.Get(EmailHeader))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("alice", "pw"))
	assert.ErrorIs(t, ValidateLogin("   ", "pw"), ErrMissingCredentials)
	assert.ErrorIs(t, ValidateLogin("alice", ""), ErrMissingCredentials)
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		confirm  string
		expected error
	}{
		{name: "valid", username: "bob", email: "bob@example.com", password: "pw", confirm: "pw"},
		{name: "no confirm", username: "bob", email: " bob@example.com ", password: "pw"},
		{name: "blank username", username: " ", email: "bob@example.com", password: "pw", expected: ErrInvalidSignup},
		{name: "bad email", username: "bob", email: "bob", password: "pw", expected: ErrInvalidSignup},
		{name: "no password", username: "bob", email: "bob@example.com", expected: ErrInvalidSignup},
		{name: "mismatch", username: "bob", email: "bob@example.com", password: "pw", confirm: "pw2", expected: ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.username, tt.email, tt.password, tt.confirm)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}
