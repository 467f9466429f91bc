package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/cnpj-upload/internal/models"
)

var now = time.Date(2024, time.January, 5, 9, 3, 7, 0, time.UTC)

func validReport() models.ValidationReport {
	return models.ValidationReport{Valid: true, Errors: []models.LineError{}, Summary: models.Summary{ValidCount: 1, TotalLines: 1}}
}

func invalidReport() models.ValidationReport {
	return models.ValidationReport{
		Valid:   false,
		Errors:  []models.LineError{{Line: 1, Raw: "abc", Reason: "line 1"}},
		Summary: models.Summary{ValidCount: 0, TotalLines: 1},
	}
}

func TestSession_HappyPath(t *testing.T) {
	s := New("id-1", now)
	assert.Equal(t, StateAwaitingFile, s.State)
	assert.Equal(t, 1, s.Cycle)
	assert.True(t, s.AcceptsFile())

	require.NoError(t, s.Receive("cnpjs.txt", []byte("12345678901234"), now))
	assert.Equal(t, StateFileReceived, s.State)

	require.NoError(t, s.Validated(validReport(), now))
	assert.Equal(t, StateAwaitingConfirm, s.State)
	assert.NotEmpty(t, s.Payload)

	confirmation := &models.UploadConfirmation{ObjectPath: "EXTRACT/cnpjs.txt"}
	require.NoError(t, s.UploadSucceeded(confirmation, now))
	assert.Equal(t, StateUploaded, s.State)
	assert.True(t, s.Uploaded)
	assert.Nil(t, s.Payload)
	assert.Equal(t, confirmation, s.LastUpload)
	assert.False(t, s.AcceptsFile())

	require.NoError(t, s.Reset(now))
	assert.Equal(t, StateAwaitingFile, s.State)
	assert.False(t, s.Uploaded)
	assert.Equal(t, 2, s.Cycle)
	assert.Empty(t, s.FileName)
}

func TestSession_FailedValidationRequiresNewFile(t *testing.T) {
	s := New("id-1", now)
	require.NoError(t, s.Receive("bad.txt", []byte("abc"), now))
	require.NoError(t, s.Validated(invalidReport(), now))

	assert.Equal(t, StateValidatedFailed, s.State)
	assert.Nil(t, s.Payload)
	assert.False(t, s.CanTransition(StateUploaded))
	assert.True(t, s.AcceptsFile())

	require.NoError(t, s.Receive("good.txt", []byte("12345678901234"), now))
	assert.Equal(t, StateFileReceived, s.State)
	assert.Equal(t, "good.txt", s.FileName)
	assert.Nil(t, s.Report)
}

func TestSession_FailedUploadKeepsPayload(t *testing.T) {
	s := New("id-1", now)
	require.NoError(t, s.Receive("cnpjs.txt", []byte("12345678901234"), now))
	require.NoError(t, s.Validated(validReport(), now))

	s.UploadFailed(errors.New("network unreachable"), now)

	assert.Equal(t, StateAwaitingConfirm, s.State)
	assert.Equal(t, 1, s.Attempts)
	assert.Equal(t, "network unreachable", s.LastError)
	assert.Equal(t, []byte("12345678901234"), s.Payload)

	require.NoError(t, s.UploadSucceeded(&models.UploadConfirmation{}, now))
	assert.Equal(t, 2, s.Attempts)
	assert.Empty(t, s.LastError)
}

func TestSession_PendingFileCanBeReplaced(t *testing.T) {
	s := New("id-1", now)
	require.NoError(t, s.Receive("a.txt", []byte("12345678901234"), now))
	require.NoError(t, s.Validated(validReport(), now))

	require.NoError(t, s.Receive("b.txt", []byte("98765432109876"), now))
	assert.Equal(t, StateFileReceived, s.State)
	assert.Equal(t, "b.txt", s.FileName)
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := New("id-1", now)

	err := s.UploadSucceeded(&models.UploadConfirmation{}, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorContains(t, err, "AWAITING_FILE -> UPLOADED")

	err = s.Validated(validReport(), now)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, s.Receive("a.txt", []byte("12345678901234"), now))
	require.NoError(t, s.Validated(validReport(), now))
	require.NoError(t, s.UploadSucceeded(&models.UploadConfirmation{}, now))

	err = s.Receive("again.txt", []byte("12345678901234"), now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, s.Uploaded)
}

func TestSession_View(t *testing.T) {
	s := New("id-1", now)
	require.NoError(t, s.Receive("a.txt", []byte("12345678901234"), now))

	view := s.View()
	assert.Equal(t, "id-1", view.ID)
	assert.Equal(t, "FILE_RECEIVED", view.State)
	assert.Equal(t, "a.txt", view.FileName)
}

func newMemoryStore(ttl time.Duration) *RedisStore {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewRedisStore(nil, ttl, logger)
}

func TestRedisStore_MemoryFallback(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(time.Hour)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	s := New("id-1", now)
	require.NoError(t, s.Receive("a.txt", []byte("12345678901234\n"), now))
	require.NoError(t, store.Save(ctx, s))

	loaded, err := store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, StateFileReceived, loaded.State)
	assert.Equal(t, []byte("12345678901234\n"), loaded.Payload)

	// stored copies are independent of the caller's value
	s.FileName = "changed.txt"
	loaded, err = store.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", loaded.FileName)

	require.NoError(t, store.Delete(ctx, "id-1"))
	_, err = store.Get(ctx, "id-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(-time.Second)

	require.NoError(t, store.Save(ctx, New("old", now)))

	_, err := store.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, New("older", now)))
	store.cleanupExpired()
	assert.Equal(t, 0, store.Health()["memory_sessions"])
}

func TestRedisStore_HealthWithoutRedis(t *testing.T) {
	health := newMemoryStore(time.Hour).Health()

	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "memory", health["backend"])
}
