package repository

import (
	"errors"
	"testing"

	"evenza/internal/model"
	"evenza/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeParticipants(t *testing.T) {
	t.Run("Success - object entries", func(t *testing.T) {
		raw := []byte(`[{"email":"alice@example.com","uid":"uid-1"},{"email":"bob@example.com","uid":null}]`)

		participants := decodeParticipants(raw)

		require.Len(t, participants, 2)
		assert.Equal(t, model.Participant{Email: "alice@example.com", UID: "uid-1"}, participants[0])
		assert.Equal(t, model.Participant{Email: "bob@example.com"}, participants[1])
	})

	t.Run("Success - legacy bare string entries", func(t *testing.T) {
		raw := []byte(`["alice@example.com","bob@example.com"]`)

		participants := decodeParticipants(raw)

		require.Len(t, participants, 2)
		assert.Equal(t, "alice@example.com", participants[0].Email)
		assert.Empty(t, participants[0].UID)
	})

	t.Run("Success - mixed shapes deduped by email", func(t *testing.T) {
		raw := []byte(`["Alice@Example.com",{"email":"alice@example.com","uid":"uid-1"},{"email":"bob@example.com"}]`)

		participants := decodeParticipants(raw)

		// 先出現者優先,同一 email 不同形狀只留一筆
		require.Len(t, participants, 2)
		assert.Equal(t, "Alice@Example.com", participants[0].Email)
		assert.Equal(t, "bob@example.com", participants[1].Email)
	})

	t.Run("Success - empty and invalid payloads", func(t *testing.T) {
		assert.Nil(t, decodeParticipants(nil))
		assert.Nil(t, decodeParticipants([]byte(`not json`)))
		assert.Empty(t, decodeParticipants([]byte(`[]`)))
		assert.Empty(t, decodeParticipants([]byte(`["", {"email":""}]`)))
	})
}

func TestMapWriteError(t *testing.T) {
	t.Run("Success - authorization rejection mapped", func(t *testing.T) {
		err := mapWriteError(&pgconn.PgError{Code: "42501", Message: "permission denied for table events"})

		assert.ErrorIs(t, err, app_errors.ErrPermissionDenied)
	})

	t.Run("Success - other errors passed through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		assert.Equal(t, error(pgErr), mapWriteError(pgErr))

		plain := errors.New("connection refused")
		assert.Equal(t, plain, mapWriteError(plain))
	})
}

func TestNewParticipantDoc(t *testing.T) {
	t.Run("Success - uid omitted when empty", func(t *testing.T) {
		doc := newParticipantDoc(model.Participant{Email: "alice@example.com"})
		assert.Nil(t, doc.UID)

		doc = newParticipantDoc(model.Participant{Email: "alice@example.com", UID: "uid-1"})
		require.NotNil(t, doc.UID)
		assert.Equal(t, "uid-1", *doc.UID)
	})
}
