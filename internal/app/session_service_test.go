package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/repository"
)

func newSessionService(t *testing.T) (*SessionService, *memBlob, *repository.MessageRepository, *repository.FileRepository) {
	t.Helper()

	db := newTestDB(t)
	blobs := newMemBlob()
	sessions := repository.NewSessionRepository(db)
	messages := repository.NewMessageRepository(db)
	files := repository.NewFileRepository(db)

	service := NewSessionService(sessions, messages, files, blobs, nil, nil)
	return service, blobs, messages, files
}

func TestCreateSessionDefaultsTitle(t *testing.T) {
	service, _, _, _ := newSessionService(t)

	session, err := service.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "New Session", session.Title)
	assert.NotEmpty(t, session.ID)
	assert.Empty(t, session.FileIDList())
}

func TestCreateSessionRequiresUser(t *testing.T) {
	service, _, _, _ := newSessionService(t)

	_, err := service.Create(CreateSessionInput{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRenameSession(t *testing.T) {
	service, _, _, _ := newSessionService(t)

	session, err := service.Create(CreateSessionInput{UserID: "user-1", Title: "before"})
	require.NoError(t, err)

	renamed, err := service.Rename("user-1", session.ID, "after")
	require.NoError(t, err)
	assert.Equal(t, "after", renamed.Title)

	_, err = service.Rename("someone-else", session.ID, "hijack")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSessionCascades(t *testing.T) {
	service, blobs, messages, files := newSessionService(t)

	session, err := service.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	storedName := uuid.NewString() + ".txt"
	require.NoError(t, blobs.Write(storedName, []byte("doc content")))
	require.NoError(t, files.Create(&model.StoredFile{
		ID:         uuid.NewString(),
		UserID:     "user-1",
		SessionID:  session.ID,
		Filename:   "doc.txt",
		StoredName: storedName,
		FileType:   "txt",
		CreatedAt:  time.Now(),
	}))
	for _, role := range []string{model.RoleUser, model.RoleAssistant} {
		msg := &model.Message{
			ID:        uuid.NewString(),
			SessionID: session.ID,
			UserID:    "user-1",
			Role:      role,
			Content:   "text",
			CreatedAt: time.Now(),
		}
		msg.SetCitationList(nil)
		require.NoError(t, messages.Create(msg))
	}

	require.NoError(t, service.Delete(context.Background(), "user-1", session.ID))

	_, err = service.Get("user-1", session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	remainingMessages, err := messages.ListBySessionID(session.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, remainingMessages)

	remainingFiles, err := files.ListBySessionID(session.ID)
	require.NoError(t, err)
	assert.Empty(t, remainingFiles)

	_, err = blobs.Read(storedName)
	assert.Error(t, err, "blob is removed with the session")
}

func TestDeleteSessionUnowned(t *testing.T) {
	service, _, _, _ := newSessionService(t)

	session, err := service.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	err = service.Delete(context.Background(), "someone-else", session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
