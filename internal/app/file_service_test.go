package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StutiiiG/readai/internal/repository"
)

func newFileFixture(t *testing.T) (*FileService, *SessionService, *memBlob, *repository.FileRepository, *repository.SessionRepository) {
	t.Helper()

	db := newTestDB(t)
	blobs := newMemBlob()
	sessions := repository.NewSessionRepository(db)
	messages := repository.NewMessageRepository(db)
	files := repository.NewFileRepository(db)

	fileService := NewFileService(sessions, files, blobs, nil)
	sessionService := NewSessionService(sessions, messages, files, blobs, nil, nil)
	return fileService, sessionService, blobs, files, sessions
}

func TestUploadStoresBlobMetadataAndSessionEntry(t *testing.T) {
	fileService, sessionService, blobs, _, sessions := newFileFixture(t)

	session, err := sessionService.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	file, err := fileService.Upload(UploadInput{
		UserID:    "user-1",
		SessionID: session.ID,
		Filename:  "Paper Final.PDF",
		Data:      []byte("%PDF-1.4 fake"),
	})
	require.NoError(t, err)

	assert.Equal(t, "pdf", file.FileType, "declared type is the lowercase extension")
	assert.Equal(t, file.ID+".pdf", file.StoredName)
	assert.Equal(t, int64(len("%PDF-1.4 fake")), file.FileSize)

	stored, err := blobs.Read(file.StoredName)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), stored)

	updated, err := sessions.GetByIDAndUserID(session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{file.ID}, updated.FileIDList())
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	fileService, sessionService, _, _, _ := newFileFixture(t)

	session, err := sessionService.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	for _, name := range []string{"malware.exe", "archive.zip", "noextension", "trailingdot."} {
		_, err := fileService.Upload(UploadInput{
			UserID:    "user-1",
			SessionID: session.ID,
			Filename:  name,
			Data:      []byte("data"),
		})
		assert.ErrorIs(t, err, ErrFileTypeNotAllowed, name)
	}
}

func TestUploadRequiresOwnedSession(t *testing.T) {
	fileService, sessionService, _, _, _ := newFileFixture(t)

	session, err := sessionService.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	_, err = fileService.Upload(UploadInput{
		UserID:    "someone-else",
		SessionID: session.ID,
		Filename:  "doc.txt",
		Data:      []byte("data"),
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteFileRemovesBlobAndPrunesSessionList(t *testing.T) {
	fileService, sessionService, blobs, files, sessions := newFileFixture(t)

	session, err := sessionService.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	first, err := fileService.Upload(UploadInput{
		UserID: "user-1", SessionID: session.ID, Filename: "a.txt", Data: []byte("a"),
	})
	require.NoError(t, err)
	second, err := fileService.Upload(UploadInput{
		UserID: "user-1", SessionID: session.ID, Filename: "b.txt", Data: []byte("b"),
	})
	require.NoError(t, err)

	require.NoError(t, fileService.Delete("user-1", first.ID))

	_, err = blobs.Read(first.StoredName)
	assert.Error(t, err)

	remaining, err := files.ListBySessionID(session.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, second.ID, remaining[0].ID)

	updated, err := sessions.GetByIDAndUserID(session.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, updated.FileIDList())
}

func TestDeleteFileUnknownOrUnowned(t *testing.T) {
	fileService, sessionService, _, _, _ := newFileFixture(t)

	session, err := sessionService.Create(CreateSessionInput{UserID: "user-1"})
	require.NoError(t, err)

	file, err := fileService.Upload(UploadInput{
		UserID: "user-1", SessionID: session.ID, Filename: "a.txt", Data: []byte("a"),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, fileService.Delete("user-1", "no-such-file"), ErrFileNotFound)
	assert.ErrorIs(t, fileService.Delete("someone-else", file.ID), ErrFileNotFound)
}
