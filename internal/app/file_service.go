package app

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/platform/blob"
	"github.com/StutiiiG/readai/internal/repository"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileTypeNotAllowed = errors.New("file type not supported")
)

type FileService struct {
	sessionRepo *repository.SessionRepository
	fileRepo    *repository.FileRepository
	blobs       blob.Store
	logger      *zap.Logger
}

type UploadInput struct {
	UserID    string
	SessionID string
	Filename  string
	Data      []byte
}

func NewFileService(
	sessionRepo *repository.SessionRepository,
	fileRepo *repository.FileRepository,
	blobs blob.Store,
	logger *zap.Logger,
) *FileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileService{
		sessionRepo: sessionRepo,
		fileRepo:    fileRepo,
		blobs:       blobs,
		logger:      logger,
	}
}

// Upload writes the blob, then the metadata row, then appends the file id to
// the session's list. The blob is deleted again if the metadata insert
// fails; a failed list append is logged but not fatal, since the metadata
// table is the source of truth for file listing.
func (s *FileService) Upload(input UploadInput) (*model.StoredFile, error) {
	if input.UserID == "" || input.SessionID == "" || input.Filename == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	fileType := fileExtension(input.Filename)
	if !model.AllowedFileTypes[fileType] {
		return nil, ErrFileTypeNotAllowed
	}

	fileID := uuid.NewString()
	storedName := fileID + "." + fileType

	if err := s.blobs.Write(storedName, input.Data); err != nil {
		return nil, err
	}

	file := &model.StoredFile{
		ID:         fileID,
		UserID:     input.UserID,
		SessionID:  input.SessionID,
		Filename:   input.Filename,
		StoredName: storedName,
		FileType:   fileType,
		FileSize:   int64(len(input.Data)),
		CreatedAt:  time.Now(),
	}
	if err := s.fileRepo.Create(file); err != nil {
		if delErr := s.blobs.Delete(storedName); delErr != nil {
			s.logger.Warn("compensating blob delete failed",
				zap.String("stored_name", storedName),
				zap.Error(delErr))
		}
		return nil, err
	}

	session.SetFileIDList(append(session.FileIDList(), fileID))
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(session); err != nil {
		s.logger.Warn("append file id to session failed",
			zap.String("session_id", session.ID),
			zap.String("file_id", fileID),
			zap.Error(err))
	}

	return file, nil
}

func (s *FileService) ListBySession(userID, sessionID string) ([]model.StoredFile, error) {
	if userID == "" || sessionID == "" {
		return nil, ErrInvalidInput
	}

	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.fileRepo.ListBySessionID(sessionID)
}

// Delete removes the blob, the metadata row, and the session list entry, in
// that order. A blob that is already gone does not block the rest.
func (s *FileService) Delete(userID, fileID string) error {
	if userID == "" || fileID == "" {
		return ErrInvalidInput
	}

	file, err := s.fileRepo.GetByIDAndUserID(fileID, userID)
	if err != nil {
		return err
	}
	if file == nil {
		return ErrFileNotFound
	}

	if err := s.blobs.Delete(file.StoredName); err != nil {
		s.logger.Warn("delete blob failed",
			zap.String("file_id", file.ID),
			zap.Error(err))
	}
	if err := s.fileRepo.DeleteByID(file.ID); err != nil {
		return err
	}

	session, err := s.sessionRepo.GetByIDAndUserID(file.SessionID, userID)
	if err != nil || session == nil {
		return err
	}
	session.SetFileIDList(removeString(session.FileIDList(), fileID))
	if err := s.sessionRepo.Save(session); err != nil {
		s.logger.Warn("prune file id from session failed",
			zap.String("session_id", session.ID),
			zap.String("file_id", fileID),
			zap.Error(err))
	}
	return nil
}

func fileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func removeString(list []string, target string) []string {
	out := list[:0]
	for _, item := range list {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
