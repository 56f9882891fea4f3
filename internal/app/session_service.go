package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/platform/blob"
	"github.com/StutiiiG/readai/internal/repository"
)

const defaultSessionTitle = "New Session"

type SessionService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	fileRepo     *repository.FileRepository
	blobs        blob.Store
	historyCache HistoryCache
	logger       *zap.Logger
}

type CreateSessionInput struct {
	UserID string
	Title  string
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	fileRepo *repository.FileRepository,
	blobs blob.Store,
	historyCache HistoryCache,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		fileRepo:     fileRepo,
		blobs:        blobs,
		historyCache: historyCache,
		logger:       logger,
	}
}

func (s *SessionService) Create(input CreateSessionInput) (*model.Session, error) {
	if input.UserID == "" {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = defaultSessionTitle
	}

	session := &model.Session{
		ID:     uuid.NewString(),
		UserID: input.UserID,
		Title:  title,
	}
	session.SetFileIDList(nil)
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) List(userID string) ([]model.Session, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *SessionService) Get(userID, sessionID string) (*model.Session, error) {
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
	return session, nil
}

func (s *SessionService) Rename(userID, sessionID, title string) (*model.Session, error) {
	session, err := s.Get(userID, sessionID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultSessionTitle
	}
	session.Title = title
	session.UpdatedAt = time.Now()
	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session and cascades to its messages, file metadata and
// blobs. Blob deletion is best-effort: a missing blob never blocks the
// cascade.
func (s *SessionService) Delete(ctx context.Context, userID, sessionID string) error {
	session, err := s.Get(userID, sessionID)
	if err != nil {
		return err
	}

	files, err := s.fileRepo.ListBySessionID(session.ID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.blobs.Delete(file.StoredName); err != nil {
			s.logger.Warn("delete blob failed",
				zap.String("file_id", file.ID),
				zap.Error(err))
		}
	}

	if err := s.messageRepo.DeleteBySessionID(session.ID); err != nil {
		return err
	}
	if err := s.fileRepo.DeleteBySessionID(session.ID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByIDAndUserID(session.ID, userID); err != nil {
		return err
	}

	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(ctx, session.ID)
	}
	return nil
}
