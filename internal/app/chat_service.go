package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/StutiiiG/readai/internal/model"
	"github.com/StutiiiG/readai/internal/repository"
)

const maxTitleLength = 50

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageEmpty    = errors.New("message content is empty")
)

// ContentExtractor turns one stored file into plain text; it never fails.
type ContentExtractor interface {
	Extract(ctx context.Context, file model.StoredFile) string
}

// TurnGenerator produces the assistant text for one turn and reports
// whether it had to fall back.
type TurnGenerator interface {
	Generate(ctx context.Context, sessionID, documentContext, historyText, question string) (string, bool)
}

type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.Message, bool, error)
	SetHistory(ctx context.Context, sessionID string, messages []model.Message) error
	DeleteHistory(ctx context.Context, sessionID string) error
	MarkDirty(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

type TurnEventPublisher interface {
	Publish(ctx context.Context, event model.TurnEvent) error
}

type ChatService struct {
	sessionRepo  *repository.SessionRepository
	messageRepo  *repository.MessageRepository
	fileRepo     *repository.FileRepository
	extractor    ContentExtractor
	generator    TurnGenerator
	historyCache HistoryCache
	events       TurnEventPublisher
	maxHistory   int
	logger       *zap.Logger
}

type SendMessageInput struct {
	UserID    string
	SessionID string
	Content   string
}

func NewChatService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
	fileRepo *repository.FileRepository,
	extractor ContentExtractor,
	generator TurnGenerator,
	historyCache HistoryCache,
	events TurnEventPublisher,
	maxHistory int,
	logger *zap.Logger,
) *ChatService {
	if maxHistory <= 0 {
		maxHistory = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		sessionRepo:  sessionRepo,
		messageRepo:  messageRepo,
		fileRepo:     fileRepo,
		extractor:    extractor,
		generator:    generator,
		historyCache: historyCache,
		events:       events,
		maxHistory:   maxHistory,
		logger:       logger,
	}
}

// SendMessage runs one chat turn: persist the user message, assemble the
// document and history context, generate, reconcile citations, persist the
// assistant message, and update session bookkeeping. Generation and
// extraction failures never fail the turn; only store errors and an
// unknown/unowned session do.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*model.Message, error) {
	if input.UserID == "" || input.SessionID == "" {
		return nil, ErrInvalidInput
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrMessageEmpty
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	// Files and prior history are read before the user message is written,
	// so the transcript window never includes the current turn.
	files, err := s.fileRepo.ListBySessionID(session.ID)
	if err != nil {
		return nil, err
	}
	history, err := s.messageRepo.ListRecentBySessionID(session.ID, s.maxHistory)
	if err != nil {
		return nil, err
	}

	s.invalidateHistory(ctx, session.ID)

	userMessage := &model.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		UserID:    input.UserID,
		Role:      model.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	userMessage.SetCitationList(nil)
	if err := s.messageRepo.Create(userMessage); err != nil {
		return nil, err
	}

	extracted := make([]ExtractedFile, 0, len(files))
	for _, file := range files {
		extracted = append(extracted, ExtractedFile{
			Filename: file.Filename,
			Text:     s.extractor.Extract(ctx, file),
		})
	}
	documentContext, sourceMap := BuildDocumentContext(extracted)
	historyText := BuildHistoryTranscript(history, s.maxHistory)

	answer, usedFallback := s.generator.Generate(ctx, session.ID, documentContext, historyText, content)
	citations := ExtractCitations(answer, sourceMap)

	assistantMessage := &model.Message{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		UserID:    input.UserID,
		Role:      model.RoleAssistant,
		Content:   answer,
		CreatedAt: time.Now(),
	}
	assistantMessage.SetCitationList(citations)
	if err := s.messageRepo.Create(assistantMessage); err != nil {
		return nil, err
	}

	if err := s.updateSessionAfterTurn(session, content); err != nil {
		return nil, err
	}

	s.invalidateHistory(ctx, session.ID)
	s.publishTurnEvent(ctx, session, documentContext != "", len(citations), usedFallback)

	return assistantMessage, nil
}

// GetMessages returns the session transcript oldest-first, served from the
// cache when it is clean.
func (s *ChatService) GetMessages(ctx context.Context, userID, sessionID string) ([]model.Message, error) {
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

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageRepo.ListBySessionID(sessionID, 0)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return messages, nil
}

// updateSessionAfterTurn bumps updated_at and, on the first exchange only,
// replaces the title with a truncated prefix of the question.
func (s *ChatService) updateSessionAfterTurn(session *model.Session, question string) error {
	count, err := s.messageRepo.CountBySessionID(session.ID)
	if err != nil {
		return err
	}

	if count <= 2 {
		session.Title = truncateTitle(question)
		return s.sessionRepo.Save(session)
	}
	return s.sessionRepo.Touch(session.ID)
}

func (s *ChatService) invalidateHistory(ctx context.Context, sessionID string) {
	if s.historyCache == nil {
		return
	}
	_ = s.historyCache.MarkDirty(ctx, sessionID)
	_ = s.historyCache.DeleteHistory(ctx, sessionID)
}

func (s *ChatService) publishTurnEvent(ctx context.Context, session *model.Session, grounded bool, citationCount int, usedFallback bool) {
	if s.events == nil {
		return
	}

	kind := model.TurnEventCompleted
	if usedFallback {
		kind = model.TurnEventGenerationFallback
	}
	event := model.TurnEvent{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		UserID:        session.UserID,
		Kind:          kind,
		Grounded:      grounded,
		CitationCount: citationCount,
		CreatedAt:     time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish turn event failed", zap.String("session_id", session.ID), zap.Error(err))
	}
}

func truncateTitle(question string) string {
	runes := []rune(question)
	if len(runes) <= maxTitleLength {
		return question
	}
	return string(runes[:maxTitleLength]) + "..."
}
