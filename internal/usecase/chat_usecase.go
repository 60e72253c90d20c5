package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/samber/lo"
)

type ChatSessionDTO struct {
	ID        int64     `json:"id"`
	Title     *string   `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessageDTO struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatMessageInput struct {
	Content   string
	Sender    string
	Timestamp *time.Time
}

type ChatUsecase struct {
	chats repository.ChatRepository
	clock Clock
	log   Logger
}

func NewChatUsecase(chats repository.ChatRepository, clock Clock, logger Logger) *ChatUsecase {
	return &ChatUsecase{chats: chats, clock: clock, log: logger}
}

func (u *ChatUsecase) CreateSession(ctx context.Context, userID int64, title *string) (ChatSessionDTO, error) {
	if title != nil {
		t := strings.TrimSpace(*title)
		if utf8.RuneCountInString(t) > 255 {
			return ChatSessionDTO{}, NewHTTPError(http.StatusBadRequest, "title is too long")
		}
		title = &t
	}

	s, err := u.chats.CreateSession(ctx, model.ChatSession{
		UserID:    userID,
		Title:     title,
		CreatedAt: u.clock.Now(),
	})
	if err != nil {
		return ChatSessionDTO{}, u.internal("create chat session failed", userID, err)
	}
	return toChatSessionDTO(s), nil
}

func (u *ChatUsecase) ListSessions(ctx context.Context, userID int64) ([]ChatSessionDTO, error) {
	list, err := u.chats.ListSessionsByUserID(ctx, userID)
	if err != nil {
		return nil, u.internal("list chat sessions failed", userID, err)
	}
	return lo.Map(list, func(s model.ChatSession, _ int) ChatSessionDTO {
		return toChatSessionDTO(s)
	}), nil
}

func (u *ChatUsecase) GetLog(ctx context.Context, userID, sessionID int64) ([]ChatMessageDTO, error) {
	if err := u.ensureSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	logs, err := u.chats.ListLogs(ctx, sessionID, userID)
	if err != nil {
		return nil, u.internal("list chat logs failed", userID, err)
	}
	return lo.Map(logs, func(l model.ChatLog, _ int) ChatMessageDTO {
		return ChatMessageDTO{ID: l.ID, Content: l.Message, Sender: l.Sender, Timestamp: l.Timestamp}
	}), nil
}

// メッセージは1回のINSERTでまとめて保存する
func (u *ChatUsecase) SaveLog(ctx context.Context, userID, sessionID int64, messages []ChatMessageInput) error {
	for _, m := range messages {
		sender := strings.TrimSpace(m.Sender)
		if m.Content == "" || sender == "" {
			return NewHTTPError(http.StatusBadRequest, "content and sender are required")
		}
		if utf8.RuneCountInString(sender) > 20 {
			return NewHTTPError(http.StatusBadRequest, "sender is too long")
		}
	}
	if err := u.ensureSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	now := u.clock.Now()
	logs := lo.Map(messages, func(m ChatMessageInput, _ int) model.ChatLog {
		ts := now
		if m.Timestamp != nil {
			ts = m.Timestamp.UTC()
		}
		return model.ChatLog{
			SessionID: sessionID,
			UserID:    userID,
			Message:   m.Content,
			Sender:    strings.TrimSpace(m.Sender),
			Timestamp: ts,
		}
	})
	if err := u.chats.CreateLogs(ctx, logs); err != nil {
		return u.internal("save chat logs failed", userID, err)
	}
	return nil
}

func (u *ChatUsecase) ensureSession(ctx context.Context, userID, sessionID int64) error {
	if sessionID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "session_id is required")
	}
	if _, err := u.chats.FindSessionForUser(ctx, sessionID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Session not found")
		}
		return u.internal("find chat session failed", userID, err)
	}
	return nil
}

func toChatSessionDTO(s model.ChatSession) ChatSessionDTO {
	return ChatSessionDTO{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt}
}

func (u *ChatUsecase) internal(msg string, userID int64, err error) error {
	u.log.Errorj(log.JSON{"msg": msg, "user_id": userID, "error": err.Error()})
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
