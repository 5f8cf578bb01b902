// Package support relays help requests between users and administrators.
// Messages are persisted first; notifications are best effort.
package support

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/notify"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
)

const maxMessageLength = 2000

type MessageView struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	UserName      string     `json:"userName"`
	Message       string     `json:"message"`
	CreatedDate   time.Time  `json:"createdDate"`
	IsResolved    bool       `json:"isResolved"`
	AdminResponse string     `json:"adminResponse"`
	ResponseDate  *time.Time `json:"responseDate,omitempty"`
}

// AdminAlert is published to the admin channel when a user submits a message.
type AdminAlert struct {
	MessageID uuid.UUID `json:"messageId"`
	UserID    uuid.UUID `json:"userId"`
	UserName  string    `json:"userName"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// UserReply is published to the originating user's channel.
type UserReply struct {
	MessageID       uuid.UUID `json:"messageId"`
	OriginalMessage string    `json:"originalMessage"`
	AdminResponse   string    `json:"adminResponse"`
	ResponseDate    time.Time `json:"responseDate"`
}

type Statistics struct {
	TotalTickets             int64   `json:"totalTickets"`
	OpenTickets              int64   `json:"openTickets"`
	ResolvedTickets          int64   `json:"resolvedTickets"`
	AverageResponseTimeHours float64 `json:"averageResponseTimeHours"`
}

type Service struct {
	store    *repository.Store
	notifier notify.Notifier
	now      func() time.Time
}

func NewService(store *repository.Store, notifier notify.Notifier) *Service {
	return &Service{store: store, notifier: notifier, now: time.Now}
}

// Submit stores a message from userID and alerts the administrators.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, text string) (*MessageView, error) {
	text, err := normalizeText("message", text)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, repository.AsAppError(err, "User", userID)
	}
	role, err := lookup.Role(ctx, s.store, *user)
	if err != nil {
		return nil, err
	}

	msg := models.SupportMessage{UserID: user.ID, Message: text, IsResolved: false}
	if err := s.store.SupportMessages.Add(ctx, &msg); err != nil {
		return nil, repository.Unexpected(err, "failed to save support message")
	}

	alert := AdminAlert{
		MessageID: msg.ID,
		UserID:    user.ID,
		UserName:  user.FullName,
		Role:      role,
		Message:   msg.Message,
		Timestamp: msg.CreatedAt,
	}
	if err := s.notifier.NotifyAdmins(ctx, alert); err != nil {
		zap.L().Warn("failed to notify admins of support message",
			zap.String("message_id", msg.ID.String()),
			zap.Error(err),
		)
	}

	v := view(msg, user.FullName)
	return &v, nil
}

// Respond records an administrator's answer and relays it to the user who
// asked.
func (s *Service) Respond(ctx context.Context, messageID uuid.UUID, response string, adminID uuid.UUID) (*MessageView, error) {
	response, err := normalizeText("response", response)
	if err != nil {
		return nil, err
	}

	msg, err := s.store.SupportMessages.GetByID(ctx, messageID)
	if err != nil {
		return nil, repository.AsAppError(err, "Support message", messageID)
	}

	respondedAt := s.now().UTC()
	msg.AdminResponse = response
	msg.ResponseDate = &respondedAt
	msg.IsResolved = true
	if adminID != uuid.Nil {
		msg.RespondedBy = &adminID
	}
	if err := s.store.SupportMessages.Update(ctx, msg); err != nil {
		return nil, repository.Unexpected(err, "failed to save support response")
	}

	reply := UserReply{
		MessageID:       msg.ID,
		OriginalMessage: msg.Message,
		AdminResponse:   msg.AdminResponse,
		ResponseDate:    respondedAt,
	}
	if err := s.notifier.NotifyUser(ctx, msg.UserID, reply); err != nil {
		zap.L().Warn("failed to relay support response",
			zap.String("message_id", msg.ID.String()),
			zap.String("user_id", msg.UserID.String()),
			zap.Error(err),
		)
	}

	var name string
	if user, err := s.store.Users.GetByID(ctx, msg.UserID); err == nil {
		name = user.FullName
	}
	v := view(*msg, name)
	return &v, nil
}

// History lists a user's messages, newest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]MessageView, error) {
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, repository.AsAppError(err, "User", userID)
	}

	rows, err := s.store.SupportMessages.FindAll(ctx,
		repository.Where("user_id = ?", userID),
		repository.OrderBy("created_at DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load support history")
	}
	out := make([]MessageView, 0, len(rows))
	for _, m := range rows {
		out = append(out, view(m, user.FullName))
	}
	return out, nil
}

// Pending lists unresolved messages, oldest first.
func (s *Service) Pending(ctx context.Context) ([]MessageView, error) {
	rows, err := s.store.SupportMessages.FindAll(ctx,
		repository.Where("is_resolved = ?", false),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load pending support messages")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.UserID)
	}
	profiles, err := lookup.Profiles(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	out := make([]MessageView, 0, len(rows))
	for _, m := range rows {
		p, ok := profiles[m.UserID]
		if !ok {
			continue
		}
		out = append(out, view(m, p.FullName))
	}
	return out, nil
}

func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	rows, err := s.store.SupportMessages.GetAll(ctx)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load support messages")
	}

	var (
		stats   Statistics
		elapsed time.Duration
	)
	stats.TotalTickets = int64(len(rows))
	for _, m := range rows {
		if !m.IsResolved {
			stats.OpenTickets++
			continue
		}
		stats.ResolvedTickets++
		if m.ResponseDate != nil {
			elapsed += m.ResponseDate.Sub(m.CreatedAt)
		}
	}
	if stats.ResolvedTickets > 0 {
		stats.AverageResponseTimeHours = elapsed.Hours() / float64(stats.ResolvedTickets)
	}
	return &stats, nil
}

func view(m models.SupportMessage, userName string) MessageView {
	return MessageView{
		ID:            m.ID,
		UserID:        m.UserID,
		UserName:      userName,
		Message:       m.Message,
		CreatedDate:   m.CreatedAt,
		IsResolved:    m.IsResolved,
		AdminResponse: m.AdminResponse,
		ResponseDate:  m.ResponseDate,
	}
}

func normalizeText(field, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.ValidationField(field, "Text is required")
	}
	if len(text) > maxMessageLength {
		return "", apperr.ValidationField(field, "Text cannot exceed 2000 characters")
	}
	return text, nil
}
