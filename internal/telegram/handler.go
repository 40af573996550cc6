package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/startbot/internal/domain"
	"github.com/kitbuilder587/startbot/internal/metrics"
)

const (
	callGetProfilePhotos = "get_user_profile_photos"
	callSendPhoto        = "send_photo"
	callSendMessage      = "send_message"
)

// Handler reacts to "/start": it relays the user's profile photo when one
// exists, replies with the user's details and notifies the admin destination.
// Failures are logged and never propagate to the caller.
type Handler struct {
	api     BotAPI
	admin   Destination
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewHandler(api BotAPI, admin Destination, logger *zap.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		api:     api,
		admin:   admin,
		logger:  logger,
		metrics: m,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()
	log := h.logger.With(
		zap.Int("update_id", update.UpdateID),
		zap.String("trace_id", uuid.NewString()),
	)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in update handler", zap.Any("panic", r))
			h.recordUpdate("panic")
		}
	}()

	// undelivered updates are redelivered by the platform after a restart
	if err := ctx.Err(); err != nil {
		log.Info("update dropped, shutting down", zap.Error(err))
		h.recordUpdate("dropped")
		return
	}

	event, err := EventFromUpdate(update)
	if err != nil {
		if errors.Is(err, ErrNoMessage) || errors.Is(err, domain.ErrUnsupportedCommand) {
			log.Debug("update ignored", zap.Error(err))
		} else {
			log.Warn("malformed update", zap.Error(err))
		}
		h.recordUpdate("ignored")
		return
	}

	h.handleStart(event, log)

	h.recordUpdate("handled")
	if h.metrics != nil {
		h.metrics.ObserveHandle(time.Since(startTime))
	}
}

func (h *Handler) handleStart(ev domain.IncomingCommandEvent, log *zap.Logger) {
	log = log.With(
		zap.Int64("user_id", ev.SenderID),
		zap.Int64("chat_id", ev.ChatID),
	)
	log.Info("start command received",
		zap.String("username", ev.SenderUsername),
	)

	adminNotified := false

	// the text replies always go out, whatever happened to the photo branch
	defer func() {
		h.sendReply(ev, log)
		if !adminNotified {
			h.notifyAdmin(ev, log)
		}
	}()

	photo := h.lookupPhoto(ev.SenderID)
	log.Debug("profile photo lookup done", zap.Stringer("status", photo.Status))
	switch {
	case photo.Status == domain.PhotoFailed:
		log.Warn("failed to get profile photos, skipping photo relay", zap.Error(photo.Err))
	case photo.Found():
		adminNotified = h.relayPhoto(ev, photo.FileID, log)
	default:
		log.Debug("user has no profile photo")
	}
}

func (h *Handler) lookupPhoto(userID int64) domain.ProfilePhotoResult {
	photos, err := h.api.GetUserProfilePhotos(tgbotapi.UserProfilePhotosConfig{
		UserID: userID,
		Limit:  1,
	})
	h.recordCall(callGetProfilePhotos, err)
	if err != nil {
		return domain.FailedPhoto(err)
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return domain.NoPhoto()
	}
	// sizes are ordered smallest first
	return domain.FoundPhoto(photos.Photos[0][0].FileID)
}

// relayPhoto reports whether the admin destination received the captioned photo.
func (h *Handler) relayPhoto(ev domain.IncomingCommandEvent, fileID string, log *zap.Logger) bool {
	if err := h.sendPhoto(ChatDestination(ev.ChatID), fileID, ""); err != nil {
		log.Error("failed to send profile photo to user", zap.Error(err))
	}

	if err := h.sendPhoto(h.admin, fileID, FormatAdminNotification(ev)); err != nil {
		log.Error("failed to send profile photo to admin",
			zap.Error(err),
			zap.Stringer("admin", h.admin),
		)
		return false
	}
	return true
}

func (h *Handler) sendReply(ev domain.IncomingCommandEvent, log *zap.Logger) {
	if err := h.sendText(ChatDestination(ev.ChatID), FormatStartReply(ev)); err != nil {
		log.Error("failed to send reply", zap.Error(err))
	}
}

func (h *Handler) notifyAdmin(ev domain.IncomingCommandEvent, log *zap.Logger) {
	if err := h.sendText(h.admin, FormatAdminNotification(ev)); err != nil {
		log.Error("failed to notify admin",
			zap.Error(err),
			zap.Stringer("admin", h.admin),
		)
	}
}

func (h *Handler) sendPhoto(to Destination, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(0, tgbotapi.FileID(fileID))
	to.apply(&photo.BaseChat)
	if caption != "" {
		photo.Caption = caption
		photo.ParseMode = parseMode
	}
	_, err := h.api.Send(photo)
	h.recordCall(callSendPhoto, err)
	return err
}

func (h *Handler) sendText(to Destination, text string) error {
	msg := tgbotapi.NewMessage(0, text)
	to.apply(&msg.BaseChat)
	msg.ParseMode = parseMode
	_, err := h.api.Send(msg)
	h.recordCall(callSendMessage, err)
	return err
}

func (h *Handler) recordCall(call string, err error) {
	if h.metrics != nil {
		h.metrics.RecordCall(call, err)
	}
}

func (h *Handler) recordUpdate(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordUpdate(outcome)
	}
}
