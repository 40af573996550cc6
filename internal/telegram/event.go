package telegram

import (
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kitbuilder587/startbot/internal/domain"
)

var ErrNoMessage = errors.New("update carries no message")

// EventFromUpdate extracts a command event from an update. Only "/start" (with
// an optional @botname suffix and payload) from a known user is accepted.
func EventFromUpdate(update tgbotapi.Update) (domain.IncomingCommandEvent, error) {
	msg := update.Message
	if msg == nil {
		return domain.IncomingCommandEvent{}, ErrNoMessage
	}
	if !msg.IsCommand() {
		return domain.IncomingCommandEvent{}, domain.ErrUnsupportedCommand
	}

	ev := domain.IncomingCommandEvent{
		UpdateID: update.UpdateID,
		Command:  strings.ToLower(msg.Command()),
	}
	if msg.From != nil {
		ev.SenderID = msg.From.ID
		ev.SenderUsername = msg.From.UserName
		ev.SenderFirstName = msg.From.FirstName
		ev.SenderLastName = msg.From.LastName
	}
	if msg.Chat != nil {
		ev.ChatID = msg.Chat.ID
	}

	if err := ev.Validate(); err != nil {
		return domain.IncomingCommandEvent{}, err
	}
	return ev, nil
}
