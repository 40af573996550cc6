package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Destination is a chat addressed either by numeric id or by @channel username.
type Destination struct {
	ChatID   int64
	Username string
}

func ChatDestination(chatID int64) Destination {
	return Destination{ChatID: chatID}
}

func ParseDestination(s string) (Destination, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "@") {
		if len(s) == 1 {
			return Destination{}, errors.New("empty channel username")
		}
		return Destination{Username: s}, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Destination{}, fmt.Errorf("parse chat id %q: %w", s, err)
	}
	return Destination{ChatID: id}, nil
}

func (d Destination) String() string {
	if d.Username != "" {
		return d.Username
	}
	return strconv.FormatInt(d.ChatID, 10)
}

func (d Destination) apply(chat *tgbotapi.BaseChat) {
	chat.ChatID = d.ChatID
	chat.ChannelUsername = d.Username
}
