package mock

import (
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandUpdate builds a private-chat update carrying text sent by user. A
// leading "/word" gets a bot_command entity the way the platform sends it.
func CommandUpdate(updateID int, user tgbotapi.User, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: updateID,
		From:      &user,
		Chat:      &tgbotapi.Chat{ID: user.ID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.SplitN(text, " ", 2)[0]
		msg.Entities = []tgbotapi.MessageEntity{{
			Type:   "bot_command",
			Offset: 0,
			Length: len(utf16.Encode([]rune(cmd))),
		}}
	}
	return tgbotapi.Update{UpdateID: updateID, Message: msg}
}

func StartUpdate(updateID int, userID int64, username string) tgbotapi.Update {
	return CommandUpdate(updateID, tgbotapi.User{ID: userID, UserName: username}, "/start")
}
