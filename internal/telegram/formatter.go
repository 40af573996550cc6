package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kitbuilder587/startbot/internal/domain"
)

// parseMode is legacy Markdown: the user id is wrapped in a code span.
const parseMode = tgbotapi.ModeMarkdown

const adminHeader = "New user started the bot!"

// FormatAdminNotification is used both as the photo caption and as the
// text-only notification sent to the admin destination.
func FormatAdminNotification(ev domain.IncomingCommandEvent) string {
	var sb strings.Builder
	sb.WriteString(adminHeader)
	sb.WriteString("\n\n")
	writeName(&sb, ev)
	sb.WriteString(fmt.Sprintf("Username: %s\nUser ID: `%d`", escape(ev.DisplayName()), ev.SenderID))
	return sb.String()
}

func FormatStartReply(ev domain.IncomingCommandEvent) string {
	var sb strings.Builder
	writeName(&sb, ev)
	sb.WriteString(fmt.Sprintf("Username: %s\n\nUser ID:\n`%d`", escape(ev.DisplayName()), ev.SenderID))
	return sb.String()
}

func writeName(sb *strings.Builder, ev domain.IncomingCommandEvent) {
	if name := ev.FullName(); name != "" {
		sb.WriteString("Name: ")
		sb.WriteString(escape(name))
		sb.WriteString("\n")
	}
}

func escape(s string) string {
	return tgbotapi.EscapeText(parseMode, s)
}
