package bot

import (
	"context"
	"strconv"
	"strings"

	"readbrief/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start", "help":
		return b.sendText(ctx, message.Chat.ID, message.MessageID, b.helpText)
	}

	msg, ok := toMessage(message)
	if !ok {
		return nil
	}

	var (
		reply   domain.Reply
		handled bool
	)

	err := b.withSpinner(ctx, message.Chat.ID, func() error {
		reply, handled = b.handler.Handle(ctx, msg)
		return nil
	})
	if err != nil || !handled {
		return err
	}

	return b.sendReply(ctx, message.Chat.ID, message.MessageID, reply)
}

// toMessage maps a Telegram message to the brief core. A message that links
// a URL through a text_link entity is a rich share of that URL.
func toMessage(message *tgbotapi.Message) (domain.Message, bool) {
	if message == nil || message.From == nil || message.Chat == nil {
		return domain.Message{}, false
	}

	msg := domain.Message{
		Kind:    domain.MessageText,
		UserID:  strconv.FormatInt(message.From.ID, 10),
		IsGroup: message.Chat.IsGroup() || message.Chat.IsSuperGroup(),
	}

	if link := firstTextLink(message.Entities); link != "" {
		msg.Kind = domain.MessageShare
		msg.Content = link

		return msg, true
	}

	if link := firstTextLink(message.CaptionEntities); link != "" {
		msg.Kind = domain.MessageShare
		msg.Content = link

		return msg, true
	}

	msg.Content = message.Text
	if msg.Content == "" {
		msg.Content = message.Caption
	}

	if strings.TrimSpace(msg.Content) == "" {
		return domain.Message{}, false
	}

	return msg, true
}

func firstTextLink(entities []tgbotapi.MessageEntity) string {
	for _, entity := range entities {
		if entity.Type == "text_link" && entity.URL != "" {
			return entity.URL
		}
	}

	return ""
}
