package bot

import (
	"context"
	"fmt"
	"strings"

	"readbrief/internal/domain"
	"readbrief/internal/markdown"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	errorPrefix   = "❌ "
	cardImageName = "brief.png"
)

func (b *Bot) sendReply(ctx context.Context, chatID int64, replyTo int, reply domain.Reply) error {
	message, err := b.replyMessage(ctx, chatID, replyTo, reply)
	if err != nil {
		return err
	}

	if _, err = b.rateLimiter.Send(ctx, message); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}

	return nil
}

func (b *Bot) sendText(ctx context.Context, chatID int64, replyTo int, text string) error {
	if _, err := b.rateLimiter.Send(ctx, b.textMessage(ctx, chatID, replyTo, text)); err != nil {
		return fmt.Errorf("send text: %w", err)
	}

	return nil
}

func (b *Bot) replyMessage(
	ctx context.Context,
	chatID int64,
	replyTo int,
	reply domain.Reply,
) (tgbotapi.Chattable, error) {
	switch reply.Kind {
	case domain.ReplyText:
		return b.textMessage(ctx, chatID, replyTo, markdown.EscapeV2(reply.Text)), nil
	case domain.ReplyError:
		return b.textMessage(ctx, chatID, replyTo, markdown.EscapeV2(errorPrefix+reply.Text)), nil
	case domain.ReplyImage:
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: cardImageName, Bytes: reply.Image})
		photo.ReplyToMessageID = replyTo

		return photo, nil
	default:
		return nil, fmt.Errorf("unknown reply kind: %d", reply.Kind)
	}
}

// textMessage builds a MarkdownV2 message from already escaped text.
func (b *Bot) textMessage(ctx context.Context, chatID int64, replyTo int, text string) tgbotapi.MessageConfig {
	normalizedText := strings.ToValidUTF8(text, "?")
	if normalizedText != text {
		b.log.WarnContext(ctx, "Message text had invalid UTF-8 and was normalized",
			"chatID", chatID,
			"originalLen", len(text),
			"normalizedLen", len(normalizedText))
	}

	message := tgbotapi.NewMessage(chatID, normalizedText)

	// See https://core.telegram.org/bots/api#markdownv2-style.
	message.ParseMode = tgbotapi.ModeMarkdownV2

	message.DisableWebPagePreview = true
	message.ReplyToMessageID = replyTo

	return message
}
