package brief

import (
	"context"
	"strings"

	"readbrief/internal/card"
	"readbrief/internal/domain"
	"readbrief/internal/format"
	"readbrief/internal/summarizer"
)

// run fetches the session's URL, summarizes it with the session's prompt and
// builds the reply. Failures end up as fixed error replies.
func (s *Service) run(ctx context.Context, sess domain.Session) domain.Reply {
	pg, err := s.fetcher.Fetch(ctx, sess.LastURL)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch page",
			"error", err,
			"userID", sess.UserID,
			"url", sess.LastURL)

		return domain.ErrorReply(replyFetchFailed)
	}

	raw, err := s.summarizer.Summarize(ctx, summarizer.Input{
		URL:     sess.LastURL,
		Prompt:  sess.Prompt,
		Content: pg.Content,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to summarize page",
			"error", err,
			"userID", sess.UserID,
			"url", sess.LastURL)

		return domain.ErrorReply(replySummaryFailed)
	}

	summary, err := summarizer.Decode(raw)
	if err != nil {
		s.log.WarnContext(ctx, "Model output is not structured, replying verbatim",
			"error", err,
			"userID", sess.UserID,
			"url", sess.LastURL)

		return domain.TextReply(s.withHint(raw))
	}

	text := format.Text(summary, *pg)

	sess.Content = text
	sess.Title = firstNonEmpty(summary.Title, pg.Title)
	sess.Source = firstNonEmpty(summary.Source, pg.Source)

	if err = s.store.Put(ctx, sess); err != nil {
		s.log.WarnContext(ctx, "Failed to save summary to session",
			"error", err,
			"userID", sess.UserID)
	}

	if s.renderer == nil {
		return domain.TextReply(s.withHint(text))
	}

	image, err := s.renderer.Render(ctx, card.Request{
		Title:       sess.Title,
		ContentHTML: format.CardHTML(format.ParseSections(text)),
		URL:         sess.LastURL,
		Source:      sess.Source,
	})
	if err != nil {
		s.log.WarnContext(ctx, "Failed to render card, falling back to text",
			"error", err,
			"userID", sess.UserID,
			"url", sess.LastURL)

		return domain.TextReply(s.withHint(text))
	}

	return domain.ImageReply(image)
}

func (s *Service) withHint(text string) string {
	return format.WithFollowUpHint(text, s.cfg.FollowUpEnabled, s.cfg.FollowUpPrefix)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
