// Package brief routes incoming chat messages to the summary pipeline and
// turns every outcome into a reply.
package brief

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"readbrief/internal/card"
	"readbrief/internal/config"
	"readbrief/internal/domain"
	"readbrief/internal/page"
	"readbrief/internal/session"
	"readbrief/internal/summarizer"

	"mvdan.cc/xurls/v2"
)

const (
	replyUnsupported    = "不支持小程序和视频号"
	replyFetchFailed    = "无法获取网页内容"
	replySummaryFailed  = "摘要生成失败"
	replyInternalFailed = "处理URL时发生错误"
)

// CardRenderer turns a summary card into image bytes.
type CardRenderer interface {
	Render(ctx context.Context, req card.Request) ([]byte, error)
}

type Service struct {
	cfg         config.BriefConfig
	unsupported *regexp.Regexp
	urls        *regexp.Regexp
	store       session.Store
	locker      *session.Locker
	fetcher     page.Fetcher
	summarizer  summarizer.Summarizer
	renderer    CardRenderer
	log         *slog.Logger
}

// New builds the service. A nil renderer disables card replies.
func New(
	cfg config.BriefConfig,
	store session.Store,
	locker *session.Locker,
	fetcher page.Fetcher,
	summarizer summarizer.Summarizer,
	renderer CardRenderer,
	log *slog.Logger,
) (*Service, error) {
	unsupported, err := regexp.Compile(cfg.UnsupportedPattern)
	if err != nil {
		return nil, fmt.Errorf("compile unsupported pattern: %w", err)
	}

	urls, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return nil, fmt.Errorf("compile url pattern: %w", err)
	}

	return &Service{
		cfg:         cfg,
		unsupported: unsupported,
		urls:        urls,
		store:       store,
		locker:      locker,
		fetcher:     fetcher,
		summarizer:  summarizer,
		renderer:    renderer,
		log:         log,
	}, nil
}

// Handle routes one message. The boolean is false when the message is not
// for this service and must be passed through without a reply.
func (s *Service) Handle(ctx context.Context, msg domain.Message) (domain.Reply, bool) {
	if !s.cfg.Enabled {
		return domain.Reply{}, false
	}

	if msg.IsGroup && !s.cfg.Group {
		return domain.Reply{}, false
	}

	unlock := s.locker.Lock(msg.UserID)
	defer unlock()

	if reply, ok := s.handleFollowUp(ctx, msg); ok {
		return reply, true
	}

	switch msg.Kind {
	case domain.MessageShare:
		return s.handleShare(ctx, msg)
	case domain.MessageText:
		return s.handleText(ctx, msg)
	default:
		return domain.Reply{}, false
	}
}

func (s *Service) handleFollowUp(ctx context.Context, msg domain.Message) (domain.Reply, bool) {
	if !s.cfg.FollowUpEnabled || msg.Kind != domain.MessageText {
		return domain.Reply{}, false
	}

	question, ok := strings.CutPrefix(strings.TrimSpace(msg.Content), s.cfg.FollowUpPrefix)
	if !ok {
		return domain.Reply{}, false
	}

	sess, found, err := s.store.Get(ctx, msg.UserID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get session",
			"error", err,
			"userID", msg.UserID)

		return domain.ErrorReply(replyInternalFailed), true
	}

	if !found || sess.LastURL == "" {
		return domain.Reply{}, false
	}

	sess.Prompt = strings.TrimSpace(question)
	if sess.Prompt == "" {
		sess.Prompt = s.cfg.Prompt
	}

	if err = s.store.Put(ctx, sess); err != nil {
		s.log.ErrorContext(ctx, "Failed to put session",
			"error", err,
			"userID", msg.UserID)

		return domain.ErrorReply(replyInternalFailed), true
	}

	s.log.InfoContext(ctx, "Answering follow-up question",
		"userID", msg.UserID,
		"url", sess.LastURL)

	return s.run(ctx, sess), true
}

func (s *Service) handleShare(ctx context.Context, msg domain.Message) (domain.Reply, bool) {
	url := strings.TrimSpace(html.UnescapeString(msg.Content))
	if url == "" {
		return domain.Reply{}, false
	}

	if s.unsupported.MatchString(url) {
		s.log.InfoContext(ctx, "Unsupported URL is shared",
			"userID", msg.UserID,
			"url", url,
			"isGroup", msg.IsGroup)

		if msg.IsGroup {
			return domain.Reply{}, false
		}

		return domain.TextReply(replyUnsupported), true
	}

	return s.start(ctx, msg.UserID, url), true
}

func (s *Service) handleText(ctx context.Context, msg domain.Message) (domain.Reply, bool) {
	url := s.urls.FindString(msg.Content)
	if url == "" || s.unsupported.MatchString(url) {
		return domain.Reply{}, false
	}

	return s.start(ctx, msg.UserID, url), true
}

// start replaces the user's session with a fresh one for url and runs the
// pipeline.
func (s *Service) start(ctx context.Context, userID, url string) domain.Reply {
	sess := domain.Session{
		UserID:  userID,
		LastURL: url,
		Prompt:  s.cfg.Prompt,
	}

	if err := s.store.Put(ctx, sess); err != nil {
		s.log.ErrorContext(ctx, "Failed to put session",
			"error", err,
			"userID", userID)

		return domain.ErrorReply(replyInternalFailed)
	}

	s.log.InfoContext(ctx, "Summarizing URL",
		"userID", userID,
		"url", url)

	return s.run(ctx, sess)
}
