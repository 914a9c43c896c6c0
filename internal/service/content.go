package service

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/content"
)

// ContactMessageSent acknowledges a contact form submission.
const ContactMessageSent = "Message sent!"

// ContactInput is the contact form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContentService serves static pages and accepts contact messages.
type ContentService interface {
	Page(ctx context.Context, slug string) (*content.Page, error)
	// Contact records the message and returns the acknowledgement shown to the sender.
	Contact(ctx context.Context, in ContactInput) (string, error)
}

type contentService struct {
	pages  *content.Library
	logger *slog.Logger
}

// NewContentService constructs a ContentService.
func NewContentService(pages *content.Library, logger *slog.Logger) ContentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &contentService{pages: pages, logger: logger}
}

func (s *contentService) Page(_ context.Context, slug string) (*content.Page, error) {
	p, ok := s.pages.Page(slug)
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

func (s *contentService) Contact(ctx context.Context, in ContactInput) (string, error) {
	s.logger.InfoContext(ctx, "contact_message",
		slog.String("name", strings.TrimSpace(in.Name)),
		slog.String("email", strings.TrimSpace(in.Email)),
		slog.String("subject", strings.TrimSpace(in.Subject)),
		slog.Int("message_length", len(in.Message)),
	)
	return ContactMessageSent, nil
}
