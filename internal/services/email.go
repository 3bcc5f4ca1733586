package services

import (
	"context"
	"fmt"
	"log"

	"groupgetaway/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendGroupConfirmation sends the confirm-your-spot email using the "group_confirmation" template.
func (s *emailService) SendGroupConfirmation(ctx context.Context, data *domain.GroupConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("group confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("group_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render group_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send group confirmation email: %w", err)
	}
	log.Printf("[EMAIL] Group confirmation sent to %s", data.Email)
	return nil
}

// SendGroupCancelled sends the trip-cancelled notice using the "group_cancelled" template.
func (s *emailService) SendGroupCancelled(ctx context.Context, data *domain.GroupCancelledEmailData) error {
	if data == nil {
		return fmt.Errorf("group cancelled data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("group_cancelled", data)
	if err != nil {
		return fmt.Errorf("failed to render group_cancelled template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send group cancelled email: %w", err)
	}
	log.Printf("[EMAIL] Group cancellation notice sent to %s", data.Email)
	return nil
}
