package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"groupgetaway/internal/domain"
)

// SESConfig holds credentials and region for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	InsecureSkipVerify bool
}

// MailerConfig selects and configures the outgoing mail provider.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// NewMailer creates a mailer from config. Provider "ses" sends through AWS
// SES; "noop" or anything unrecognized logs instead of sending, which keeps
// local development from emailing travelers.
func NewMailer(config MailerConfig) (domain.Mailer, error) {
	switch config.Provider {
	case "ses":
		return newSESMailer(config), nil
	case "noop":
		return &noopMailer{}, nil
	default:
		log.Printf("[MAILER] Unknown email provider %q, using noop", config.Provider)
		return &noopMailer{}, nil
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
}

func newSESMailer(config MailerConfig) *sesMailer {
	if config.SES.InsecureSkipVerify {
		log.Printf("[MAILER] WARNING: TLS certificate verification is disabled for SES. Use only in development.")
	}
	awsCfg := aws.Config{
		Region: config.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.SES.AccessKeyID,
				config.SES.SecretAccessKey,
				"",
			),
		),
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: config.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		},
	}
	return &sesMailer{
		client:      ses.NewFromConfig(awsCfg),
		fromAddress: config.FromAddress,
		fromName:    config.FromName,
	}
}

func (s *sesMailer) Send(to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}
	body := &types.Body{}
	if html != "" {
		body.Html = &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")}
	}
	if text != "" {
		body.Text = &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")}
	}
	input := &ses.SendEmailInput{
		Source:      aws.String(source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
	result, err := s.client.SendEmail(context.Background(), input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	log.Printf("[MAILER] Email sent via SES. MessageID: %s", aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct{}

func (n *noopMailer) Send(to, subject, html, text string) error {
	log.Printf("[MAILER] Email would be sent (noop) to=%s subject=%q", to, subject)
	return nil
}
