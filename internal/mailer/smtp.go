// Copyright (c) 2026 Triibes. All rights reserved.

package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/TriibesDev/lyra-backend/internal/platform/config"
)

// SMTPGateway implements [Gateway] over an authenticated SMTP relay.
type SMTPGateway struct {
	client        *mail.Client
	from          string
	readerBaseURL string
}

// NewSMTPGateway builds the SMTP client from configuration.
//
// The client is connection-pooled internally; one gateway instance serves the
// whole process.
func NewSMTPGateway(cfg *config.Config) (*SMTPGateway, error) {
	options := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}

	// Local development relays (mailpit etc.) run without credentials.
	if cfg.SMTPUsername != "" {
		options = append(options,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	if cfg.IsDevelopment() {
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.SMTPHost, options...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create SMTP client: %w", err)
	}

	return &SMTPGateway{
		client:        client,
		from:          cfg.SMTPFrom,
		readerBaseURL: strings.TrimRight(cfg.ReaderBaseURL, "/"),
	}, nil
}

/*
SendReaderInvitation renders and delivers one invitation email.

Description: Builds the reader URL from the capability token, renders a
plain-text body, and performs a single atomic SMTP transaction. Any failure
(bad address, relay refusal, timeout) is returned to the caller; nothing is
retried here.

Parameters:
  - ctx: context.Context bounding the SMTP dial and transaction
  - invitation: ReaderInvitation payload

Returns:
  - error: Delivery failure, atomic per call
*/
func (gateway *SMTPGateway) SendReaderInvitation(ctx context.Context, invitation ReaderInvitation) error {

	message := mail.NewMsg()
	if err := message.From(gateway.from); err != nil {
		return fmt.Errorf("mailer: invalid sender address: %w", err)
	}
	if err := message.To(invitation.ReaderEmail); err != nil {
		return fmt.Errorf("mailer: invalid recipient address: %w", err)
	}

	message.Subject(fmt.Sprintf("%s invited you to beta-read \"%s\"", invitation.AuthorName, invitation.ProjectTitle))
	message.SetBodyString(mail.TypeTextPlain, gateway.renderBody(invitation))

	if err := gateway.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("mailer: failed to send invitation to %s: %w", invitation.ReaderEmail, err)
	}

	return nil
}

// renderBody produces the plain-text invitation email body.
func (gateway *SMTPGateway) renderBody(invitation ReaderInvitation) string {
	var body strings.Builder

	fmt.Fprintf(&body, "Hi %s,\n\n", invitation.ReaderName)
	fmt.Fprintf(&body, "%s has invited you to beta-read \"%s\".\n\n", invitation.AuthorName, invitation.ProjectTitle)

	if invitation.InvitationMessage != "" {
		fmt.Fprintf(&body, "%s\n\n", invitation.InvitationMessage)
	}

	if len(invitation.ChapterNames) > 0 {
		body.WriteString("You have access to:\n")
		for _, name := range invitation.ChapterNames {
			fmt.Fprintf(&body, "  - %s\n", name)
		}
		body.WriteString("\n")
	}

	fmt.Fprintf(&body, "Start reading here:\n%s/beta/%s\n\n", gateway.readerBaseURL, invitation.AccessToken)
	fmt.Fprintf(&body, "This link expires on %s.\n", invitation.ExpiresAt.Format("January 2, 2006"))

	return body.String()
}
