package activation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signup-api/internal/application/verification"
	"github.com/signup-api/internal/domain"
)

// SendRequest is the body of a send-activation call. To is an email address or a phone number.
type SendRequest struct {
	To string `json:"to" validate:"required,email_or_phone"`
}

// CheckRequest is the body of a verify-code call.
type CheckRequest struct {
	Email string `json:"email" validate:"required,email_or_phone"`
	Code  string `json:"code" validate:"required"`
}

// CheckResult reports a verification outcome. Ticket is set on a match when tickets are enabled.
type CheckResult struct {
	Matched bool
	Ticket  string
}

type Service interface {
	SendActivation(ctx context.Context, to string) error
	CheckCode(ctx context.Context, recipient, code string) (CheckResult, error)
}

type mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type ticketSigner interface {
	Sign(recipient string) (string, error)
}

type ServiceDeps struct {
	Codes     verification.Service
	Mailer    mailer
	SMSSender smsSender    // optional; phone recipients are rejected without it
	Tickets   ticketSigner // optional
}

type service struct {
	codes     verification.Service
	mailer    mailer
	smsSender smsSender
	tickets   ticketSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		codes:     deps.Codes,
		mailer:    deps.Mailer,
		smsSender: deps.SMSSender,
		tickets:   deps.Tickets,
	}
}

// SendActivation issues a code and delivers it. A delivery failure is wrapped in
// domain.ErrDispatch; the issued code stays valid so a later resend or verify still works.
func (s *service) SendActivation(ctx context.Context, to string) error {
	recipient := domain.NormalizeRecipient(to)
	isEmail := domain.IsEmailRecipient(recipient)
	if !isEmail && s.smsSender == nil {
		return fmt.Errorf("sms delivery is not configured: %w", domain.ErrBadRequest)
	}

	code, err := s.codes.Issue(ctx, recipient)
	if err != nil {
		return err
	}

	if isEmail {
		err = s.mailer.SendEmail(ctx, recipient, subject, emailBody(code))
	} else {
		err = s.smsSender.SendSMS(ctx, recipient, smsBody(code))
	}
	if err != nil {
		slog.Error("activation dispatch failed", "recipient", recipient, "err", err)
		return fmt.Errorf("send activation code: %v: %w", err, domain.ErrDispatch)
	}
	return nil
}

func (s *service) CheckCode(ctx context.Context, recipient, code string) (CheckResult, error) {
	matched, err := s.codes.Verify(ctx, recipient, code)
	if err != nil {
		return CheckResult{}, err
	}
	res := CheckResult{Matched: matched}
	if matched && s.tickets != nil {
		res.Ticket, err = s.tickets.Sign(recipient)
		if err != nil {
			return CheckResult{}, fmt.Errorf("sign verification ticket: %w", err)
		}
	}
	return res, nil
}
