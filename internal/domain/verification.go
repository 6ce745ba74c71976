package domain

import (
	"strings"
	"time"
)

// PendingVerification is the single outstanding one-time code for a recipient.
// PK: recipient (normalized). ExpiresAt is a Unix timestamp used as DynamoDB TTL;
// zero means the code never expires.
type PendingVerification struct {
	Recipient string `json:"recipient" dynamodbav:"recipient"`
	Code      string `json:"code" dynamodbav:"code"`
	IssuedAt  int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt int64  `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// Expired reports whether the code is past its expiry at now.
func (p *PendingVerification) Expired(now time.Time) bool {
	return p.ExpiresAt != 0 && now.Unix() >= p.ExpiresAt
}

// NormalizeRecipient trims surrounding whitespace and lowercases the identifier.
// Phone numbers are reduced to their dialable form so every formatting of one number
// shares a key. Issue and verify both key the store by this value.
func NormalizeRecipient(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || IsEmailRecipient(s) {
		return s
	}
	return NormalizePhone(s)
}

// NormalizePhone strips formatting from a phone number, keeping a leading '+' and the digits.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if (r == '+' && i == 0) || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsEmailRecipient reports whether the identifier is an email address rather than a phone number.
func IsEmailRecipient(recipient string) bool {
	return strings.Contains(recipient, "@")
}
