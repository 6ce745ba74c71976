package domain

import "time"

// User is an account created by the sign-up flow.
// EmailOrPhone is stored normalized and is unique, as is Username.
type User struct {
	UserID        string    `json:"id" dynamodbav:"user_id"`
	EmailOrPhone  string    `json:"email_or_phone" dynamodbav:"email_or_phone"`
	Username      string    `json:"username" dynamodbav:"username"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash"`
	FirstName     string    `json:"first_name" dynamodbav:"first_name"`
	LastName      string    `json:"last_name" dynamodbav:"last_name"`
	PhoneNumber   string    `json:"phone_number" dynamodbav:"phone_number"`
	Birthdate     time.Time `json:"birthdate" dynamodbav:"birthdate"`
	EmailVerified bool      `json:"email_verified" dynamodbav:"email_verified"`
	CreatedAt     time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated" dynamodbav:"updated_at"`
}

// RegisterRequest is the complete sign-up form submitted after the last wizard step.
type RegisterRequest struct {
	EmailOrPhone       string `json:"email_or_phone" validate:"required,email_or_phone"`
	Password           string `json:"password" validate:"required,min=8,strong_password"`
	ConfirmPassword    string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName          string `json:"first_name" validate:"required,min=2"`
	LastName           string `json:"last_name" validate:"required,min=2"`
	Username           string `json:"username" validate:"required,username"`
	PhoneNumber        string `json:"phone_number" validate:"required,phone"`
	Birthdate          string `json:"birthdate" validate:"required,birthdate"` // YYYY-MM-DD
	VerificationTicket string `json:"verification_ticket"`
}
