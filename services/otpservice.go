package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"teamhub/model"
)

const CodeLength = 6

// MaxCodeAttempts is the number of wrong guesses after which a pending code
// is discarded.
const MaxCodeAttempts = 5

// Purposes of an emailed code.
const (
	PurposeVerify = "verify"
	PurposeReset  = "resetpassword"
)

var (
	ErrCodeMissing  = errors.New("no code has been issued")
	ErrCodeExpired  = errors.New("code has expired")
	ErrCodeMismatch = errors.New("invalid code")
	ErrCodeAttempts = errors.New("too many invalid attempts")
)

func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	var otp strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		otp.WriteByte(byte('0' + n.Int64()))
	}
	return otp.String(), nil
}

// IssueCode replaces any pending code in state with a fresh one and returns
// the plain code for delivery.
func IssueCode(state *model.CodeState, now time.Time, ttl time.Duration, cost int) (string, error) {
	code, err := GenerateOTP(CodeLength)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	state.CodeHash = string(hash)
	state.ExpiresAt = now.Add(ttl)
	state.SentAt = now
	state.Attempts = 0
	return code, nil
}

// CheckCode compares code with the pending one. A mismatch is counted in
// state; on the MaxCodeAttempts-th mismatch the code is cleared and
// ErrCodeAttempts returned. Callers must persist state after either error.
func CheckCode(state *model.CodeState, code string, now time.Time) error {
	if !state.Pending() {
		return ErrCodeMissing
	}
	if now.After(state.ExpiresAt) {
		return ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(state.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		state.Attempts++
		if state.Attempts >= MaxCodeAttempts {
			state.Clear()
			return ErrCodeAttempts
		}
		return ErrCodeMismatch
	}
	return nil
}

// AttemptCounted reports whether err from CheckCode changed the code state.
func AttemptCounted(err error) bool {
	return errors.Is(err, ErrCodeMismatch) || errors.Is(err, ErrCodeAttempts)
}

// CooldownRemaining returns how long the caller must wait before another
// code may be sent, or zero.
func CooldownRemaining(state model.CodeState, now time.Time, cooldown time.Duration) time.Duration {
	if state.SentAt.IsZero() {
		return 0
	}
	if wait := state.SentAt.Add(cooldown).Sub(now); wait > 0 {
		return wait
	}
	return 0
}

func CodeEmail(purpose, code string, ttl time.Duration) (subject, body string) {
	var intro string
	switch purpose {
	case PurposeReset:
		subject = "Your TeamHub password reset code"
		intro = "Use the code below to reset your password."
	default:
		subject = "Verify your TeamHub email"
		intro = "Use the code below to verify your email address."
	}
	body = `<table width="600" cellpadding="0" cellspacing="0" border="0" style="font-family:Arial">
  <tr><td align="center" bgcolor="#eeeeee"><h1>TeamHub</h1></td></tr>
  <tr><td align="center" style="font-size:16px;padding:24px">` + intro + `</td></tr>
  <tr><td align="center" style="font-size:18px;color:#c00">Code : <strong style="color:#000">` + code + `</strong></td></tr>
  <tr><td align="center" style="font-size:13px;padding:24px">This code expires in ` + ttl.String() + `.</td></tr>
</table>`
	return subject, body
}
