package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}

// generateReferralCode returns an 8-character shareable code.
func generateReferralCode() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	code := make([]byte, 8)
	for i := range code {
		code[i] = referralAlphabet[int(b[i])%len(referralAlphabet)]
	}
	return string(code)
}

// generateTicketNumber returns a human-readable ticket number, unique per
// issue thanks to the millisecond timestamp plus random suffix.
func generateTicketNumber(eventShort string) string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "LT" + eventShort + "-" + ts + "-" + randomHex(3)
}

// generatePaymentRef returns a reference for a manually submitted payment.
func generatePaymentRef() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return "PAY" + ts + randomHex(4)
}
