package service

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"
)

// codeAlphabet drops 0/O and 1/I so codes survive being read aloud or retyped.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var randReader io.Reader = rand.Reader

// newOrderCode returns a customer-facing code such as TK-261017-7QH2XM.
func newOrderCode(now time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("generate order code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return "TK-" + now.Format("060102") + "-" + string(buf), nil
}

// newToken returns an unguessable URL-safe token for purchase and refund links.
func newToken() (string, error) {
	buf := make([]byte, 18)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
