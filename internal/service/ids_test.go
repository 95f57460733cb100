package service

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestNewOrderCode(t *testing.T) {
	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

	code, err := newOrderCode(now)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TK-261017-[A-HJ-NP-Z2-9]{6}$`), code)

	orig := randReader
	defer func() { randReader = orig }()

	randReader = bytes.NewReader([]byte{0, 1, 2, 31, 32, 33})
	code, err = newOrderCode(now)
	require.NoError(t, err)
	assert.Equal(t, "TK-261017-ABC9AB", code)

	randReader = failingReader{}
	_, err = newOrderCode(now)
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestNewToken(t *testing.T) {
	a, err := newToken()
	require.NoError(t, err)
	b, err := newToken()
	require.NoError(t, err)

	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_-]+$`), a)
}
