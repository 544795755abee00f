package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "MfKQ9r8GKYqrTwjUPD8ILPZIo2LaLaSw" // raw key material

func testSecret() string {
	return "whsec_" + base64.StdEncoding.EncodeToString([]byte(testKey))
}

func sign(t *testing.T, id string, ts time.Time, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(testKey))
	fmt.Fprintf(mac, "%s.%d.", id, ts.Unix())
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func validHeaders(t *testing.T, body []byte, now time.Time) SignatureHeaders {
	t.Helper()
	return SignatureHeaders{
		ID:        "msg_123",
		Timestamp: fmt.Sprintf("%d", now.Unix()),
		Signature: sign(t, "msg_123", now, body),
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"user.created","data":{"id":"user_1"}}`)
	now := time.Now()

	t.Run("accepts a valid signature", func(t *testing.T) {
		require.NoError(t, verifySignature(testSecret(), validHeaders(t, body, now), body, now))
	})

	t.Run("accepts any matching entry among several", func(t *testing.T) {
		headers := validHeaders(t, body, now)
		headers.Signature = "v1,Zm9yZWlnbktleQ== " + headers.Signature
		require.NoError(t, verifySignature(testSecret(), headers, body, now))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		err := verifySignature(testSecret(), validHeaders(t, body, now), []byte(`{"type":"user.deleted"}`), now)
		assert.Error(t, err)
	})

	t.Run("rejects a stale timestamp", func(t *testing.T) {
		old := now.Add(-10 * time.Minute)
		err := verifySignature(testSecret(), validHeaders(t, body, old), body, now)
		assert.Error(t, err)
	})

	t.Run("rejects a future timestamp", func(t *testing.T) {
		future := now.Add(10 * time.Minute)
		err := verifySignature(testSecret(), validHeaders(t, body, future), body, now)
		assert.Error(t, err)
	})

	t.Run("rejects missing headers", func(t *testing.T) {
		err := verifySignature(testSecret(), SignatureHeaders{}, body, now)
		assert.Error(t, err)
	})

	t.Run("ignores unknown signature versions", func(t *testing.T) {
		headers := validHeaders(t, body, now)
		headers.Signature = "v2," + headers.Signature[len("v1,"):]
		err := verifySignature(testSecret(), headers, body, now)
		assert.Error(t, err)
	})
}
