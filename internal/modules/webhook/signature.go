package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampTolerance bounds how old (or how far in the future) a signed
// webhook may be before it is rejected as a possible replay.
const timestampTolerance = 5 * time.Minute

// verifySignature checks a provider webhook signature. The scheme signs
// "<id>.<timestamp>.<body>" with HMAC-SHA256 using the base64 part of the
// "whsec_..." secret; the signature header carries space-separated
// "v1,<base64>" entries, any one of which may match (key rotation).
func verifySignature(secret string, headers SignatureHeaders, body []byte, now time.Time) error {
	if headers.ID == "" || headers.Timestamp == "" || headers.Signature == "" {
		return fmt.Errorf("missing signature headers")
	}

	ts, err := strconv.ParseInt(headers.Timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid signature timestamp: %w", err)
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > timestampTolerance || age < -timestampTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("invalid webhook secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%s.%s.", headers.ID, headers.Timestamp)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Fields(headers.Signature) {
		version, sig, found := strings.Cut(entry, ",")
		if !found || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}

// SignatureHeaders are the three webhook signature headers.
type SignatureHeaders struct {
	ID        string
	Timestamp string
	Signature string
}
