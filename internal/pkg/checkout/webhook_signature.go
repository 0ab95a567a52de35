package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature checks the hex-encoded HMAC-SHA256 signature the
// provider sends over the raw payload. Comparison is constant-time. Caller
// identifiers in the payload are never trusted for authentication; this
// signature is the sole authenticator of the purchase event.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}
