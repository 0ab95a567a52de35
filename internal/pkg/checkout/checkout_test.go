package checkout

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"

	sig := signPayload(payload, secret)
	if !VerifyWebhookSignature(payload, sig, secret) {
		t.Fatalf("valid signature should verify")
	}
	if !VerifyWebhookSignature(payload, "  "+sig+"  ", secret) {
		t.Fatalf("surrounding whitespace should be tolerated")
	}
	if VerifyWebhookSignature(payload, sig, "other_secret") {
		t.Fatalf("wrong secret should fail")
	}
	if VerifyWebhookSignature([]byte(`tampered`), sig, secret) {
		t.Fatalf("tampered payload should fail")
	}
	if VerifyWebhookSignature(payload, "not-hex", secret) {
		t.Fatalf("non-hex signature should fail")
	}
	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("empty signature should fail")
	}
	if VerifyWebhookSignature(payload, sig, "") {
		t.Fatalf("empty secret should fail")
	}
}

func TestParseWebhook(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "metadata": {"edit_token": "tok_abc", "product_id": "p1"}}}
	}`)

	ev, err := ParseWebhook(payload)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ev.ID != "evt_1" || ev.Type != EventCheckoutCompleted {
		t.Fatalf("unexpected envelope: %+v", ev)
	}

	token, productID, ok := ev.PurchaseMetadata()
	if !ok || token != "tok_abc" || productID != "p1" {
		t.Fatalf("metadata resolution failed: %q %q %v", token, productID, ok)
	}
}

func TestParseWebhookRejectsMalformed(t *testing.T) {
	if _, err := ParseWebhook([]byte(`not json`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := ParseWebhook([]byte(`{"type":"x"}`)); err == nil {
		t.Fatalf("expected error for missing event id")
	}
	if _, err := ParseWebhook([]byte(`{"id":"evt_1"}`)); err == nil {
		t.Fatalf("expected error for missing event type")
	}
}

func TestPurchaseMetadataMissing(t *testing.T) {
	ev, err := ParseWebhook([]byte(`{"id":"evt_2","type":"checkout.session.completed","data":{"object":{"metadata":{}}}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, _, ok := ev.PurchaseMetadata(); ok {
		t.Fatalf("missing metadata should not resolve")
	}
}
