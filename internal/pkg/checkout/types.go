// Package checkout consumes the payment provider's webhook: signature
// verification, envelope parsing and metadata resolution. Checkout and
// portal session creation stay with the provider's hosted surfaces; this
// service only reconciles state from the signed callback.
package checkout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventCheckoutCompleted is the provider signal for a settled purchase.
const EventCheckoutCompleted = "checkout.session.completed"

// Metadata keys the provider echoes back from session creation.
const (
	MetadataEditToken = "edit_token"
	MetadataProductID = "product_id"
)

// WebhookEvent is the provider's event envelope. Only the identifier, type
// and session metadata are consumed.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// ParseWebhook decodes a webhook payload. An envelope without an event id
// or type is malformed; everything else is acceptable (unhandled types are
// acknowledged and ignored downstream).
func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" {
		return nil, fmt.Errorf("webhook payload is missing event id or type")
	}
	return &ev, nil
}

// PurchaseMetadata resolves the edit token and product id a completed
// checkout refers to.
func (e *WebhookEvent) PurchaseMetadata() (editToken, productID string, ok bool) {
	editToken = strings.TrimSpace(e.Data.Object.Metadata[MetadataEditToken])
	productID = strings.TrimSpace(e.Data.Object.Metadata[MetadataProductID])
	return editToken, productID, editToken != "" && productID != ""
}
