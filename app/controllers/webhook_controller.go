package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/checkout"
	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
)

const (
	webhookProvider        = "checkout"
	webhookSignatureHeader = "X-Webhook-Signature"
)

// HandlePaymentWebhook consumes the payment provider's callback. Once the
// signature checks out the provider always gets a 200: the money already
// moved, and any bookkeeping failure on our side is ours to reconcile, not
// theirs to retry forever.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("PAYMENT_WEBHOOK_SECRET", "")
	if secret == "" {
		log.Printf("payment webhook received but PAYMENT_WEBHOOK_SECRET is not set")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Webhook is not configured"})
	}

	payload := c.Body()
	if !checkout.VerifyWebhookSignature(payload, c.Get(webhookSignatureHeader), secret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid signature"})
	}

	event, err := checkout.ParseWebhook(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Malformed webhook payload"})
	}

	repos := repository.GetGlobalRepositories()

	record := &models.WebhookEvent{
		Provider:        webhookProvider,
		ProviderEventID: event.ID,
		EventType:       event.Type,
		PayloadJSON:     string(payload),
		SignatureValid:  true,
	}
	first, err := repos.WebhookEvent.RecordOnce(record)
	if err != nil {
		log.Printf("RECONCILE: failed to record webhook event %s: %v", event.ID, err)
		return c.JSON(fiber.Map{"received": true})
	}
	if !first {
		// Redelivery of an event we already actioned.
		return c.JSON(fiber.Map{"received": true, "duplicate": true})
	}

	if event.Type != checkout.EventCheckoutCompleted {
		markProcessed(repos.WebhookEvent, record.ID, "")
		return c.JSON(fiber.Map{"received": true, "ignored": true})
	}

	editToken, productID, ok := event.PurchaseMetadata()
	if !ok {
		log.Printf("completed checkout %s carries no purchase metadata", event.ID)
		markProcessed(repos.WebhookEvent, record.ID, "missing purchase metadata")
		return c.JSON(fiber.Map{"received": true})
	}

	result, err := repos.Product.ReserveUnit(editToken, productID)
	switch {
	case err != nil:
		log.Printf("RECONCILE: stock decrement failed for event %s product %s: %v", event.ID, productID, err)
		markProcessed(repos.WebhookEvent, record.ID, "stock decrement failed: "+err.Error())
	case result.Modified == 0:
		// Settled payment against a product with no decrementable stock:
		// unknown id, stale token, unlimited stock or already sold out.
		log.Printf("RECONCILE: settled event %s matched no decrementable stock for product %s", event.ID, productID)
		markProcessed(repos.WebhookEvent, record.ID, "no decrementable stock matched")
	default:
		markProcessed(repos.WebhookEvent, record.ID, "")
	}

	return c.JSON(fiber.Map{"received": true})
}

func markProcessed(repo repository.WebhookEventRepository, id uint, processingError string) {
	if err := repo.MarkProcessed(id, processingError); err != nil {
		log.Printf("failed to mark webhook event %d processed: %v", id, err)
	}
}
