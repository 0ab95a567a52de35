package controllers

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/klaviyo"
	"github.com/launch6/linkinbio-sub000/internal/pkg/plans"
	"github.com/launch6/linkinbio-sub000/internal/pkg/ratelimit"
)

const maxEmailLen = 200

var (
	subscribeMinuteWindow = ratelimit.Window{Name: "subscribe:ip:minute", Limit: 5, Per: time.Minute}
	subscribeHourWindow   = ratelimit.Window{Name: "subscribe:ip:hour", Limit: 20, Per: time.Hour}

	emailValidate = validator.New()

	klaviyoClient     *klaviyo.Client
	klaviyoClientOnce sync.Once
)

func getKlaviyoClient() *klaviyo.Client {
	klaviyoClientOnce.Do(func() {
		klaviyoClient = klaviyo.NewClient()
	})
	return klaviyoClient
}

// SetKlaviyoClient replaces the provider client, for tests.
func SetKlaviyoClient(c *klaviyo.Client) {
	klaviyoClientOnce.Do(func() {})
	klaviyoClient = c
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// HandleSubscribe captures one email signup for a public profile. The
// signup is only accepted when the creator enabled capture and their plan
// still carries the capability.
func HandleSubscribe(c *fiber.Ctx) error {
	slug := strings.ToLower(strings.TrimSpace(c.Params("slug")))
	if !slugRe.MatchString(slug) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid slug"})
	}

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(email) > maxEmailLen || emailValidate.Var(email, "email") != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid email address"})
	}

	res := getPublicLimiter().Allow(c.Context(), clientIP(c), subscribeMinuteWindow, subscribeHourWindow)
	if !res.Allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "rate_limited",
			"message":     "Too many signups",
			"retry_after": res.RetryAfter,
		})
	}

	repos := repository.GetGlobalRepositories()
	profile, err := repos.Profile.GetBySlug(slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	limits := plans.LimitsFor(plans.Normalize(profile.Plan))
	if !profile.EmailCaptureActive() || !limits.EmailCapture {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Email capture is not enabled for this profile"})
	}

	if profile.KlaviyoEnabled && profile.KlaviyoListID != "" {
		client := getKlaviyoClient()
		if client.Enabled() {
			if err := client.Subscribe(c.Context(), profile.KlaviyoListID, email); err != nil {
				log.Printf("klaviyo subscribe failed for profile %d: %v", profile.ID, err)
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "bad_gateway", "message": "Signup provider is unavailable"})
			}
		}
	}

	if err := repos.Subscriber.Upsert(profile.ID, email); err != nil {
		log.Printf("failed to store subscriber for profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to store signup"})
	}

	return c.JSON(fiber.Map{"subscribed": true})
}
