package controllers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/plans"
	"github.com/launch6/linkinbio-sub000/internal/pkg/profilectx"
	"github.com/launch6/linkinbio-sub000/internal/pkg/ratelimit"
	"github.com/launch6/linkinbio-sub000/internal/pkg/sanitize"
	"github.com/launch6/linkinbio-sub000/internal/pkg/statistics"
)

const (
	maxRefLen       = 255
	maxUserAgentLen = 255
)

var (
	eventBurstWindow     = ratelimit.Window{Name: "events:ip:burst", Limit: 10, Per: 10 * time.Second}
	eventSustainedWindow = ratelimit.Window{Name: "events:ip:sustained", Limit: 120, Per: 10 * time.Minute}
	eventProfileWindow   = ratelimit.Window{Name: "events:profile", Limit: 300, Per: time.Hour}
)

type trackEventRequest struct {
	Type      string `json:"type"`
	Slug      string `json:"slug"`
	ProductID string `json:"product_id"`
	Ref       string `json:"ref"`
}

// HandleTrackEvent ingests one analytics event from the public page. The
// sink is fire-and-forget from the visitor's point of view: 202 on accept,
// 202 on silent drop, 429 only when the limiter denies.
func HandleTrackEvent(c *fiber.Ctx) error {
	var req trackEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	eventType := strings.ToLower(strings.TrimSpace(req.Type))
	if !models.IsValidEventType(eventType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Unknown event type"})
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugRe.MatchString(slug) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid slug"})
	}

	repos := repository.GetGlobalRepositories()
	profile, err := repos.Profile.GetBySlug(slug)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	ip := clientIP(c)
	limiter := getPublicLimiter()

	res := limiter.Allow(c.Context(), ip, eventBurstWindow, eventSustainedWindow)
	if res.Allowed {
		profileKey := fmt.Sprintf("%d:%s", profile.ID, eventType)
		res = limiter.Allow(c.Context(), profileKey, eventProfileWindow)
	}
	if !res.Allowed {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error":       "rate_limited",
			"message":     "Too many events",
			"retry_after": res.RetryAfter,
		})
	}

	if IsBotUserAgent(c.Get(fiber.HeaderUserAgent)) {
		// Bots are acknowledged but never stored.
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
	}

	if eventType == models.EVENT_PAGE_VIEW {
		dedupeKey := "view:" + ip + ":" + slug + ":" + req.ProductID
		if !limiter.DedupeOnce(c.Context(), dedupeKey, viewDedupeTTL) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
		}
	}

	event := &models.Event{
		Type:      eventType,
		ProfileID: profile.ID,
		Slug:      slug,
		ProductID: sanitize.ClampText(req.ProductID, 64),
		Ref:       sanitize.ClampText(req.Ref, maxRefLen),
		UserAgent: sanitize.ClampText(c.Get(fiber.HeaderUserAgent), maxUserAgentLen),
		IPHash:    AnonymizeIP(ip),
	}
	if err := repos.Event.Create(event); err != nil {
		// Analytics loss is acceptable; the visitor never sees it.
		log.Printf("failed to store %s event for profile %d: %v", eventType, profile.ID, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
}

// HandleGetProfileStats returns the aggregated event rollup for the
// authenticated profile. Gated on the plan's analytics capability.
func HandleGetProfileStats(c *fiber.Ctx) error {
	profile := profilectx.Get(c)
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	limits := plans.LimitsFor(plans.Normalize(profile.Plan))
	if !limits.Analytics {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Analytics requires a paid plan"})
	}

	rollup, err := statistics.Load(repository.GetGlobalRepositories(), profile.ID)
	if err != nil {
		log.Printf("failed to load stats for profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load stats"})
	}

	return c.JSON(rollup)
}
