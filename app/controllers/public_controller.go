package controllers

import (
	"context"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/drops"
	"github.com/launch6/linkinbio-sub000/internal/pkg/plans"
	"github.com/launch6/linkinbio-sub000/internal/pkg/ratelimit"
	"github.com/launch6/linkinbio-sub000/internal/pkg/sanitize"
)

var slugRe = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{1,78}[a-z0-9])?$`)

const (
	maxTitleLen   = 200
	maxNameLen    = 150
	maxBioLen     = 1000
	maxLabelLen   = 80
	viewDedupeTTL = 30 * time.Second
)

// publicLimiter guards the anonymous endpoints; initialized by the router.
var publicLimiter *ratelimit.Limiter

// SetPublicLimiter wires the limiter the anonymous endpoints use.
func SetPublicLimiter(l *ratelimit.Limiter) {
	publicLimiter = l
}

func getPublicLimiter() *ratelimit.Limiter {
	if publicLimiter == nil {
		publicLimiter = ratelimit.New(nil)
	}
	return publicLimiter
}

// HandleGetPublicProfile serves the anonymous page view: an allow-listed,
// sanitized projection of the profile and its visible products with derived
// availability. Never serves the edit token or any field outside the
// projection.
func HandleGetPublicProfile(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if !slugRe.MatchString(slug) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid slug format"})
	}

	repos := repository.GetGlobalRepositories()
	profile, err := repos.Profile.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
		}
		log.Printf("public profile lookup failed for slug %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load profile"})
	}

	products, err := repos.Product.ListByProfileID(profile.ID)
	if err != nil {
		log.Printf("public product list failed for slug %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load products"})
	}

	if c.Query("track") == "1" && !IsBotUserAgent(c.Get("User-Agent")) {
		recordViewAsync(profile, c.Get("User-Agent"), c.Get("Referer"), clientIP(c))
	}

	return c.JSON(buildPublicView(profile, products, time.Now()))
}

// recordViewAsync appends a page view as a detached task. Failures are
// logged and dropped; the response never waits on or fails with the sink.
func recordViewAsync(profile *models.Profile, ua, ref, ip string) {
	profileID := profile.ID
	slug := profile.Slug
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("view tracking panicked for profile %d: %v", profileID, r)
			}
		}()

		dedupeKey := "view:" + ip + ":" + slug
		if !getPublicLimiter().DedupeOnce(context.Background(), dedupeKey, viewDedupeTTL) {
			return
		}
		event := &models.Event{
			Type:      models.EVENT_PAGE_VIEW,
			ProfileID: profileID,
			Slug:      slug,
			Ref:       sanitize.ClampText(ref, 255),
			UserAgent: sanitize.ClampText(ua, 255),
			IPHash:    AnonymizeIP(ip),
		}
		if err := repository.GetGlobalRepositories().Event.Create(event); err != nil {
			log.Printf("failed to record page view for profile %d: %v", profileID, err)
		}
	}()
}

// buildPublicView assembles the sanitized output projection. Everything in
// it has passed the sanitization boundary; nothing outside the explicit
// field set is serialized.
func buildPublicView(profile *models.Profile, products []models.Product, now time.Time) fiber.Map {
	limits := plans.LimitsFor(plans.Normalize(profile.Plan))

	links := make([]fiber.Map, 0)
	for _, link := range profile.DecodeLinks() {
		href := sanitize.LinkHref(link.URL)
		if href == "" {
			continue
		}
		links = append(links, fiber.Map{
			"label": sanitize.ClampText(link.Label, maxLabelLen),
			"url":   href,
		})
	}

	social := fiber.Map{}
	for platform, href := range profile.DecodeSocial() {
		raw := map[string]any{platform: href}
		for k, v := range sanitize.Social(raw) {
			social[k] = v
		}
	}

	captureActive := profile.EmailCaptureActive() && limits.EmailCapture

	view := fiber.Map{
		"slug":          profile.Slug,
		"display_name":  sanitize.ClampText(profile.DisplayName, maxNameLen),
		"bio":           sanitize.ClampText(profile.Bio, maxBioLen),
		"avatar_url":    sanitize.ImageSrc(profile.AvatarURL),
		"theme":         sanitize.Theme(profile.Theme),
		"social":        social,
		"links":         links,
		"collect_email": captureActive,
		"show_branding": !limits.RemoveBranding,
	}
	// The list id is only exposed while capture actually resolves active.
	if captureActive {
		view["klaviyo_list_id"] = profile.KlaviyoListID
	}

	out := make([]fiber.Map, 0)
	for i := range products {
		p := &products[i]
		if !p.IsPublished() {
			continue
		}
		out = append(out, buildPublicProduct(p, now))
	}
	view["products"] = out

	return view
}

// buildPublicProduct projects one visible product with its derived state.
func buildPublicProduct(p *models.Product, now time.Time) fiber.Map {
	av := drops.Status(p, now)

	images := make([]string, 0)
	for _, img := range p.DecodeImages() {
		if src := sanitize.ImageSrc(img); src != "" {
			images = append(images, src)
		}
	}

	item := fiber.Map{
		"id":           p.PublicID,
		"title":        sanitize.ClampText(p.Title, maxTitleLen),
		"image_url":    sanitize.ImageSrc(p.ImageURL),
		"images":       images,
		"availability": av,
	}
	if av.Purchasable {
		item["price_url"] = sanitize.PriceHref(p.PriceURL)
	}
	if p.DropEndsAt != nil {
		item["drop_ends_at"] = formatTimePtr(p.DropEndsAt)
	}
	if p.DropStartsAt != nil {
		item["drop_starts_at"] = formatTimePtr(p.DropStartsAt)
	}
	if p.UnitsLeft != nil {
		item["units_left"] = *p.UnitsLeft
	}
	if p.UnitsTotal != nil {
		item["units_total"] = *p.UnitsTotal
	}
	return item
}
