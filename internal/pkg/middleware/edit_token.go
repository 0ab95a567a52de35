package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/plans"
	"github.com/launch6/linkinbio-sub000/internal/pkg/profilectx"
)

// EditTokenAuth authenticates requests carrying the profile edit token.
// Missing, unknown and mismatched tokens all read as not-found so the
// response never confirms whether a token exists.
func EditTokenAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractEditToken(c)
		if token == "" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
		}

		repo := repository.GetGlobalFactory().GetProfileRepository()
		profile, err := repo.GetByEditToken(token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
			}
			log.Printf("edit token lookup failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Profile lookup failed"})
		}

		applyPlanExpiry(repo, profile)

		profilectx.Set(c, profile)
		return c.Next()
	}
}

// applyPlanExpiry steps an expired plan down one tier and clears the expiry.
// The transition is lazy and read-triggered; there is no background job.
// The column update is best-effort: the stepped-down view is already
// applied in memory for this request.
func applyPlanExpiry(repo repository.ProfileRepository, profile *models.Profile) {
	if profile.PlanExpiresAt == nil || time.Now().Before(*profile.PlanExpiresAt) {
		return
	}

	downgraded := plans.StepDown(plans.Normalize(profile.Plan))
	profile.Plan = string(downgraded)
	profile.PlanExpiresAt = nil

	err := repo.UpdateColumns(profile.ID, map[string]any{
		"plan":            string(downgraded),
		"plan_expires_at": nil,
	})
	if err != nil {
		log.Printf("failed to persist plan downgrade for profile %d: %v", profile.ID, err)
	}
}

func extractEditToken(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get("X-Edit-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
