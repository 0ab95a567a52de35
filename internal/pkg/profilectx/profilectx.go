package profilectx

import (
	"github.com/gofiber/fiber/v2"

	"github.com/launch6/linkinbio-sub000/app/models"
)

// LocalsKey is the fiber Locals slot the edit-token middleware fills.
const LocalsKey = "PROFILE_CONTEXT"

// Get retrieves the authenticated profile from the fiber context. Nil when
// the request did not pass the edit-token middleware.
func Get(c *fiber.Ctx) *models.Profile {
	if p, ok := c.Locals(LocalsKey).(*models.Profile); ok {
		return p
	}
	return nil
}

// Set stores the authenticated profile on the fiber context.
func Set(c *fiber.Ctx, profile *models.Profile) {
	c.Locals(LocalsKey, profile)
}
