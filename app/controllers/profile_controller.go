package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/launch6/linkinbio-sub000/app/models"
	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/plans"
	"github.com/launch6/linkinbio-sub000/internal/pkg/profilectx"
	"github.com/launch6/linkinbio-sub000/internal/pkg/sanitize"
	"github.com/launch6/linkinbio-sub000/internal/pkg/token"
)

const slugRetries = 3

type createProfileRequest struct {
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
}

// HandleCreateProfile mints a new profile: a fresh edit token (returned
// exactly once, here) and a unique public slug derived from the requested
// name.
func HandleCreateProfile(c *fiber.Ctx) error {
	var req createProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	editToken, err := token.NewEditToken()
	if err != nil {
		log.Printf("failed to mint edit token: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create profile"})
	}

	repos := repository.GetGlobalRepositories()

	base := req.Slug
	if base == "" {
		base = req.DisplayName
	}
	slug, err := availableSlug(repos.Profile, token.Slugify(base))
	if err != nil {
		log.Printf("failed to allocate slug: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create profile"})
	}

	profile := &models.Profile{
		EditToken:   editToken,
		Slug:        slug,
		Plan:        string(plans.PlanFree),
		DisplayName: sanitize.ClampText(req.DisplayName, maxNameLen),
		Theme:       sanitize.ThemeBaseline,
		Status:      models.STATUS_ACTIVE,
		Links:       models.EncodeLinks(nil),
		Social:      models.EncodeSocial(nil),
	}
	if err := profile.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}
	if err := repos.Profile.Create(profile); err != nil {
		log.Printf("failed to create profile: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"edit_token": editToken,
		"slug":       slug,
		"plan":       profile.Plan,
	})
}

// availableSlug retries with random suffixes until the slug is free.
func availableSlug(repo repository.ProfileRepository, base string) (string, error) {
	candidate := base
	for i := 0; i < slugRetries; i++ {
		taken, err := repo.SlugExists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate, err = token.WithSuffix(base)
		if err != nil {
			return "", err
		}
	}
	return candidate, nil
}

// HandleGetOwnProfile returns the authenticated creator's full profile and
// catalog. The middleware already applied the lazy plan expiry step.
func HandleGetOwnProfile(c *fiber.Ctx) error {
	profile := profilectx.Get(c)
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	repos := repository.GetGlobalRepositories()
	products, err := repos.Product.ListByProfileID(profile.ID)
	if err != nil {
		log.Printf("failed to load products for profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load products"})
	}

	limits := plans.LimitsFor(plans.Normalize(profile.Plan))
	return c.JSON(fiber.Map{
		"profile":  profile,
		"products": products,
		"limits": fiber.Map{
			"max_links":              limits.MaxLinks,
			"max_products":           limits.MaxProducts,
			"max_images_per_product": limits.MaxImagesPerProduct,
			"email_capture":          limits.EmailCapture,
			"analytics":              limits.Analytics,
			"remove_branding":        limits.RemoveBranding,
			"custom_domain":          limits.CustomDomain,
		},
		"klaviyo_list_id": profile.KlaviyoListID,
	})
}

type updateProfileRequest struct {
	DisplayName    *string        `json:"display_name"`
	Bio            *string        `json:"bio"`
	AvatarURL      *string        `json:"avatar_url"`
	Theme          any            `json:"theme"`
	Social         map[string]any `json:"social"`
	Links          *[]models.Link `json:"links"`
	CollectEmail   *bool          `json:"collect_email"`
	KlaviyoListID  *string        `json:"klaviyo_list_id"`
	KlaviyoEnabled *bool          `json:"klaviyo_enabled"`
}

// HandleUpdateProfile applies a partial update to the authenticated
// profile. Every incoming value crosses the sanitization boundary and the
// plan quotas before anything is persisted.
func HandleUpdateProfile(c *fiber.Ctx) error {
	profile := profilectx.Get(c)
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	plan := plans.Normalize(profile.Plan)
	columns := map[string]any{}

	if req.DisplayName != nil {
		columns["display_name"] = sanitize.ClampText(*req.DisplayName, maxNameLen)
	}
	if req.Bio != nil {
		columns["bio"] = sanitize.ClampText(*req.Bio, maxBioLen)
	}
	if req.AvatarURL != nil {
		columns["avatar_url"] = sanitize.ImageSrc(*req.AvatarURL)
	}
	if req.Theme != nil {
		columns["theme"] = sanitize.Theme(req.Theme)
	}
	if req.Social != nil {
		columns["social"] = models.EncodeSocial(sanitize.Social(req.Social))
	}
	if req.Links != nil {
		links := make([]models.Link, 0, len(*req.Links))
		for _, link := range *req.Links {
			href := sanitize.LinkHref(link.URL)
			if href == "" {
				// Entries without a usable URL are dropped, not rejected.
				continue
			}
			links = append(links, models.Link{
				Label: sanitize.ClampText(link.Label, maxLabelLen),
				URL:   href,
			})
		}
		if err := plans.ValidateLinks(plan, len(links)); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quota_exceeded", "message": err.Error()})
		}
		columns["links"] = models.EncodeLinks(links)
	}
	if req.CollectEmail != nil {
		if err := plans.ValidateEmailCapture(plan, *req.CollectEmail); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quota_exceeded", "message": err.Error()})
		}
		columns["collect_email"] = *req.CollectEmail
	}
	if req.KlaviyoListID != nil {
		columns["klaviyo_list_id"] = sanitize.ClampText(*req.KlaviyoListID, 100)
	}
	if req.KlaviyoEnabled != nil {
		columns["klaviyo_enabled"] = *req.KlaviyoEnabled
	}

	if len(columns) == 0 {
		return c.JSON(fiber.Map{"updated": false})
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Profile.UpdateColumns(profile.ID, columns); err != nil {
		log.Printf("failed to update profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"updated": true})
}

type productPayload struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	PriceURL     string   `json:"price_url"`
	ImageURL     string   `json:"image_url"`
	Images       []string `json:"images"`
	DropStartsAt string   `json:"drop_starts_at"`
	DropEndsAt   string   `json:"drop_ends_at"`
	UnitsTotal   *int     `json:"units_total"`
	UnitsLeft    *int     `json:"units_left"`
	Published    *bool    `json:"published"`
}

type replaceProductsRequest struct {
	Products []productPayload `json:"products"`
}

// HandleReplaceProducts substitutes the whole catalog in one transaction.
// Single-field stock mutation stays with the reservation path; this is the
// only bulk write.
func HandleReplaceProducts(c *fiber.Ctx) error {
	profile := profilectx.Get(c)
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	var req replaceProductsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	plan := plans.Normalize(profile.Plan)

	products := make([]models.Product, 0, len(req.Products))
	quota := make([]plans.ProductImages, 0, len(req.Products))
	for _, payload := range req.Products {
		images := make([]string, 0, len(payload.Images))
		for _, img := range payload.Images {
			images = append(images, sanitize.ImageSrc(img))
		}

		publicID := strings.TrimSpace(payload.ID)
		if publicID == "" {
			publicID = uuid.NewString()
		}

		product := models.Product{
			PublicID:     publicID,
			Title:        sanitize.ClampText(payload.Title, maxTitleLen),
			PriceURL:     sanitize.PriceHref(payload.PriceURL),
			ImageURL:     sanitize.ImageSrc(payload.ImageURL),
			Images:       models.EncodeImages(images),
			DropStartsAt: parseTimePtr(payload.DropStartsAt),
			DropEndsAt:   parseTimePtr(payload.DropEndsAt),
			UnitsTotal:   payload.UnitsTotal,
			UnitsLeft:    payload.UnitsLeft,
			Published:    payload.Published,
		}
		product.ClampStock()

		products = append(products, product)
		quota = append(quota, plans.ProductImages{ProductTitle: product.Title, Images: images})
	}

	if err := plans.ValidateProducts(plan, quota); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quota_exceeded", "message": err.Error()})
	}

	repos := repository.GetGlobalRepositories()
	if err := repos.Product.ReplaceAll(profile.ID, products); err != nil {
		log.Printf("failed to replace products for profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to save products"})
	}

	saved, err := repos.Product.ListByProfileID(profile.ID)
	if err != nil {
		log.Printf("failed to reload products for profile %d: %v", profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load products"})
	}
	return c.JSON(fiber.Map{"products": saved})
}

type restoreStockRequest struct {
	UnitsLeft *int `json:"units_left"`
}

// HandleRestoreStock sets units_left to an explicit value for one product:
// manual stock entry or compensation after failed fulfillment.
func HandleRestoreStock(c *fiber.Ctx) error {
	profile := profilectx.Get(c)
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Profile not found"})
	}

	var req restoreStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.UnitsLeft == nil || *req.UnitsLeft < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "units_left must be a non-negative integer"})
	}

	productID := c.Params("productID")
	repos := repository.GetGlobalRepositories()
	result, err := repos.Product.RestoreUnit(profile.EditToken, productID, *req.UnitsLeft)
	if err != nil {
		log.Printf("failed to restore stock for profile %d product %s: %v", profile.ID, productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update stock"})
	}
	if result.Matched == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Product not found"})
	}

	product, err := repos.Product.GetByPublicID(profile.ID, productID)
	if err != nil {
		log.Printf("failed to reload product %s for profile %d: %v", productID, profile.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load product"})
	}

	return c.JSON(fiber.Map{
		"matched":  result.Matched,
		"modified": result.Modified,
		"product":  product,
	})
}
