// Package plans holds the closed plan tier set, the numeric quotas and
// capability flags each tier carries, and the payload quota validation the
// write API applies before persisting.
package plans

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

type Plan string

const (
	PlanFree    Plan = "free"
	PlanStarter Plan = "starter"
	// PlanPro is the hidden promotional tier; it is never self-served and
	// only ever assigned manually or by a provider sync.
	PlanPro Plan = "pro"
)

// Limits carries the quotas and capability flags of one tier.
type Limits struct {
	MaxLinks            int
	MaxProducts         int
	MaxImagesPerProduct int
	EmailCapture        bool
	Analytics           bool
	RemoveBranding      bool
	CustomDomain        bool
}

// allowedImageExtensions is the extension allow-list for product images.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// Normalize maps any stored plan string onto the closed tier set.
func Normalize(plan string) Plan {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case string(PlanStarter):
		return PlanStarter
	case string(PlanPro):
		return PlanPro
	default:
		return PlanFree
	}
}

// Rank orders tiers for comparisons; higher is more capable.
func Rank(plan Plan) int {
	switch Normalize(string(plan)) {
	case PlanPro:
		return 2
	case PlanStarter:
		return 1
	default:
		return 0
	}
}

// StepDown returns the next tier down: pro -> starter -> free. Used by the
// lazy expiry transition, which steps exactly one tier per read.
func StepDown(plan Plan) Plan {
	switch Normalize(string(plan)) {
	case PlanPro:
		return PlanStarter
	case PlanStarter:
		return PlanFree
	default:
		return PlanFree
	}
}

// LimitsFor returns the quotas and capabilities of a tier.
func LimitsFor(plan Plan) Limits {
	switch Normalize(string(plan)) {
	case PlanPro:
		return Limits{
			MaxLinks:            50,
			MaxProducts:         100,
			MaxImagesPerProduct: 10,
			EmailCapture:        true,
			Analytics:           true,
			RemoveBranding:      true,
			CustomDomain:        true,
		}
	case PlanStarter:
		return Limits{
			MaxLinks:            15,
			MaxProducts:         20,
			MaxImagesPerProduct: 5,
			EmailCapture:        true,
			Analytics:           true,
			RemoveBranding:      true,
		}
	default:
		return Limits{
			MaxLinks:            5,
			MaxProducts:         3,
			MaxImagesPerProduct: 1,
		}
	}
}

// ProductImages is the per-product slice of image URLs a payload carries,
// used for quota validation.
type ProductImages struct {
	ProductTitle string
	Images       []string
}

// ValidateLinks rejects a payload whose link count exceeds the plan quota.
func ValidateLinks(plan Plan, linkCount int) error {
	limits := LimitsFor(plan)
	if linkCount > limits.MaxLinks {
		return fmt.Errorf("the %s plan allows at most %d links, got %d", Normalize(string(plan)), limits.MaxLinks, linkCount)
	}
	return nil
}

// ValidateEmailCapture rejects enabling email capture on a tier without it.
func ValidateEmailCapture(plan Plan, wantCapture bool) error {
	if wantCapture && !LimitsFor(plan).EmailCapture {
		return fmt.Errorf("email capture is not available on the %s plan", Normalize(string(plan)))
	}
	return nil
}

// ValidateProducts rejects a product payload that exceeds the plan's product
// count, per-product image count, carries an image without a URL, or an
// image URL outside the allowed-extension set.
func ValidateProducts(plan Plan, products []ProductImages) error {
	limits := LimitsFor(plan)
	if len(products) > limits.MaxProducts {
		return fmt.Errorf("the %s plan allows at most %d products, got %d", Normalize(string(plan)), limits.MaxProducts, len(products))
	}
	for _, p := range products {
		title := p.ProductTitle
		if title == "" {
			title = "untitled product"
		}
		if len(p.Images) > limits.MaxImagesPerProduct {
			return fmt.Errorf("product %q has %d images, the %s plan allows %d per product", title, len(p.Images), Normalize(string(plan)), limits.MaxImagesPerProduct)
		}
		for _, img := range p.Images {
			if strings.TrimSpace(img) == "" {
				return fmt.Errorf("product %q has an image without a URL", title)
			}
			if !ImageExtensionAllowed(img) {
				return fmt.Errorf("product %q has an image with an unsupported extension: %s", title, img)
			}
		}
	}
	return nil
}

// ImageExtensionAllowed checks a product image URL against the extension
// allow-list. Inline data:image URIs already passed the subtype allow-list
// at the sanitization boundary and are accepted as-is.
func ImageExtensionAllowed(imageURL string) bool {
	v := strings.TrimSpace(strings.ToLower(imageURL))
	if strings.HasPrefix(v, "data:image/") {
		return true
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return allowedImageExtensions[path.Ext(u.Path)]
}
