package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/launch6/linkinbio-sub000/app/controllers"
	"github.com/launch6/linkinbio-sub000/internal/pkg/cache"
	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
	"github.com/launch6/linkinbio-sub000/internal/pkg/middleware"
	"github.com/launch6/linkinbio-sub000/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	controllers.SetPublicLimiter(ratelimit.New(cache.GetClient()))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Storage:    limiterStorage(),
	}))
	api.Get("/ping", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	v1 := api.Group("/v1")

	// Public page surface, no authentication.
	v1.Get("/p/:slug", controllers.HandleGetPublicProfile)
	v1.Post("/p/:slug/subscribe", controllers.HandleSubscribe)
	v1.Post("/events", controllers.HandleTrackEvent)

	// Provider callback, authenticated by its own signature.
	v1.Post("/webhooks/payment", controllers.HandlePaymentWebhook)

	// Creator surface, authenticated by edit token.
	v1.Post("/profiles", controllers.HandleCreateProfile)
	me := v1.Group("/me", middleware.EditTokenAuth())
	me.Get("/", controllers.HandleGetOwnProfile)
	me.Patch("/", controllers.HandleUpdateProfile)
	me.Put("/products", controllers.HandleReplaceProducts)
	me.Put("/products/:productID/stock", controllers.HandleRestoreStock)
	me.Get("/stats", controllers.HandleGetProfileStats)
}

// limiterStorage backs the global limiter with Redis when the cache is
// configured, so counters span instances. Nil storage falls back to the
// limiter's in-memory default.
func limiterStorage() fiber.Storage {
	cacheClient := cache.GetClient()
	if cacheClient == nil {
		return nil
	}

	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	addr := cacheClient.Options().Addr
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	if p := cacheClient.Options().Password; p != "" {
		password = p
	}

	// Database 1 keeps limiter counters apart from the cache on DB 0.
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
