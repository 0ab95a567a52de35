package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/launch6/linkinbio-sub000/app/repository"
	"github.com/launch6/linkinbio-sub000/internal/pkg/cache"
	"github.com/launch6/linkinbio-sub000/internal/pkg/database"
	"github.com/launch6/linkinbio-sub000/internal/pkg/env"
	"github.com/launch6/linkinbio-sub000/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	if err := database.Connect(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	app := fiber.New(fiber.Config{
		AppName:   "linkbio",
		BodyLimit: 1 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if basePath := findBasePath(); basePath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: basePath + "public/docs/v1/openapi.yml",
			Path:     "v1",
		}))
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}

// findBasePath locates the project root relative to the working directory so
// the binary runs both from the root and from cmd/linkbio.
func findBasePath() string {
	for _, path := range []string{"./", "../../", "../../../"} {
		if _, err := os.Stat(path + "public/docs"); !os.IsNotExist(err) {
			return path
		}
	}
	return ""
}
