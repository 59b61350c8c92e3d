package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/config"
	"github.com/mkoval/cms-auth/internal/database"
	"github.com/mkoval/cms-auth/internal/event"
	"github.com/mkoval/cms-auth/internal/handler"
	"github.com/mkoval/cms-auth/internal/keys"
	"github.com/mkoval/cms-auth/internal/middleware"
	"github.com/mkoval/cms-auth/internal/repository"
	"github.com/mkoval/cms-auth/internal/router"
	"github.com/mkoval/cms-auth/internal/security"
	"github.com/mkoval/cms-auth/internal/token"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewRefreshTokenRepo(db)
	blog := repository.NewBlogRepo(db)

	keyProvider := keys.NewProvider(cfg.JWTKeysDir)
	if _, ok := keyProvider.PrivateKey(); !ok {
		// Verification still works if only the public key is present, so
		// this is loud but not fatal. Issuance will fail per request.
		log.Printf("warning: no private key in %s, token issuance unavailable", cfg.JWTKeysDir)
	}
	codec := token.NewCodec(cfg.JWTIssuer, keyProvider)
	issuer := token.NewIssuer(codec, tokens, cfg.AccessTTL, cfg.RefreshTTL)

	password := security.NewPasswordStrategy(users)
	refresh := security.NewRefreshStrategy(tokens, users)
	bearer := security.NewBearerStrategy(codec, users)

	e := echo.New()
	e.Use(middleware.Principal(bearer))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(password, refresh, issuer), limiter)
	router.RegisterUsers(e, handler.NewUserHandler(users, tokens, handler.BcryptConfig{BcryptCost: cfg.BcryptCost}))
	router.RegisterBlog(e, handler.NewBlogHandler(blog))

	go func() {
		if err := event.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
