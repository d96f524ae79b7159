package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"report2resolve-be/config"
	"report2resolve-be/controllers"
	"report2resolve-be/middlewares"
	"report2resolve-be/repository"
	"report2resolve-be/services"
	authUtils "report2resolve-be/utils"
)

// NewEngine assembles services, middleware and routes over the given stores.
// kv backs rate limits and token revocation.
func NewEngine(cfg *config.Config, stores repository.Stores, kv repository.KV, opts ...services.Option) *gin.Engine {
	tokens := authUtils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	revocations := authUtils.NewRevocations(kv, cfg.RedisPrefix)

	domain := cfg.Domain
	if cfg.IsProduction() {
		domain = ""
	}
	ctl := &controllers.Controller{
		Auth:         services.NewAuthService(stores, tokens, revocations, opts...),
		Issues:       services.NewIssueService(stores, opts...),
		Approvals:    services.NewApprovalService(stores, opts...),
		Lookups:      services.NewLookupService(stores),
		CookieDomain: domain,
		SecureCookie: cfg.IsProduction(),
	}

	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(), middlewares.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	Register(r, Deps{
		Controller:      ctl,
		Auth:            &middlewares.Authenticator{Tokens: tokens, Revocations: revocations},
		RateLimit:       kv,
		RateLimitPrefix: cfg.RedisPrefix,
		IssueDailyLimit: cfg.IssueDailyLimit,
	})
	return r
}
