package app

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/handlers"
	"github.com/joshuarp/idgen-api/internal/middlewares"
	"github.com/joshuarp/idgen-api/internal/nodeid"
	"github.com/joshuarp/idgen-api/internal/shared/config"
	sharedidempotency "github.com/joshuarp/idgen-api/internal/shared/idempotency"
	sharedjwt "github.com/joshuarp/idgen-api/internal/shared/jwt"
	sharedratelimit "github.com/joshuarp/idgen-api/internal/shared/ratelimit"
	"github.com/joshuarp/idgen-api/internal/shared/uid"
)

const (
	scopeGenerate = "ids:generate"
	scopeParse    = "ids:parse"
	scopeAdmin    = "ids:admin"
)

type routerGroupsIn struct {
	fx.In

	App          *fiber.App
	Config       config.ConfigProvider
	Logger       *slog.Logger
	TokenManager sharedjwt.TokenManager
	RequestIDs   uid.UIDGenerator `name:"request_id_generator"`
	Node         *nodeid.Manager  `optional:"true"`
}

type routerGroupsOut struct {
	fx.Out
	Public    fiber.Router `name:"api_public"`
	Protected fiber.Router `name:"api_protected"`
}

func provideRouterGroups(in routerGroupsIn) routerGroupsOut {
	app := in.App
	app.Use(middlewares.NewHTTPRecoveryMiddleware(in.Logger))
	app.Use(middlewares.NewHTTPRequestIDMiddleware(in.RequestIDs))
	app.Use(middlewares.NewHTTPCORSMiddleware(in.Config.GetStringSlice("http.cors.allow_origins")))
	app.Use(middlewares.NewHTTPRequestResponseLogMiddleware(in.Logger))

	app.Get("/healthz", healthHandler(in.Node))

	api := app.Group("/api/v1")
	protected := api.Group("", middlewares.NewHTTPJWTMiddleware(in.TokenManager))

	return routerGroupsOut{
		Public:    api,
		Protected: protected,
	}
}

// healthHandler reports the node identity when this binary generates ids.
func healthHandler(node *nodeid.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		payload := fiber.Map{"status": "ok"}
		if node != nil {
			id, assigned := node.Node()
			payload["assigned"] = assigned
			if assigned {
				payload["node"] = id
			}
		}
		return c.Status(fiber.StatusOK).JSON(payload)
	}
}

type authRoutesIn struct {
	fx.In
	Public  fiber.Router `name:"api_public"`
	Handler *handlers.AuthTokenHandler
}

func registerAuthRoutes(in authRoutesIn) {
	in.Handler.Register(in.Public)
}

type parserRoutesIn struct {
	fx.In
	Protected fiber.Router `name:"api_protected"`
	Handler   *handlers.IDParseHandler
}

func registerParserRoutes(in parserRoutesIn) {
	in.Protected.Get("/ids/:id", middlewares.NewHTTPScopeMiddleware(scopeParse), in.Handler.Handle)
}

type generatorRoutesIn struct {
	fx.In
	Protected        fiber.Router            `name:"api_protected"`
	IdempotencyStore sharedidempotency.Store `name:"generate_idempotency_store"`
	RateLimiter      sharedratelimit.Limiter `name:"generate_rate_limiter"`
	Logger           *slog.Logger
	IDHandler        *handlers.IDGenerateHandler
	DomainHandler    *handlers.DomainHandler
}

// registerGeneratorRoutes mounts middleware per route. A group here would
// also wrap the parse route, which shares the /ids prefix.
func registerGeneratorRoutes(in generatorRoutesIn) {
	generateScope := middlewares.NewHTTPScopeMiddleware(scopeGenerate)
	adminScope := middlewares.NewHTTPScopeMiddleware(scopeAdmin)
	idempotency := middlewares.NewHTTPIdempotencyMiddleware(in.IdempotencyStore, "ids")

	singleRateLimit := middlewares.NewHTTPRateLimitMiddleware(middlewares.RateLimitConfig{
		Limiter:      in.RateLimiter,
		Logger:       in.Logger,
		KeyExtractor: middlewares.PerClientKeyExtractor("generate"),
	})
	batchRateLimit := middlewares.NewHTTPRateLimitMiddleware(middlewares.RateLimitConfig{
		Limiter:      in.RateLimiter,
		Logger:       in.Logger,
		KeyExtractor: middlewares.PerClientKeyExtractor("generate"),
		Cost:         middlewares.BatchCost,
	})

	in.Protected.Post("/ids", generateScope, singleRateLimit, idempotency, in.IDHandler.Handle)
	in.Protected.Post("/ids/batch", generateScope, batchRateLimit, idempotency, in.IDHandler.HandleBatch)
	in.Protected.Post("/domains", adminScope, in.DomainHandler.HandleDomain)
	in.Protected.Post("/constraints/global", adminScope, in.DomainHandler.HandleGlobal)
}
