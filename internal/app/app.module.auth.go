package app

import (
	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/handlers"
	"github.com/joshuarp/idgen-api/internal/repository"
	"github.com/joshuarp/idgen-api/internal/services"
)

func AuthModule() fx.Option {
	return fx.Module("auth",
		fx.Provide(
			fx.Annotate(
				repository.NewAPIClientRepository,
				fx.ParamTags(`name:"db_auth"`),
				fx.As(new(services.APIClientRepository)),
			),
			fx.Annotate(
				services.NewAuthTokenService,
				fx.As(new(handlers.AuthTokenService)),
			),
			handlers.NewAuthTokenHandler,
		),
		fx.Invoke(registerAuthRoutes),
	)
}
