package app

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/handlers"
	"github.com/joshuarp/idgen-api/internal/idgen"
	"github.com/joshuarp/idgen-api/internal/services"
)

// ParserModule serves id parsing. Parsing needs no node identity.
func ParserModule() fx.Option {
	return fx.Module("parser",
		fx.Provide(
			provideParser,
			fx.Annotate(
				services.NewParseService,
				fx.As(new(handlers.IDParseService)),
			),
			handlers.NewIDParseHandler,
		),
		fx.Invoke(registerParserRoutes),
	)
}

func provideParser(logger *slog.Logger) *idgen.Parser {
	return idgen.NewParser(logger)
}
