package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/handlers"
	"github.com/joshuarp/idgen-api/internal/idgen"
	"github.com/joshuarp/idgen-api/internal/repository"
	"github.com/joshuarp/idgen-api/internal/services"
	"github.com/joshuarp/idgen-api/internal/shared/config"
	sharedidempotency "github.com/joshuarp/idgen-api/internal/shared/idempotency"
)

// GeneratorModule serves generation and domain registration. It needs a
// coordinator and claims a node identity on start.
func GeneratorModule() fx.Option {
	return fx.Module("generator",
		fx.Provide(
			fx.Annotate(
				provideIDGenPostgresSQLX,
				fx.ResultTags(`name:"db_idgen"`),
			),
			provideNonceGenerator,
			provideIDGenerator,
			provideCoordinator,
			provideNodeManager,
			fx.Annotate(
				provideGenerateRateLimiter,
				fx.ResultTags(`name:"generate_rate_limiter"`),
			),
			fx.Annotate(
				provideIdempotencyStore,
				fx.ParamTags(``, `name:"db_idgen"`),
				fx.ResultTags(`name:"generate_idempotency_store"`),
			),
			fx.Annotate(
				repository.NewDomainDefinitionRepository,
				fx.ParamTags(`name:"db_idgen"`),
				fx.As(new(services.DomainDefinitionRepository)),
			),
			fx.Annotate(
				provideDomainService,
				fx.As(fx.Self()),
				fx.As(new(handlers.DomainRegistrationService)),
			),
			fx.Annotate(
				provideIDService,
				fx.As(new(handlers.IDGenerateService)),
			),
			handlers.NewIDGenerateHandler,
			handlers.NewDomainHandler,
		),
		fx.Invoke(registerNodeIdentity),
		fx.Invoke(registerGeneratorRoutes),
	)
}

func provideNonceGenerator(cfg config.ConfigProvider) (*idgen.NonceGenerator, error) {
	retries, err := retryCount(cfg)
	if err != nil {
		return nil, err
	}

	nonces, err := idgen.NewNonceGenerator(idgen.WithRetryCount(retries))
	if err != nil {
		return nil, fmt.Errorf("app: failed to init nonce generator: %w", err)
	}

	return nonces, nil
}

// retryCount prefers idgen.retry_count and falls back to
// NUM_ID_GENERATION_RETRIES.
func retryCount(cfg config.ConfigProvider) (int, error) {
	if cfg.IsSet("idgen.retry_count") {
		return cfg.GetInt("idgen.retry_count"), nil
	}
	return idgen.RetryCountFromEnv()
}

func provideIDGenerator(nonces *idgen.NonceGenerator, cfg config.ConfigProvider, logger *slog.Logger) (*idgen.Generator, error) {
	opts := []idgen.Option{
		idgen.WithRegistry(idgen.NewRegistry()),
		idgen.WithLogger(logger),
	}

	// idgen.partitioning enables per-request target partitions.
	if partitions := cfg.GetInt("idgen.partitioning.partitions"); partitions > 0 {
		partitioner, err := idgen.PartitionerByName(cfg.GetString("idgen.partitioning.partitioner"))
		if err != nil {
			return nil, fmt.Errorf("app: idgen.partitioning: %w", err)
		}
		opts = append(opts, idgen.WithPartitioning(partitioner, partitions))
	}

	return idgen.New(nonces, opts...), nil
}

func provideIdempotencyStore(cfg config.ConfigProvider, db *sqlx.DB) sharedidempotency.Store {
	var opts []sharedidempotency.SQLXStoreOption
	if table := cfg.GetString("idempotency.table"); table != "" {
		opts = append(opts, sharedidempotency.WithTable(table))
	}
	return sharedidempotency.NewSQLXStore(db, opts...)
}

func provideDomainService(repository services.DomainDefinitionRepository, generator *idgen.Generator, logger *slog.Logger) *services.DomainService {
	return services.NewDomainService(repository, generator.Registry(), logger)
}

func provideIDService(generator *idgen.Generator, cfg config.ConfigProvider, logger *slog.Logger) (*services.IDService, error) {
	return services.NewIDService(generator, cfg.GetString("idgen.default_formatter"), logger)
}
