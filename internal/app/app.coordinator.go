package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/idgen"
	"github.com/joshuarp/idgen-api/internal/nodeid"
	"github.com/joshuarp/idgen-api/internal/services"
	"github.com/joshuarp/idgen-api/internal/shared/config"
	"github.com/joshuarp/idgen-api/internal/shared/coordinator"
	"github.com/joshuarp/idgen-api/internal/shared/uid"
)

const defaultProcessName = "idgen"

type coordinatorIn struct {
	fx.In

	Config config.ConfigProvider
	Redis  *redis.Client
	DB     *sqlx.DB `name:"db_idgen"`
	Logger *slog.Logger
}

func provideCoordinator(in coordinatorIn) (coordinator.Coordinator, error) {
	owner, err := leaseOwner()
	if err != nil {
		return nil, err
	}

	strategy := parseCoordinatorStrategy(in.Config.GetString("coordinator.strategy"))
	coord, err := coordinator.New(coordinator.Options{
		Strategy:        strategy,
		Owner:           owner,
		Redis:           in.Redis,
		KeyPrefix:       in.Config.GetString("coordinator.key_prefix"),
		DB:              in.DB,
		LeaseTTL:        in.Config.GetDuration("coordinator.lease_ttl"),
		RefreshInterval: in.Config.GetDuration("coordinator.refresh_interval"),
		ConnectPoll:     in.Config.GetDuration("coordinator.connect_poll"),
		Logger:          in.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("app: failed to init coordinator: %w", err)
	}

	in.Logger.Info("coordinator ready", "strategy", strategy, "owner", owner)
	return coord, nil
}

func parseCoordinatorStrategy(value string) coordinator.Strategy {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "postgres", "postgresql", "sql":
		return coordinator.StrategyPostgres
	case "memory":
		return coordinator.StrategyMemory
	default:
		return coordinator.StrategyRedis
	}
}

// leaseOwner names this process's coordinator session, readable in redis
// or node_leases as <hostname>-<uuid>.
func leaseOwner() (string, error) {
	generator, err := uid.New(uid.Options{Strategy: uid.StrategyUUIDv7, Prefix: uid.HostPrefix()})
	if err != nil {
		return "", fmt.Errorf("app: failed to init lease owner generator: %w", err)
	}

	owner, err := generator.Generate(context.Background())
	if err != nil {
		return "", fmt.Errorf("app: failed to generate lease owner: %w", err)
	}

	return owner, nil
}

func provideNodeManager(coord coordinator.Coordinator, cfg config.ConfigProvider, logger *slog.Logger) (*nodeid.Manager, error) {
	return nodeid.NewManager(coord, processName(cfg), nodeid.WithLogger(logger))
}

func processName(cfg config.ConfigProvider) string {
	if name := strings.TrimSpace(cfg.GetString("idgen.process_name")); name != "" {
		return name
	}
	return defaultProcessName
}

type nodeIdentityIn struct {
	fx.In

	Config      config.ConfigProvider
	Coordinator coordinator.Coordinator
	Manager     *nodeid.Manager
	Generator   *idgen.Generator
	Domains     *services.DomainService
	Logger      *slog.Logger
}

// registerNodeIdentity claims the node and loads domain definitions before
// the listener binds, so no request is served without a node.
func registerNodeIdentity(lifecycle fx.Lifecycle, in nodeIdentityIn) {
	reclaimCtx, stopReclaim := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			node, err := in.Manager.Assign(ctx)
			if err != nil {
				return fmt.Errorf("app: failed to assign node identity: %w", err)
			}
			if err := in.Generator.SetNode(node); err != nil {
				return fmt.Errorf("app: failed to set node identity: %w", err)
			}
			in.Coordinator.OnLeaseLost(reclaimNode(reclaimCtx, in.Manager, in.Generator, in.Logger))

			configured, err := configuredDefinitions(in.Config)
			if err != nil {
				return err
			}
			if err := in.Domains.LoadDefinitions(ctx, configured); err != nil {
				return fmt.Errorf("app: failed to load domain definitions: %w", err)
			}

			in.Logger.Info("id generator ready", "process", processName(in.Config), "node", node)
			return nil
		},
		OnStop: func(context.Context) error {
			stopReclaim()
			in.Generator.CleanUp()
			if err := in.Coordinator.Close(); err != nil {
				return fmt.Errorf("app: failed to close coordinator: %w", err)
			}
			return nil
		},
	})
}

// reclaimNode handles a lost node lease. The generator stops issuing ids at
// once and resumes after the manager claims a new node in the background.
func reclaimNode(ctx context.Context, manager *nodeid.Manager, generator *idgen.Generator, logger *slog.Logger) func(path string) {
	return func(path string) {
		if !manager.Release(path) {
			return
		}
		generator.ReleaseNode()

		go func() {
			node, err := manager.Assign(ctx)
			if err != nil {
				logger.Error("node identity reclaim failed", "path", path, "error", err)
				return
			}
			if err := generator.SetNode(node); err != nil {
				logger.Error("node identity reclaim failed", "node", node, "error", err)
				return
			}
			logger.Info("node identity reclaimed", "node", node)
		}()
	}
}

// configuredDefinitions reads idgen.domains and idgen.global_constraints.
func configuredDefinitions(cfg config.ConfigProvider) ([]domain.DomainDefinition, error) {
	var definitions []domain.DomainDefinition

	sections := []struct {
		key   string
		scope domain.DefinitionScope
	}{
		{key: "idgen.global_constraints", scope: domain.DefinitionScopeGlobal},
		{key: "idgen.domains", scope: domain.DefinitionScopeDomain},
	}

	for _, s := range sections {
		if !cfg.IsSet(s.key) {
			continue
		}

		var section []domain.DomainDefinition
		if err := cfg.UnmarshalKey(s.key, &section); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
		for i := range section {
			section[i].Scope = s.scope
		}
		definitions = append(definitions, section...)
	}

	return definitions, nil
}
