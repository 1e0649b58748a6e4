package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
	"github.com/joshuarp/idgen-api/internal/idgen"
)

type DomainDefinitionRepository interface {
	SaveDomain(ctx context.Context, definition domain.DomainDefinition) (domain.DomainDefinition, error)
	SaveGlobalConstraints(ctx context.Context, definition domain.DomainDefinition) error
	ListDefinitions(ctx context.Context) ([]domain.DomainDefinition, error)
}

// DomainService keeps the live registry and the stored definitions in step.
// Definitions are validated before anything is persisted.
type DomainService struct {
	repository DomainDefinitionRepository
	registry   *idgen.Registry
	logger     *slog.Logger
}

func NewDomainService(repository DomainDefinitionRepository, registry *idgen.Registry, logger *slog.Logger) *DomainService {
	return &DomainService{repository: repository, registry: registry, logger: logger}
}

func (s *DomainService) RegisterDomain(ctx context.Context, definition domain.DomainDefinition) (domain.DomainDefinition, error) {
	definition.Name = strings.TrimSpace(definition.Name)
	definition.Scope = domain.DefinitionScopeDomain

	built, err := s.buildDomain(definition)
	if err != nil {
		return domain.DomainDefinition{}, err
	}

	saved, err := s.repository.SaveDomain(ctx, definition)
	if err != nil {
		return domain.DomainDefinition{}, err
	}

	if err := s.registry.RegisterDomain(built); err != nil {
		return domain.DomainDefinition{}, fmt.Errorf("service: failed to register domain: %w", err)
	}

	s.logger.Info("domain registered", "domain", saved.Name, "constraints", len(saved.Constraints))
	return saved, nil
}

func (s *DomainService) RegisterGlobalConstraints(ctx context.Context, definition domain.DomainDefinition) error {
	definition.Name = strings.TrimSpace(definition.Name)
	definition.Scope = domain.DefinitionScopeGlobal

	constraints, err := s.buildGlobal(definition)
	if err != nil {
		return err
	}

	if err := s.repository.SaveGlobalConstraints(ctx, definition); err != nil {
		return err
	}

	if err := s.registry.RegisterGlobalConstraints(constraints); err != nil {
		return fmt.Errorf("service: failed to register global constraints: %w", err)
	}

	s.logger.Info("global constraints registered", "name", definition.Name, "constraints", len(constraints))
	return nil
}

// LoadDefinitions registers the configured definitions followed by the
// stored ones, so a stored domain replaces a configured domain of the same
// name. Global sets from both sources accumulate.
func (s *DomainService) LoadDefinitions(ctx context.Context, configured []domain.DomainDefinition) error {
	stored, err := s.repository.ListDefinitions(ctx)
	if err != nil {
		return err
	}

	for _, definition := range append(append([]domain.DomainDefinition(nil), configured...), stored...) {
		if err := s.load(definition); err != nil {
			return fmt.Errorf("service: failed to load definition %q: %w", definition.Name, err)
		}
	}

	s.logger.Info("domain definitions loaded", "configured", len(configured), "stored", len(stored), "domains", s.registry.Names())
	return nil
}

func (s *DomainService) load(definition domain.DomainDefinition) error {
	if definition.Scope == domain.DefinitionScopeGlobal {
		constraints, err := s.buildGlobal(definition)
		if err != nil {
			return err
		}
		return s.registry.RegisterGlobalConstraints(constraints)
	}

	built, err := s.buildDomain(definition)
	if err != nil {
		return err
	}
	return s.registry.RegisterDomain(built)
}

func (s *DomainService) buildDomain(definition domain.DomainDefinition) (*idgen.Domain, error) {
	if strings.TrimSpace(definition.Name) == "" || definition.Name == idgen.DefaultDomainName {
		return nil, fmt.Errorf("%w: domain name is required", vo.ErrInvalidConstraintSpec)
	}

	built, err := buildConstraints(definition.Constraints, true)
	if err != nil {
		return nil, err
	}

	d, err := idgen.NewDomain(definition.Name, built.constraints, built.options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vo.ErrInvalidConstraintSpec, err)
	}
	return d, nil
}

func (s *DomainService) buildGlobal(definition domain.DomainDefinition) ([]idgen.Constraint, error) {
	if strings.TrimSpace(definition.Name) == "" {
		return nil, fmt.Errorf("%w: constraint set name is required", vo.ErrInvalidConstraintSpec)
	}

	built, err := buildConstraints(definition.Constraints, false)
	if err != nil {
		return nil, err
	}
	return built.constraints, nil
}
