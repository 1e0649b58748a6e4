package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshuarp/idgen-api/internal/domain/vo"
	"github.com/joshuarp/idgen-api/internal/idgen"
)

type IDService struct {
	generator        *idgen.Generator
	defaultFormatter idgen.Formatter
	logger           *slog.Logger
}

// NewIDService fails when defaultFormatter names no known formatter. An
// empty name selects the suffixed formatter.
func NewIDService(generator *idgen.Generator, defaultFormatter string, logger *slog.Logger) (*IDService, error) {
	formatter := idgen.Suffixed
	if name := strings.TrimSpace(defaultFormatter); name != "" {
		resolved, err := idgen.FormatterByName(name)
		if err != nil {
			return nil, fmt.Errorf("service: default formatter: %w", err)
		}
		formatter = resolved
	}

	return &IDService{generator: generator, defaultFormatter: formatter, logger: logger}, nil
}

// Generate mints one id. Requests naming a domain or a target partition, or
// asking for it explicitly, go through constraint validation.
func (s *IDService) Generate(ctx context.Context, input vo.GenerateIDInput) (vo.GeneratedID, error) {
	if err := ctx.Err(); err != nil {
		return vo.GeneratedID{}, err
	}

	formatter, err := s.formatter(input.Formatter)
	if err != nil {
		return vo.GeneratedID{}, err
	}

	var (
		id         idgen.ID
		domainName string
	)
	if input.Constrained || input.Partition != nil || strings.TrimSpace(input.Domain) != "" {
		domainName = s.generator.Registry().Domain(input.Domain).Name()
		id, err = s.generator.GenerateWithConstraints(idgen.Request{
			Namespace:       input.Namespace,
			Suffix:          input.Suffix,
			Domain:          input.Domain,
			Formatter:       formatter,
			SkipGlobal:      input.SkipGlobal,
			TargetPartition: input.Partition,
		})
	} else {
		id, err = s.generator.Generate(input.Namespace, input.Suffix, formatter)
	}
	if err != nil {
		return vo.GeneratedID{}, s.translate(err, input.ClientID)
	}

	generated := toGeneratedID(id, formatter, domainName)
	generated.Partition = input.Partition
	return generated, nil
}

func (s *IDService) GenerateBatch(ctx context.Context, input vo.GenerateBatchInput) (vo.GeneratedBatch, error) {
	if err := ctx.Err(); err != nil {
		return vo.GeneratedBatch{}, err
	}

	formatter, err := s.formatter(input.Formatter)
	if err != nil {
		return vo.GeneratedBatch{}, err
	}

	ids, err := s.generator.GenerateBatch(input.Namespace, input.Suffix, formatter, input.Count)
	if err != nil {
		return vo.GeneratedBatch{}, s.translate(err, input.ClientID)
	}

	batch := vo.GeneratedBatch{IDs: make([]vo.GeneratedID, 0, len(ids)), Count: len(ids)}
	for _, id := range ids {
		batch.IDs = append(batch.IDs, toGeneratedID(id, formatter, ""))
	}
	return batch, nil
}

func (s *IDService) formatter(name string) (idgen.Formatter, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultFormatter, nil
	}

	formatter, err := idgen.FormatterByName(name)
	if err != nil {
		return idgen.Formatter{}, fmt.Errorf("%w: %w", vo.ErrInvalidIDRequest, err)
	}
	return formatter, nil
}

func (s *IDService) translate(err error, clientID string) error {
	switch {
	case errors.Is(err, idgen.ErrInvalidNamespace),
		errors.Is(err, idgen.ErrInvalidSuffix),
		errors.Is(err, idgen.ErrInvalidBatchSize),
		errors.Is(err, idgen.ErrNoPartitioning),
		errors.Is(err, idgen.ErrInvalidPartition):
		return fmt.Errorf("%w: %w", vo.ErrInvalidIDRequest, err)
	case errors.Is(err, idgen.ErrConstraintRejected):
		return fmt.Errorf("%w: %w", vo.ErrIDRejected, err)
	case errors.Is(err, idgen.ErrGenerationExhausted):
		s.logger.Warn("id generation exhausted retries", "client_id", clientID, "error", err)
		return fmt.Errorf("%w: %w", vo.ErrIDUnavailable, err)
	case errors.Is(err, idgen.ErrNodeNotAssigned):
		return fmt.Errorf("%w: %w", vo.ErrIDUnavailable, err)
	default:
		return fmt.Errorf("service: failed to generate id: %w", err)
	}
}

func toGeneratedID(id idgen.ID, formatter idgen.Formatter, domainName string) vo.GeneratedID {
	return vo.GeneratedID{
		ID:          id.Text,
		Node:        id.Node,
		Exponent:    id.Exponent,
		Formatter:   formatter.Name(),
		Domain:      domainName,
		GeneratedAt: id.GeneratedAt,
	}
}
