package services

import (
	"fmt"
	"strings"

	"github.com/joshuarp/idgen-api/internal/domain"
	"github.com/joshuarp/idgen-api/internal/domain/vo"
	"github.com/joshuarp/idgen-api/internal/idgen"
)

// builtConstraints is the engine form of a definition. Weighted specs become
// domain options when building a domain and plain constraints otherwise.
type builtConstraints struct {
	constraints []idgen.Constraint
	options     []idgen.DomainOption
}

func buildConstraints(specs []domain.ConstraintSpec, asDomain bool) (builtConstraints, error) {
	if len(specs) == 0 {
		return builtConstraints{}, fmt.Errorf("%w: at least one constraint is required", vo.ErrInvalidConstraintSpec)
	}

	var built builtConstraints
	for i, spec := range specs {
		if err := built.add(spec, asDomain); err != nil {
			return builtConstraints{}, fmt.Errorf("%w: constraint %d (%s): %w", vo.ErrInvalidConstraintSpec, i, spec.Type, err)
		}
	}
	return built, nil
}

func (b *builtConstraints) add(spec domain.ConstraintSpec, asDomain bool) error {
	switch spec.Type {
	case domain.ConstraintPartition:
		partitioner, err := idgen.PartitionerByName(spec.Partitioner)
		if err != nil {
			return err
		}
		constraint, err := idgen.NewPartitionConstraint(partitioner, spec.Partitions, spec.Allowed, spec.FailFast)
		if err != nil {
			return err
		}
		b.constraints = append(b.constraints, constraint)

	case domain.ConstraintWeighted:
		partitioner, err := idgen.PartitionerByName(spec.Partitioner)
		if err != nil {
			return err
		}
		cfg := weightedConfig(spec.Weights)
		if asDomain {
			if err := cfg.Validate(spec.Partitions); err != nil {
				return err
			}
			b.options = append(b.options, idgen.WithWeightedPartitions(partitioner, spec.Partitions, cfg))
			return nil
		}
		constraint, err := idgen.NewWeightedConstraint(partitioner, spec.Partitions, cfg, nil)
		if err != nil {
			return err
		}
		b.constraints = append(b.constraints, constraint)

	case domain.ConstraintExponentParity:
		var remainder int
		switch strings.ToLower(strings.TrimSpace(spec.Parity)) {
		case "even":
			remainder = 0
		case "odd":
			remainder = 1
		default:
			return fmt.Errorf("parity must be even or odd, got %q", spec.Parity)
		}
		b.constraints = append(b.constraints, idgen.NewConstraint(func(id idgen.ID) bool {
			return id.Exponent%2 == remainder
		}, spec.FailFast))

	default:
		return fmt.Errorf("unknown constraint type %q", spec.Type)
	}

	return nil
}

func weightedConfig(weights []domain.WeightSpec) idgen.WeightedConfig {
	cfg := idgen.WeightedConfig{Partitions: make([]idgen.WeightedPartition, 0, len(weights))}
	for _, weight := range weights {
		cfg.Partitions = append(cfg.Partitions, idgen.WeightedPartition{
			Range:  idgen.PartitionRange{Start: weight.Start, End: weight.End},
			Weight: weight.Weight,
		})
	}
	return cfg
}
