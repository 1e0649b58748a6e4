package domain

import "time"

type DefinitionScope string

const (
	DefinitionScopeDomain DefinitionScope = "domain"
	DefinitionScopeGlobal DefinitionScope = "global"
)

type ConstraintType string

const (
	ConstraintPartition      ConstraintType = "partition"
	ConstraintWeighted       ConstraintType = "weighted"
	ConstraintExponentParity ConstraintType = "exponent_parity"
)

// ConstraintSpec is the declarative, persistable form of one constraint.
// Which fields apply depends on Type.
type ConstraintSpec struct {
	Type        ConstraintType `json:"type" mapstructure:"type"`
	Partitioner string         `json:"partitioner,omitempty" mapstructure:"partitioner"`
	Partitions  int            `json:"partitions,omitempty" mapstructure:"partitions"`
	Allowed     []int          `json:"allowed,omitempty" mapstructure:"allowed"`
	Weights     []WeightSpec   `json:"weights,omitempty" mapstructure:"weights"`
	Parity      string         `json:"parity,omitempty" mapstructure:"parity"`
	FailFast    bool           `json:"fail_fast,omitempty" mapstructure:"fail_fast"`
}

type WeightSpec struct {
	Start  int `json:"start" mapstructure:"start"`
	End    int `json:"end" mapstructure:"end"`
	Weight int `json:"weight" mapstructure:"weight"`
}

// DomainDefinition is a named set of constraint specs. Global definitions
// add to the constraints every domain evaluates.
type DomainDefinition struct {
	Name        string           `json:"name" mapstructure:"name"`
	Scope       DefinitionScope  `json:"scope" mapstructure:"scope"`
	Constraints []ConstraintSpec `json:"constraints" mapstructure:"constraints"`
	CreatedAt   time.Time        `json:"created_at" mapstructure:"-"`
	UpdatedAt   time.Time        `json:"updated_at" mapstructure:"-"`
}
