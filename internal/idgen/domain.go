package idgen

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultDomainName names the domain used when a request names none.
const DefaultDomainName = "__DEFAULT_DOMAIN__"

var (
	ErrEmptyConstraints = errors.New("idgen: constraint list must not be empty")
	ErrNilConstraint    = errors.New("idgen: constraint must not be nil")
	ErrInvalidDomain    = errors.New("idgen: invalid domain")
)

// ID is an assembled identifier. Values are never mutated after assembly.
type ID struct {
	Text        string    `json:"id"`
	Prefix      string    `json:"prefix,omitempty"`
	Suffix      string    `json:"suffix,omitempty"`
	Node        int       `json:"node"`
	Exponent    int       `json:"exponent"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Constraint is a pure predicate over an assembled ID.
type Constraint interface {
	IsValid(id ID) bool

	// FailFast reports whether a failure should abort generation instead of
	// retrying with a fresh nonce.
	FailFast() bool
}

type funcConstraint struct {
	fn       func(ID) bool
	failFast bool
}

func (c funcConstraint) IsValid(id ID) bool { return c.fn(id) }
func (c funcConstraint) FailFast() bool     { return c.failFast }

// NewConstraint adapts a predicate into a Constraint.
func NewConstraint(fn func(ID) bool, failFast bool) Constraint {
	return funcConstraint{fn: fn, failFast: failFast}
}

// ValidationState is the outcome of validating one attempt.
type ValidationState int

const (
	Valid ValidationState = iota
	InvalidRetryable
	InvalidNonRetryable
)

func (s ValidationState) String() string {
	switch s {
	case Valid:
		return "VALID"
	case InvalidRetryable:
		return "INVALID_RETRYABLE"
	case InvalidNonRetryable:
		return "INVALID_NON_RETRYABLE"
	default:
		return fmt.Sprintf("ValidationState(%d)", int(s))
	}
}

// Domain scopes collision state and constraints.
type Domain struct {
	name        string
	constraints []Constraint
	checker     *CollisionChecker
}

// DomainOption configures a Domain at construction time.
type DomainOption func(*Domain) error

// WithWeightedPartitions appends a constraint steering accepted ids towards
// partitions in proportion to the configured weights.
func WithWeightedPartitions(partitioner KeyPartitioner, partitionCount int, cfg WeightedConfig) DomainOption {
	return func(d *Domain) error {
		constraint, err := NewWeightedConstraint(partitioner, partitionCount, cfg, nil)
		if err != nil {
			return err
		}
		d.constraints = append(d.constraints, constraint)
		return nil
	}
}

// NewDomain builds a Domain owning a fresh collision checker.
func NewDomain(name string, constraints []Constraint, opts ...DomainOption) (*Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDomain)
	}

	for _, constraint := range constraints {
		if constraint == nil {
			return nil, ErrNilConstraint
		}
	}

	d := &Domain{
		name:        name,
		constraints: append([]Constraint(nil), constraints...),
		checker:     NewCollisionChecker(),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDomain, name, err)
		}
	}

	return d, nil
}

func newDefaultDomain() *Domain {
	return &Domain{name: DefaultDomainName, checker: NewCollisionChecker()}
}

func (d *Domain) Name() string { return d.name }

// Constraints returns a copy of the domain-specific constraints.
func (d *Domain) Constraints() []Constraint {
	return append([]Constraint(nil), d.constraints...)
}

func (d *Domain) Checker() *CollisionChecker { return d.checker }

// Registry holds the domains and global constraints of one Generator.
// Writes happen at registration time; reads happen on every generation.
type Registry struct {
	mu      sync.RWMutex
	globals []Constraint
	domains map[string]*Domain
}

// NewRegistry returns a registry holding only the default domain.
func NewRegistry() *Registry {
	return &Registry{
		domains: map[string]*Domain{DefaultDomainName: newDefaultDomain()},
	}
}

// RegisterDomain inserts the domain, replacing any domain of the same name.
// A replacement inherits the collision checker of the domain it replaces so
// nonces already issued under that name stay reserved.
func (r *Registry) RegisterDomain(domain *Domain) error {
	if domain == nil {
		return fmt.Errorf("%w: domain must not be nil", ErrInvalidDomain)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.domains[domain.name]; ok && existing != domain {
		domain.checker = existing.checker
	}
	r.domains[domain.name] = domain
	return nil
}

// RegisterGlobalConstraints appends constraints evaluated for every domain.
func (r *Registry) RegisterGlobalConstraints(constraints []Constraint) error {
	if err := checkConstraints(constraints); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals = append(r.globals, constraints...)
	return nil
}

// RegisterDomainSpecificConstraints creates a domain with the given
// constraints unless one with that name already exists.
func (r *Registry) RegisterDomainSpecificConstraints(name string, constraints []Constraint) error {
	if err := checkConstraints(constraints); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.domains[name]; exists {
		return nil
	}

	domain, err := NewDomain(name, constraints)
	if err != nil {
		return err
	}
	r.domains[name] = domain
	return nil
}

func checkConstraints(constraints []Constraint) error {
	if len(constraints) == 0 {
		return ErrEmptyConstraints
	}
	for _, constraint := range constraints {
		if constraint == nil {
			return ErrNilConstraint
		}
	}
	return nil
}

// Lookup returns the named domain, if registered.
func (r *Registry) Lookup(name string) (*Domain, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	domain, ok := r.domains[name]
	return domain, ok
}

// Domain returns the named domain, falling back to the default domain.
func (r *Registry) Domain(name string) *Domain {
	if domain, ok := r.Lookup(name); ok {
		return domain
	}
	return r.Default()
}

// Default returns the default domain.
func (r *Registry) Default() *Domain {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.domains[DefaultDomainName]
}

// Names lists registered domain names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.domains))
	for name := range r.domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset drops every registration and installs a fresh default domain.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.globals = nil
	r.domains = map[string]*Domain{DefaultDomainName: newDefaultDomain()}
}

// Validate evaluates global constraints (unless skipped) and then the supplied
// ones, both in order. The first failing constraint decides the outcome.
func (r *Registry) Validate(constraints []Constraint, id ID, skipGlobal bool) ValidationState {
	if !skipGlobal {
		r.mu.RLock()
		globals := r.globals
		r.mu.RUnlock()

		if state, failed := firstFailure(globals, id); failed {
			return state
		}
	}

	if state, failed := firstFailure(constraints, id); failed {
		return state
	}

	return Valid
}

func firstFailure(constraints []Constraint, id ID) (ValidationState, bool) {
	for _, constraint := range constraints {
		valid, panicked := evaluate(constraint, id)
		if valid {
			continue
		}
		if !panicked && constraint.FailFast() {
			return InvalidNonRetryable, true
		}
		return InvalidRetryable, true
	}
	return Valid, false
}

// evaluate runs one constraint. A panicking constraint counts as a failed,
// retryable attempt.
func evaluate(constraint Constraint, id ID) (valid, panicked bool) {
	defer func() {
		if recover() != nil {
			valid, panicked = false, true
		}
	}()
	return constraint.IsValid(id), false
}
