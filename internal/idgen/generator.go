package idgen

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"
)

const (
	// MaxNodes bounds node identities to the four digits the layouts reserve.
	MaxNodes = 10000

	// MaxBatchSize caps a single GenerateBatch call.
	MaxBatchSize = 1000
)

var (
	ErrInvalidNamespace    = errors.New("idgen: namespace must match ^[a-zA-Z]+$")
	ErrInvalidSuffix       = errors.New("idgen: suffix must match ^[a-zA-Z0-9]*$")
	ErrInvalidBatchSize    = fmt.Errorf("idgen: batch size must be within [1, %d]", MaxBatchSize)
	ErrInvalidNode         = fmt.Errorf("idgen: node must be within [0, %d)", MaxNodes)
	ErrNodeAlreadySet      = errors.New("idgen: node already set")
	ErrNodeNotAssigned     = errors.New("idgen: node not assigned")
	ErrConstraintRejected  = errors.New("idgen: id rejected by a fail-fast constraint")
	ErrGenerationExhausted = errors.New("idgen: retries exhausted before a valid id was generated")
	ErrNoPartitioning      = errors.New("idgen: no partitioning configured")
	ErrInvalidPartition    = errors.New("idgen: target partition out of range")

	namespacePattern = regexp.MustCompile(`^[a-zA-Z]+$`)
	suffixPattern    = regexp.MustCompile(`^[a-zA-Z0-9]*$`)
)

// Request describes one constrained generation.
type Request struct {
	Namespace  string
	Suffix     string
	Domain     string
	Formatter  Formatter
	SkipGlobal bool

	// TargetPartition, when set, only accepts ids hashing into that
	// partition under the generator's partitioning.
	TargetPartition *int
}

// Generator assembles ids from nonces, the node identity and a formatter.
// It holds no lock on the generation path; uniqueness rests on the domain
// collision checkers.
type Generator struct {
	registry *Registry
	nonces   *NonceGenerator
	parser   *Parser
	logger   *slog.Logger

	partitioner KeyPartitioner
	partitions  int

	mu      sync.RWMutex
	node    int
	nodeSet bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithRegistry shares a pre-populated registry.
func WithRegistry(registry *Registry) Option {
	return func(g *Generator) {
		g.registry = registry
	}
}

// WithLogger sets the logger used for parse diagnostics and retries.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithPartitioning sets the partitioner and partition count used for
// Request.TargetPartition.
func WithPartitioning(partitioner KeyPartitioner, partitions int) Option {
	return func(g *Generator) {
		g.partitioner = partitioner
		g.partitions = partitions
	}
}

// New builds a Generator around nonces.
func New(nonces *NonceGenerator, opts ...Option) *Generator {
	g := &Generator{nonces: nonces}

	for _, opt := range opts {
		opt(g)
	}

	if g.registry == nil {
		g.registry = NewRegistry()
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	g.parser = NewParser(g.logger)

	return g
}

func (g *Generator) Registry() *Registry { return g.registry }

// SetNode fixes the node identity. It can be set once until CleanUp.
func (g *Generator) SetNode(node int) error {
	if node < 0 || node >= MaxNodes {
		return fmt.Errorf("%w: got %d", ErrInvalidNode, node)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.nodeSet {
		return fmt.Errorf("%w: current %d, requested %d", ErrNodeAlreadySet, g.node, node)
	}
	g.node = node
	g.nodeSet = true
	return nil
}

// Node returns the node identity and whether it has been set.
func (g *Generator) Node() (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.node, g.nodeSet
}

// ReleaseNode drops the node identity and keeps registrations. Generation
// fails with ErrNodeNotAssigned until SetNode is called again.
func (g *Generator) ReleaseNode() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.node = 0
	g.nodeSet = false
}

// CleanUp drops all registrations and the node identity.
func (g *Generator) CleanUp() {
	g.registry.Reset()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.node = 0
	g.nodeSet = false
}

// Generate issues an id from the default domain without validation.
func (g *Generator) Generate(namespace, suffix string, formatter Formatter) (ID, error) {
	node, err := g.prepare(namespace, suffix)
	if err != nil {
		return ID{}, err
	}

	nonce := g.nonces.Generate(g.registry.Default())
	return assemble(nonce, node, namespace, suffix, formatter), nil
}

// GenerateBatch issues count ids from the default domain.
func (g *Generator) GenerateBatch(namespace, suffix string, formatter Formatter, count int) ([]ID, error) {
	if count < 1 || count > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, count)
	}

	node, err := g.prepare(namespace, suffix)
	if err != nil {
		return nil, err
	}

	domain := g.registry.Default()
	ids := make([]ID, 0, count)
	for range count {
		ids = append(ids, assemble(g.nonces.Generate(domain), node, namespace, suffix, formatter))
	}
	return ids, nil
}

// GenerateWithConstraints retries until an id passes the domain's
// constraints, a fail-fast constraint rejects one, or the retry budget
// runs out. Rejected nonces go back to the domain's checker.
func (g *Generator) GenerateWithConstraints(request Request) (ID, error) {
	node, err := g.prepare(request.Namespace, request.Suffix)
	if err != nil {
		return ID{}, err
	}

	domain := g.registry.Domain(request.Domain)
	constraints := domain.Constraints()
	if request.TargetPartition != nil {
		target, err := g.targetConstraint(*request.TargetPartition)
		if err != nil {
			return ID{}, err
		}
		constraints = append(constraints, target)
	}
	attempts := g.nonces.RetryCount()

	for attempt := 1; attempt <= attempts; attempt++ {
		nonce := g.nonces.Generate(domain)
		id := assemble(nonce, node, request.Namespace, request.Suffix, request.Formatter)

		switch g.registry.Validate(constraints, id, request.SkipGlobal) {
		case Valid:
			return id, nil
		case InvalidNonRetryable:
			g.nonces.Release(nonce, domain)
			return ID{}, fmt.Errorf("%w: domain %s, attempt %d", ErrConstraintRejected, domain.Name(), attempt)
		default:
			g.nonces.Release(nonce, domain)
		}
	}

	g.logger.Warn("id generation retries exhausted", "domain", domain.Name(), "attempts", attempts)
	return ID{}, fmt.Errorf("%w: domain %s, %d attempts", ErrGenerationExhausted, domain.Name(), attempts)
}

// Parse decodes an id string of any supported layout.
func (g *Generator) Parse(text string) (ID, bool) {
	return g.parser.Parse(text)
}

// Partitions reports the partition count, zero when partitioning is off.
func (g *Generator) Partitions() int {
	if g.partitioner == nil {
		return 0
	}
	return g.partitions
}

func (g *Generator) targetConstraint(partition int) (Constraint, error) {
	if g.partitioner == nil || g.partitions <= 0 {
		return nil, ErrNoPartitioning
	}
	if partition < 0 || partition >= g.partitions {
		return nil, fmt.Errorf("%w: %d not within [0, %d)", ErrInvalidPartition, partition, g.partitions)
	}
	return NewPartitionConstraint(g.partitioner, g.partitions, []int{partition}, false)
}

func (g *Generator) prepare(namespace, suffix string) (int, error) {
	if !namespacePattern.MatchString(namespace) {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidNamespace, namespace)
	}
	if !suffixPattern.MatchString(suffix) {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidSuffix, suffix)
	}

	node, ok := g.Node()
	if !ok {
		return 0, ErrNodeNotAssigned
	}
	return node, nil
}

func assemble(nonce Nonce, node int, namespace, suffix string, formatter Formatter) ID {
	at := time.UnixMilli(nonce.TimeMs).UTC()

	id := ID{
		Text:        namespace + formatter.Format(at, node, nonce.Exponent, suffix),
		Prefix:      namespace,
		Node:        node,
		Exponent:    nonce.Exponent,
		GeneratedAt: at,
	}
	if formatter.keepsSuffix() {
		id.Suffix = suffix
	}
	return id
}
