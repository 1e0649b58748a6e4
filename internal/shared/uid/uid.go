// Package uid issues opaque identifiers for request ids and coordinator
// lease owners. These are unrelated to the ids minted by idgen.
package uid

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Strategy defines which UID generation algorithm to use.
type Strategy string

const (
	StrategySnowflake Strategy = "snowflake"
	StrategyUUIDv7    Strategy = "uuidv7"
)

// Options configures the UID generator.
type Options struct {
	Strategy Strategy

	// NodeID identifies this process for Snowflake ids. Valid range: 0–1023.
	NodeID int64

	// Prefix is prepended to every generated value, joined with "-".
	Prefix string
}

// UIDGenerator is safe for concurrent use.
type UIDGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// New creates a UIDGenerator based on the provided options.
func New(opts Options) (UIDGenerator, error) {
	var (
		gen UIDGenerator
		err error
	)

	switch opts.Strategy {
	case StrategySnowflake:
		gen, err = NewSnowflake(opts.NodeID)
	case StrategyUUIDv7, "":
		gen, err = NewUUIDv7()
	default:
		return nil, fmt.Errorf("uid: unknown strategy %q", opts.Strategy)
	}
	if err != nil {
		return nil, err
	}

	if prefix := strings.TrimSpace(opts.Prefix); prefix != "" {
		return &prefixed{prefix: prefix, next: gen}, nil
	}
	return gen, nil
}

var _ UIDGenerator = (*prefixed)(nil)

type prefixed struct {
	prefix string
	next   UIDGenerator
}

func (p *prefixed) Generate(ctx context.Context) (string, error) {
	id, err := p.next.Generate(ctx)
	if err != nil {
		return "", err
	}
	return p.prefix + "-" + id, nil
}

// HostPrefix returns a prefix naming the local host, or "unknown-host".
func HostPrefix() string {
	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return "unknown-host"
	}
	return host
}
