package idgen

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

var ErrInvalidPartitionConfig = errors.New("idgen: invalid partition config")

// PartitionRange is an inclusive range of partition numbers.
type PartitionRange struct {
	Start int `json:"start" mapstructure:"start"`
	End   int `json:"end" mapstructure:"end"`
}

func (r PartitionRange) valid() bool {
	return r.Start >= 0 && r.Start <= r.End
}

func (r PartitionRange) size() int {
	return r.End - r.Start + 1
}

// WeightedPartition assigns a relative weight to a range.
type WeightedPartition struct {
	Range  PartitionRange `json:"range" mapstructure:"range"`
	Weight int            `json:"weight" mapstructure:"weight"`
}

// WeightedConfig describes how generation load spreads over partitions.
type WeightedConfig struct {
	Partitions []WeightedPartition `json:"partitions" mapstructure:"partitions"`
}

// Validate checks that the ranges are well formed, contiguous once sorted,
// and together cover exactly partitionCount partitions.
func (c WeightedConfig) Validate(partitionCount int) error {
	if partitionCount <= 0 {
		return fmt.Errorf("%w: partition count must be positive, got %d", ErrInvalidPartitionConfig, partitionCount)
	}
	if len(c.Partitions) == 0 {
		return fmt.Errorf("%w: at least one weighted partition is required", ErrInvalidPartitionConfig)
	}

	sorted := c.sorted()
	for i, partition := range sorted {
		if !partition.Range.valid() {
			return fmt.Errorf("%w: range [%d, %d] is not non-decreasing", ErrInvalidPartitionConfig, partition.Range.Start, partition.Range.End)
		}
		if partition.Weight < 1 {
			return fmt.Errorf("%w: weight of range [%d, %d] must be at least 1", ErrInvalidPartitionConfig, partition.Range.Start, partition.Range.End)
		}
		if i > 0 && sorted[i-1].Range.End+1 != partition.Range.Start {
			return fmt.Errorf("%w: ranges [%d, %d] and [%d, %d] are not contiguous", ErrInvalidPartitionConfig,
				sorted[i-1].Range.Start, sorted[i-1].Range.End, partition.Range.Start, partition.Range.End)
		}
	}

	covered := sorted[len(sorted)-1].Range.End - sorted[0].Range.Start + 1
	if covered != partitionCount {
		return fmt.Errorf("%w: ranges cover %d partitions, expected %d", ErrInvalidPartitionConfig, covered, partitionCount)
	}

	return nil
}

func (c WeightedConfig) sorted() []WeightedPartition {
	sorted := append([]WeightedPartition(nil), c.Partitions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Range.Start < sorted[j].Range.Start
	})
	return sorted
}

// WeightedSelector picks partitions with probability proportional to the
// weight of their range.
type WeightedSelector struct {
	ranges []PartitionRange
	bounds []int
	total  int
}

// NewWeightedSelector validates cfg and builds the cumulative weight table.
func NewWeightedSelector(partitionCount int, cfg WeightedConfig) (*WeightedSelector, error) {
	if err := cfg.Validate(partitionCount); err != nil {
		return nil, err
	}

	sorted := cfg.sorted()
	selector := &WeightedSelector{
		ranges: make([]PartitionRange, 0, len(sorted)),
		bounds: make([]int, 0, len(sorted)),
	}
	for _, partition := range sorted {
		selector.total += partition.Weight
		selector.ranges = append(selector.ranges, partition.Range)
		selector.bounds = append(selector.bounds, selector.total)
	}

	return selector, nil
}

// Pick draws a partition.
func (s *WeightedSelector) Pick(random Random) int {
	ticket := random.IntN(s.total)
	index := sort.Search(len(s.bounds), func(i int) bool {
		return s.bounds[i] > ticket
	})
	selected := s.ranges[index]
	return selected.Start + random.IntN(selected.size())
}

// KeyPartitioner maps a key onto [0, partitions).
type KeyPartitioner func(key string, partitions int) int

// JavaHashPartitioner hashes like java.lang.String#hashCode so ids keep
// landing on the partitions chosen by JVM consumers.
func JavaHashPartitioner(key string, partitions int) int {
	var hash int32
	for _, unit := range utf16.Encode([]rune(key)) {
		hash = 31*hash + int32(unit)
	}
	return reduce(int64(hash), partitions)
}

// Murmur3Partitioner uses the low 32 bits of murmur3 x64 128.
func Murmur3Partitioner(key string, partitions int) int {
	h1, _ := murmur3.Sum128([]byte(key))
	return reduce(int64(int32(uint32(h1))), partitions)
}

// XXHashPartitioner uses xxhash64.
func XXHashPartitioner(key string, partitions int) int {
	return int(xxhash.Sum64String(key) % uint64(partitions))
}

func reduce(hash int64, partitions int) int {
	if hash < 0 {
		hash = -hash
	}
	return int(hash % int64(partitions))
}

// PartitionerByName resolves "hashcode", "murmur3" or "xxhash".
func PartitionerByName(name string) (KeyPartitioner, error) {
	switch name {
	case "hashcode", "java_hashcode":
		return JavaHashPartitioner, nil
	case "murmur3", "murmur":
		return Murmur3Partitioner, nil
	case "xxhash":
		return XXHashPartitioner, nil
	default:
		return nil, fmt.Errorf("idgen: unknown partitioner %q", name)
	}
}

type partitionConstraint struct {
	partitioner KeyPartitioner
	partitions  int
	allowed     map[int]struct{}
	failFast    bool
}

// NewPartitionConstraint accepts ids whose text hashes into one of the
// allowed partitions.
func NewPartitionConstraint(partitioner KeyPartitioner, partitions int, allowed []int, failFast bool) (Constraint, error) {
	if partitioner == nil {
		return nil, fmt.Errorf("%w: partitioner is required", ErrInvalidPartitionConfig)
	}
	if partitions <= 0 {
		return nil, fmt.Errorf("%w: partition count must be positive, got %d", ErrInvalidPartitionConfig, partitions)
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: allowed partitions must not be empty", ErrInvalidPartitionConfig)
	}

	set := make(map[int]struct{}, len(allowed))
	for _, partition := range allowed {
		if partition < 0 || partition >= partitions {
			return nil, fmt.Errorf("%w: partition %d outside [0, %d)", ErrInvalidPartitionConfig, partition, partitions)
		}
		set[partition] = struct{}{}
	}

	return &partitionConstraint{
		partitioner: partitioner,
		partitions:  partitions,
		allowed:     set,
		failFast:    failFast,
	}, nil
}

func (c *partitionConstraint) IsValid(id ID) bool {
	_, ok := c.allowed[c.partitioner(id.Text, c.partitions)]
	return ok
}

func (c *partitionConstraint) FailFast() bool { return c.failFast }

type weightedConstraint struct {
	partitioner KeyPartitioner
	partitions  int
	selector    *WeightedSelector
	random      Random
}

// NewWeightedConstraint draws a target partition per attempt and accepts the
// id only if it hashes there. Accepted ids therefore spread over ranges in
// proportion to their weights. Failures are always retryable; expect about
// partitionCount attempts per id.
func NewWeightedConstraint(partitioner KeyPartitioner, partitionCount int, cfg WeightedConfig, random Random) (Constraint, error) {
	if partitioner == nil {
		return nil, fmt.Errorf("%w: partitioner is required", ErrInvalidPartitionConfig)
	}

	selector, err := NewWeightedSelector(partitionCount, cfg)
	if err != nil {
		return nil, err
	}

	if random == nil {
		random = NewSecureRandom()
	}

	return &weightedConstraint{
		partitioner: partitioner,
		partitions:  partitionCount,
		selector:    selector,
		random:      random,
	}, nil
}

func (c *weightedConstraint) IsValid(id ID) bool {
	return c.partitioner(id.Text, c.partitions) == c.selector.Pick(c.random)
}

func (c *weightedConstraint) FailFast() bool { return false }
