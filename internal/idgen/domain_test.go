package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	alwaysValid       = NewConstraint(func(ID) bool { return true }, false)
	failsRetryable    = NewConstraint(func(ID) bool { return false }, false)
	failsNonRetryable = NewConstraint(func(ID) bool { return false }, true)
	evenExponent      = NewConstraint(func(id ID) bool { return id.Exponent%2 == 0 }, false)
)

type RegistrySuite struct {
	suite.Suite

	registry *Registry
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry()
}

func (s *RegistrySuite) TestValidate_TableDriven() {
	tests := []struct {
		name        string
		globals     []Constraint
		constraints []Constraint
		skipGlobal  bool
		expect      ValidationState
	}{
		{
			name:   "no constraints is valid",
			expect: Valid,
		},
		{
			name:        "all passing is valid",
			globals:     []Constraint{alwaysValid},
			constraints: []Constraint{alwaysValid},
			expect:      Valid,
		},
		{
			name:        "first failure wins over later fail-fast",
			constraints: []Constraint{failsRetryable, failsNonRetryable},
			expect:      InvalidRetryable,
		},
		{
			name:        "fail-fast first is non retryable",
			constraints: []Constraint{failsNonRetryable, failsRetryable},
			expect:      InvalidNonRetryable,
		},
		{
			name:        "global failure is evaluated before domain constraints",
			globals:     []Constraint{failsRetryable},
			constraints: []Constraint{failsNonRetryable},
			expect:      InvalidRetryable,
		},
		{
			name:        "skip global ignores failing globals",
			globals:     []Constraint{failsNonRetryable},
			constraints: []Constraint{alwaysValid},
			skipGlobal:  true,
			expect:      Valid,
		},
		{
			name:    "global fail-fast is non retryable",
			globals: []Constraint{alwaysValid, failsNonRetryable},
			expect:  InvalidNonRetryable,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			s.SetupTest()
			if len(tc.globals) > 0 {
				require.NoError(s.T(), s.registry.RegisterGlobalConstraints(tc.globals))
			}

			state := s.registry.Validate(tc.constraints, ID{Text: "X1"}, tc.skipGlobal)
			assert.Equal(s.T(), tc.expect, state, state.String())
		})
	}
}

func (s *RegistrySuite) TestRegisterGlobalConstraints_RejectsEmptyList() {
	assert.ErrorIs(s.T(), s.registry.RegisterGlobalConstraints(nil), ErrEmptyConstraints)
	assert.ErrorIs(s.T(), s.registry.RegisterGlobalConstraints([]Constraint{}), ErrEmptyConstraints)
	assert.ErrorIs(s.T(), s.registry.RegisterGlobalConstraints([]Constraint{nil}), ErrNilConstraint)
}

func (s *RegistrySuite) TestRegisterDomainSpecificConstraints_InsertIfAbsent() {
	require.NoError(s.T(), s.registry.RegisterDomainSpecificConstraints("orders", []Constraint{evenExponent}))
	first, ok := s.registry.Lookup("orders")
	require.True(s.T(), ok)

	require.NoError(s.T(), s.registry.RegisterDomainSpecificConstraints("orders", []Constraint{failsNonRetryable}))
	second, ok := s.registry.Lookup("orders")
	require.True(s.T(), ok)

	assert.Same(s.T(), first, second)
	assert.Len(s.T(), second.Constraints(), 1)
	assert.ErrorIs(s.T(), s.registry.RegisterDomainSpecificConstraints("orders", nil), ErrEmptyConstraints)
}

func (s *RegistrySuite) TestRegisterDomain_ReplacesByName() {
	first, err := NewDomain("payments", []Constraint{alwaysValid})
	require.NoError(s.T(), err)
	second, err := NewDomain("payments", []Constraint{evenExponent, alwaysValid})
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.registry.RegisterDomain(first))
	require.NoError(s.T(), s.registry.RegisterDomain(second))

	assert.Same(s.T(), second, s.registry.Domain("payments"))
	assert.Error(s.T(), s.registry.RegisterDomain(nil))
}

func (s *RegistrySuite) TestRegisterDomain_ReplacementInheritsChecker() {
	first, err := NewDomain("payments", []Constraint{alwaysValid})
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.registry.RegisterDomain(first))
	require.True(s.T(), first.Checker().Reserve(10, 7))

	second, err := NewDomain("payments", []Constraint{evenExponent})
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.registry.RegisterDomain(second))

	assert.Same(s.T(), first.Checker(), second.Checker())
	assert.False(s.T(), s.registry.Domain("payments").Checker().Reserve(10, 7))
	require.NoError(s.T(), s.registry.RegisterDomain(second))
	assert.Same(s.T(), first.Checker(), second.Checker())
}

func (s *RegistrySuite) TestValidate_PanickingConstraintIsRetryable() {
	panicking := NewConstraint(func(ID) bool { panic("boom") }, true)

	assert.Equal(s.T(), InvalidRetryable, s.registry.Validate([]Constraint{panicking}, ID{Text: "T1"}, false))
	assert.Equal(s.T(), InvalidNonRetryable, s.registry.Validate([]Constraint{failsNonRetryable, panicking}, ID{Text: "T1"}, false))
}

func (s *RegistrySuite) TestDomain_FallsBackToDefault() {
	domain := s.registry.Domain("unknown")
	assert.Equal(s.T(), DefaultDomainName, domain.Name())
	assert.Same(s.T(), s.registry.Default(), domain)
}

func (s *RegistrySuite) TestDomains_OwnIndependentCheckers() {
	require.NoError(s.T(), s.registry.RegisterDomainSpecificConstraints("a", []Constraint{alwaysValid}))
	require.NoError(s.T(), s.registry.RegisterDomainSpecificConstraints("b", []Constraint{alwaysValid}))

	assert.True(s.T(), s.registry.Domain("a").Checker().Reserve(10, 1))
	assert.True(s.T(), s.registry.Domain("b").Checker().Reserve(10, 1))
	assert.True(s.T(), s.registry.Default().Checker().Reserve(10, 1))
}

func (s *RegistrySuite) TestReset_DropsRegistrations() {
	require.NoError(s.T(), s.registry.RegisterGlobalConstraints([]Constraint{failsNonRetryable}))
	require.NoError(s.T(), s.registry.RegisterDomainSpecificConstraints("orders", []Constraint{alwaysValid}))
	defaultBefore := s.registry.Default()

	s.registry.Reset()

	_, ok := s.registry.Lookup("orders")
	assert.False(s.T(), ok)
	assert.Equal(s.T(), []string{DefaultDomainName}, s.registry.Names())
	assert.NotSame(s.T(), defaultBefore, s.registry.Default())
	assert.Equal(s.T(), Valid, s.registry.Validate(nil, ID{}, false))
}

func (s *RegistrySuite) TestNewDomain_TableDriven() {
	tests := []struct {
		name        string
		domainName  string
		constraints []Constraint
		opts        []DomainOption
		assertion   func(*Domain, error)
	}{
		{
			name:       "blank name",
			domainName: "  ",
			assertion: func(domain *Domain, err error) {
				assert.ErrorIs(s.T(), err, ErrInvalidDomain)
				assert.Nil(s.T(), domain)
			},
		},
		{
			name:        "nil constraint",
			domainName:  "orders",
			constraints: []Constraint{nil},
			assertion: func(_ *Domain, err error) {
				assert.ErrorIs(s.T(), err, ErrNilConstraint)
			},
		},
		{
			name:       "invalid weighted partitions",
			domainName: "orders",
			opts: []DomainOption{WithWeightedPartitions(JavaHashPartitioner, 4, WeightedConfig{
				Partitions: []WeightedPartition{{Range: PartitionRange{Start: 0, End: 1}, Weight: 1}},
			})},
			assertion: func(_ *Domain, err error) {
				assert.ErrorIs(s.T(), err, ErrInvalidDomain)
				assert.ErrorIs(s.T(), err, ErrInvalidPartitionConfig)
			},
		},
		{
			name:        "weighted partitions append a constraint",
			domainName:  "orders",
			constraints: []Constraint{alwaysValid},
			opts: []DomainOption{WithWeightedPartitions(JavaHashPartitioner, 4, WeightedConfig{
				Partitions: []WeightedPartition{{Range: PartitionRange{Start: 0, End: 3}, Weight: 2}},
			})},
			assertion: func(domain *Domain, err error) {
				require.NoError(s.T(), err)
				assert.Equal(s.T(), "orders", domain.Name())
				assert.Len(s.T(), domain.Constraints(), 2)
				assert.NotNil(s.T(), domain.Checker())
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			domain, err := NewDomain(tc.domainName, tc.constraints, tc.opts...)
			tc.assertion(domain, err)
		})
	}
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func TestValidationState_String(t *testing.T) {
	assert.Equal(t, "VALID", Valid.String())
	assert.Equal(t, "INVALID_RETRYABLE", InvalidRetryable.String())
	assert.Equal(t, "INVALID_NON_RETRYABLE", InvalidNonRetryable.String())
	assert.Equal(t, "ValidationState(9)", ValidationState(9).String())
}
