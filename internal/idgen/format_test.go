package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type FormatSuite struct {
	suite.Suite

	parser *Parser
	at     time.Time
}

func (s *FormatSuite) SetupTest() {
	s.parser = NewParser(newTestLogger())
	s.at = time.Date(2024, 7, 10, 12, 32, 33, 616_000_000, time.UTC)
}

func (s *FormatSuite) assertID(expect, actual ID) {
	assert.Equal(s.T(), expect.Text, actual.Text)
	assert.Equal(s.T(), expect.Prefix, actual.Prefix)
	assert.Equal(s.T(), expect.Suffix, actual.Suffix)
	assert.Equal(s.T(), expect.Node, actual.Node)
	assert.Equal(s.T(), expect.Exponent, actual.Exponent)
	assert.True(s.T(), expect.GeneratedAt.Equal(actual.GeneratedAt), "%s != %s", expect.GeneratedAt, actual.GeneratedAt)
}

func (s *FormatSuite) TestFormat_TableDriven() {
	tests := []struct {
		name      string
		formatter Formatter
		suffix    string
		expect    string
	}{
		{name: "legacy drops suffix", formatter: Legacy, suffix: "AB1", expect: "2407101232336168748798"},
		{name: "default drops suffix", formatter: Default, suffix: "AB1", expect: "002407101232336168748798"},
		{name: "suffixed keeps suffix", formatter: Suffixed, suffix: "AB1", expect: "012407101232336168748798AB1"},
		{name: "suffixed without suffix", formatter: Suffixed, expect: "012407101232336168748798"},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			assert.Equal(s.T(), tc.expect, tc.formatter.Format(s.at, 8748, 798, tc.suffix))
		})
	}
}

func (s *FormatSuite) TestFormat_Base36EncodesBlock() {
	body := Base36.Format(s.at, 8748, 798, "AB1")

	require.True(s.T(), strings.HasPrefix(body, "02"))
	require.True(s.T(), strings.HasSuffix(body, "AB1"))
	token := body[2 : 2+base36Width]
	assert.Equal(s.T(), strings.ToUpper(token), token)
	assert.Len(s.T(), body, 2+base36Width+3)
}

func (s *FormatSuite) TestFormat_PadsSmallFields() {
	at := time.Date(2001, 2, 3, 4, 5, 6, 7_000_000, time.UTC)
	assert.Equal(s.T(), "000102030405060070001002", Default.Format(at, 1, 2, "")[0:24])
	assert.Equal(s.T(), "010203040506007", Legacy.Format(at, 1, 2, "")[0:15])
}

func (s *FormatSuite) TestFormat_NormalisesToUTC() {
	zone := time.FixedZone("UTC+7", 7*60*60)
	assert.Equal(s.T(), Legacy.Format(s.at, 1, 1, ""), Legacy.Format(s.at.In(zone), 1, 1, ""))
}

func (s *FormatSuite) TestParse_Base36WithDigitOnlyTokenAndSuffix() {
	at := time.Date(2063, 12, 5, 4, 29, 45, 976_000_000, time.UTC)
	text := "P" + Base36.Format(at, 3056, 725, "1234")
	require.Equal(s.T(), "P0201104000000062511234", text)
	require.True(s.T(), legacyPattern.MatchString(text))

	id, ok := s.parser.Parse(text)
	require.True(s.T(), ok)

	s.assertID(ID{
		Text:        text,
		Prefix:      "P",
		Suffix:      "1234",
		Node:        3056,
		Exponent:    725,
		GeneratedAt: at,
	}, id)
}

func (s *FormatSuite) TestParse_LegacyShapeWithBadDateAndNoVersion() {
	_, ok := s.parser.Parse("T9999999999999999999999")
	assert.False(s.T(), ok)
}

func (s *FormatSuite) TestParse_LegacyExample() {
	id, ok := s.parser.Parse("T2407101232336168748798")
	require.True(s.T(), ok)

	s.assertID(ID{
		Text:        "T2407101232336168748798",
		Prefix:      "T",
		Node:        8748,
		Exponent:    798,
		GeneratedAt: s.at,
	}, id)
}

func (s *FormatSuite) TestParse_RoundTrip() {
	tests := []struct {
		name      string
		formatter Formatter
		prefix    string
		suffix    string
		node      int
		exponent  int
	}{
		{name: "legacy", formatter: Legacy, prefix: "T", node: 8748, exponent: 798},
		{name: "legacy without prefix", formatter: Legacy, node: 1, exponent: 0},
		{name: "default", formatter: Default, prefix: "Order", node: 9999, exponent: 999},
		{name: "suffixed", formatter: Suffixed, prefix: "INV", suffix: "EU1", node: 42, exponent: 7},
		{name: "suffixed with digit suffix", formatter: Suffixed, prefix: "X", suffix: "123", node: 0, exponent: 0},
		{name: "base36", formatter: Base36, prefix: "Pay", suffix: "zz9", node: 17, exponent: 500},
		{name: "base36 at zero values", formatter: Base36, prefix: "P", node: 0, exponent: 0},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			expect := ID{
				Text:        tc.prefix + tc.formatter.Format(s.at, tc.node, tc.exponent, tc.suffix),
				Prefix:      tc.prefix,
				Node:        tc.node,
				Exponent:    tc.exponent,
				GeneratedAt: s.at,
			}
			if tc.formatter.keepsSuffix() {
				expect.Suffix = tc.suffix
			}

			id, ok := s.parser.Parse(expect.Text)
			require.True(s.T(), ok, expect.Text)
			s.assertID(expect, id)
		})
	}
}

func (s *FormatSuite) TestParse_RejectsMalformed() {
	inputs := []string{
		"",
		"T",
		"T99" + strings.Repeat("1", 22),
		"T00240710123233616874879",
		"T002407101232336168748798AB1",
		"T01240710123233616874879!",
		"T02!!!",
		"T02ZZZZZZZZZZZZZZZZ",
		"T2407101299336168748798",
		"hello",
	}

	for _, input := range inputs {
		s.Run(input, func() {
			id, ok := s.parser.Parse(input)
			assert.False(s.T(), ok)
			assert.Equal(s.T(), ID{}, id)
		})
	}
}

func (s *FormatSuite) TestFormatterByName() {
	for name, expect := range map[string]Formatter{
		"legacy":     Legacy,
		"default":    Default,
		" Suffixed ": Suffixed,
		"BASE36":     Base36,
	} {
		formatter, err := FormatterByName(name)
		require.NoError(s.T(), err, name)
		assert.Equal(s.T(), expect.Kind(), formatter.Kind())
		assert.Equal(s.T(), expect.Name(), formatter.Name())
	}

	_, err := FormatterByName("hex")
	assert.ErrorContains(s.T(), err, "unknown formatter")
}

func (s *FormatSuite) TestVersionCodes() {
	for formatter, code := range map[FormatterKind]int{KindDefault: 0, KindSuffixed: 1, KindBase36: 2} {
		version, ok := Formatter{kind: formatter}.Version()
		assert.True(s.T(), ok)
		assert.Equal(s.T(), code, version)
	}

	_, ok := Legacy.Version()
	assert.False(s.T(), ok)
}

func TestFormatSuite(t *testing.T) {
	suite.Run(t, new(FormatSuite))
}
