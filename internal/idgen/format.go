package idgen

import (
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FormatterKind tags the wire layouts. The set is closed; version codes are
// a durable contract and must never be reassigned.
type FormatterKind int

const (
	KindLegacy FormatterKind = iota
	KindDefault
	KindSuffixed
	KindBase36
)

// Decorator is a reversible transform layered over a formatter's output.
type Decorator int

const (
	DecoratorBase36 Decorator = iota + 1
)

const (
	dateLayout  = "060102150405"
	dateDigits  = 15
	blockDigits = 22
	base36Width = 16
)

var (
	errMalformed = errors.New("idgen: malformed id")

	legacyPattern    = regexp.MustCompile(`^([A-Za-z]*)([0-9]{15})([0-9]{4})([0-9]{3})$`)
	versionPattern   = regexp.MustCompile(`^([A-Za-z]*)([0-9]{2})(.*)$`)
	versionedPattern = regexp.MustCompile(`^([A-Za-z]*)([0-9]{2})([0-9]{15})([0-9]{4})([0-9]{3})([A-Za-z0-9]*)$`)
	plainBlock       = regexp.MustCompile(`^([A-Za-z]*)([0-9]{2})([0-9]{22})(.*)$`)
	base36Block      = regexp.MustCompile(`^([A-Za-z]*)([0-9]{2})([A-Z0-9]{16})(.*)$`)

	maxBlock = new(big.Int).Exp(big.NewInt(10), big.NewInt(blockDigits), nil)
)

// Formatter encodes (time, node, exponent, suffix) into an id body and
// parses ids back.
type Formatter struct {
	kind       FormatterKind
	decorators []Decorator
}

var (
	Legacy   = Formatter{kind: KindLegacy}
	Default  = Formatter{kind: KindDefault}
	Suffixed = Formatter{kind: KindSuffixed}
	Base36   = Formatter{kind: KindBase36, decorators: []Decorator{DecoratorBase36}}
)

var byVersion = map[int]Formatter{
	0: Default,
	1: Suffixed,
	2: Base36,
}

var byName = map[string]Formatter{
	"legacy":   Legacy,
	"default":  Default,
	"suffixed": Suffixed,
	"base36":   Base36,
}

// FormatterByName resolves a formatter from its transport name.
func FormatterByName(name string) (Formatter, error) {
	formatter, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Formatter{}, fmt.Errorf("idgen: unknown formatter %q", name)
	}
	return formatter, nil
}

func (f Formatter) Kind() FormatterKind { return f.kind }

// Version returns the two-digit code; legacy ids carry none.
func (f Formatter) Version() (int, bool) {
	switch f.kind {
	case KindDefault:
		return 0, true
	case KindSuffixed:
		return 1, true
	case KindBase36:
		return 2, true
	default:
		return 0, false
	}
}

func (f Formatter) Name() string {
	switch f.kind {
	case KindLegacy:
		return "legacy"
	case KindDefault:
		return "default"
	case KindSuffixed:
		return "suffixed"
	case KindBase36:
		return "base36"
	default:
		return fmt.Sprintf("kind(%d)", int(f.kind))
	}
}

func (f Formatter) keepsSuffix() bool {
	return f.kind == KindSuffixed || f.kind == KindBase36
}

// Format renders the id body. Legacy and default layouts drop the suffix.
func (f Formatter) Format(at time.Time, node, exponent int, suffix string) string {
	block := formatBlock(at, node, exponent)

	version, versioned := f.Version()
	if !versioned {
		return block
	}

	body := fmt.Sprintf("%02d%s", version, block)
	if f.keepsSuffix() {
		body += suffix
	}

	for _, decorator := range f.decorators {
		body = decorator.apply(body)
	}
	return body
}

func (f Formatter) parse(text string) (ID, error) {
	if f.kind == KindLegacy {
		return parseLegacy(text)
	}

	plain := text
	for i := len(f.decorators) - 1; i >= 0; i-- {
		var err error
		plain, err = f.decorators[i].reverse(plain)
		if err != nil {
			return ID{}, err
		}
	}

	match := versionedPattern.FindStringSubmatch(plain)
	if match == nil {
		return ID{}, fmt.Errorf("%w: %q does not match the %s layout", errMalformed, text, f.Name())
	}

	version, _ := f.Version()
	if code, _ := strconv.Atoi(match[2]); code != version {
		return ID{}, fmt.Errorf("%w: version %s is not %s", errMalformed, match[2], f.Name())
	}
	if !f.keepsSuffix() && match[6] != "" {
		return ID{}, fmt.Errorf("%w: %s ids carry no suffix", errMalformed, f.Name())
	}

	return buildID(text, match[1], match[6], match[3], match[4], match[5])
}

func formatBlock(at time.Time, node, exponent int) string {
	at = at.UTC()
	return fmt.Sprintf("%s%03d%04d%03d", at.Format(dateLayout), at.Nanosecond()/int(time.Millisecond), node, exponent)
}

func parseLegacy(text string) (ID, error) {
	match := legacyPattern.FindStringSubmatch(text)
	if match == nil {
		return ID{}, fmt.Errorf("%w: %q does not match the legacy layout", errMalformed, text)
	}
	return buildID(text, match[1], "", match[2], match[3], match[4])
}

func buildID(text, prefix, suffix, date, node, exponent string) (ID, error) {
	at, err := parseDate(date)
	if err != nil {
		return ID{}, err
	}

	nodeValue, err := strconv.Atoi(node)
	if err != nil {
		return ID{}, fmt.Errorf("%w: node %q: %w", errMalformed, node, err)
	}

	exponentValue, err := strconv.Atoi(exponent)
	if err != nil {
		return ID{}, fmt.Errorf("%w: exponent %q: %w", errMalformed, exponent, err)
	}

	return ID{
		Text:        text,
		Prefix:      prefix,
		Suffix:      suffix,
		Node:        nodeValue,
		Exponent:    exponentValue,
		GeneratedAt: at,
	}, nil
}

func parseDate(date string) (time.Time, error) {
	if len(date) != dateDigits {
		return time.Time{}, fmt.Errorf("%w: date %q must have %d digits", errMalformed, date, dateDigits)
	}

	at, err := time.ParseInLocation(dateLayout, date[:12], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", errMalformed, date, err)
	}

	millis, err := strconv.Atoi(date[12:])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %w", errMalformed, date, err)
	}

	return at.Add(time.Duration(millis) * time.Millisecond), nil
}

func (d Decorator) apply(body string) string {
	switch d {
	case DecoratorBase36:
		match := plainBlock.FindStringSubmatch(body)
		if match == nil {
			return body
		}
		block, _ := new(big.Int).SetString(match[3], 10)
		token := strings.ToUpper(block.Text(36))
		return match[1] + match[2] + leftPad(token, base36Width) + match[4]
	default:
		return body
	}
}

func (d Decorator) reverse(text string) (string, error) {
	switch d {
	case DecoratorBase36:
		match := base36Block.FindStringSubmatch(text)
		if match == nil {
			return "", fmt.Errorf("%w: %q has no base36 token", errMalformed, text)
		}
		block, ok := new(big.Int).SetString(match[3], 36)
		if !ok || block.Cmp(maxBlock) >= 0 {
			return "", fmt.Errorf("%w: base36 token %q out of range", errMalformed, match[3])
		}
		return match[1] + match[2] + leftPad(block.Text(10), blockDigits) + match[4], nil
	default:
		return "", fmt.Errorf("idgen: unknown decorator %d", int(d))
	}
}

func leftPad(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return strings.Repeat("0", width-len(value)) + value
}

// Parser turns opaque id strings back into IDs.
type Parser struct {
	logger *slog.Logger
}

// NewParser returns a parser logging rejected input to logger.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse detects legacy ids structurally and everything else by version code.
// A legacy-shaped string whose date does not parse is retried as a versioned
// id, since an all-digit base36 token with a four digit suffix has the same
// shape. Unrecognised or malformed input yields ok == false.
func (p *Parser) Parse(text string) (ID, bool) {
	id, err := parse(text)
	if err != nil {
		p.logger.Warn("could not parse id", "id", text, "error", err)
		return ID{}, false
	}
	return id, true
}

func parse(text string) (ID, error) {
	var legacyErr error
	if legacyPattern.MatchString(text) {
		id, err := parseLegacy(text)
		if err == nil {
			return id, nil
		}
		legacyErr = err
	}

	id, err := parseVersioned(text)
	if err != nil && legacyErr != nil {
		return ID{}, fmt.Errorf("%w; as versioned id: %w", legacyErr, err)
	}
	return id, err
}

func parseVersioned(text string) (ID, error) {
	match := versionPattern.FindStringSubmatch(text)
	if match == nil {
		return ID{}, fmt.Errorf("%w: %q carries no version code", errMalformed, text)
	}

	code, err := strconv.Atoi(match[2])
	if err != nil {
		return ID{}, fmt.Errorf("%w: version %q: %w", errMalformed, match[2], err)
	}

	formatter, ok := byVersion[code]
	if !ok {
		return ID{}, fmt.Errorf("%w: unknown version %02d", errMalformed, code)
	}

	return formatter.parse(text)
}
