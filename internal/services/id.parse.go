package services

import (
	"context"
	"strings"

	"github.com/joshuarp/idgen-api/internal/domain/vo"
	"github.com/joshuarp/idgen-api/internal/idgen"
)

type ParseService struct {
	parser *idgen.Parser
}

func NewParseService(parser *idgen.Parser) *ParseService {
	return &ParseService{parser: parser}
}

func (s *ParseService) Parse(_ context.Context, text string) (vo.ParsedID, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return vo.ParsedID{}, vo.ErrIDNotParsable
	}

	id, ok := s.parser.Parse(text)
	if !ok {
		return vo.ParsedID{}, vo.ErrIDNotParsable
	}

	return vo.ParsedID{
		ID:          id.Text,
		Prefix:      id.Prefix,
		Suffix:      id.Suffix,
		Node:        id.Node,
		Exponent:    id.Exponent,
		GeneratedAt: id.GeneratedAt,
	}, nil
}
