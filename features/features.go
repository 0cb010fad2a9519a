// Package features defines the per-format syntax toggles consumed by the
// parsers and writers. A Set is an immutable value: construct one with the
// per-format default function and functional options, then share it across
// any number of parses of that format.
package features

import "github.com/superscary/superconfig/format"

// Set is the feature configuration for one format. The zero value is
// strict JSON: every relaxation off.
type Set struct {
	format format.Format

	comments            bool
	trailingCommas      bool
	unquotedKeys        bool
	singleQuotes        bool
	leadingZeros        bool
	leadingDecimalPoint bool
	multilineStrings    bool

	literalStrings bool
	inlineTables   bool
	arrayOfTables  bool

	anchors    bool
	yamlTags   bool
	flowStyle  bool
	blockStyle bool

	typeAnnotations bool
	rawStrings      bool
	slashdash       bool

	attributes             bool
	processingInstructions bool
}

type Option func(*Set)

func WithComments(v bool) Option            { return func(s *Set) { s.comments = v } }
func WithTrailingCommas(v bool) Option      { return func(s *Set) { s.trailingCommas = v } }
func WithUnquotedKeys(v bool) Option        { return func(s *Set) { s.unquotedKeys = v } }
func WithSingleQuotes(v bool) Option        { return func(s *Set) { s.singleQuotes = v } }
func WithLeadingZeros(v bool) Option        { return func(s *Set) { s.leadingZeros = v } }
func WithLeadingDecimalPoint(v bool) Option { return func(s *Set) { s.leadingDecimalPoint = v } }
func WithMultilineStrings(v bool) Option    { return func(s *Set) { s.multilineStrings = v } }
func WithLiteralStrings(v bool) Option      { return func(s *Set) { s.literalStrings = v } }
func WithInlineTables(v bool) Option        { return func(s *Set) { s.inlineTables = v } }
func WithArrayOfTables(v bool) Option       { return func(s *Set) { s.arrayOfTables = v } }
func WithAnchors(v bool) Option             { return func(s *Set) { s.anchors = v } }
func WithTags(v bool) Option                { return func(s *Set) { s.yamlTags = v } }
func WithFlowStyle(v bool) Option           { return func(s *Set) { s.flowStyle = v } }
func WithBlockStyle(v bool) Option          { return func(s *Set) { s.blockStyle = v } }
func WithTypeAnnotations(v bool) Option     { return func(s *Set) { s.typeAnnotations = v } }
func WithRawStrings(v bool) Option          { return func(s *Set) { s.rawStrings = v } }
func WithSlashdash(v bool) Option           { return func(s *Set) { s.slashdash = v } }
func WithAttributes(v bool) Option          { return func(s *Set) { s.attributes = v } }

func WithProcessingInstructions(v bool) Option {
	return func(s *Set) { s.processingInstructions = v }
}

// JSON returns the strict JSON feature set. Strict JSON is fixed: no
// comments, no trailing commas, quoted keys only, double quotes only.
func JSON(opts ...Option) Set {
	s := Set{format: format.JSONFormat}
	return s.with(opts)
}

// JSON5 returns the JSON5 defaults, every relaxation on.
func JSON5(opts ...Option) Set {
	s := Set{
		format:              format.JSON5Format,
		comments:            true,
		trailingCommas:      true,
		unquotedKeys:        true,
		singleQuotes:        true,
		leadingZeros:        true,
		leadingDecimalPoint: true,
		multilineStrings:    true,
	}
	return s.with(opts)
}

// YAML returns the YAML defaults.
func YAML(opts ...Option) Set {
	s := Set{
		format:     format.YAMLFormat,
		comments:   true,
		anchors:    true,
		yamlTags:   true,
		flowStyle:  true,
		blockStyle: true,
	}
	return s.with(opts)
}

// TOML returns the TOML defaults.
func TOML(opts ...Option) Set {
	s := Set{
		format:           format.TOMLFormat,
		comments:         true,
		multilineStrings: true,
		literalStrings:   true,
		inlineTables:     true,
		arrayOfTables:    true,
	}
	return s.with(opts)
}

// XML returns the XML defaults.
func XML(opts ...Option) Set {
	s := Set{
		format:     format.XMLFormat,
		comments:   true,
		attributes: true,
	}
	return s.with(opts)
}

// KDL returns the KDL defaults.
func KDL(opts ...Option) Set {
	s := Set{
		format:           format.KDLFormat,
		comments:         true,
		multilineStrings: true,
		typeAnnotations:  true,
		rawStrings:       true,
		slashdash:        true,
	}
	return s.with(opts)
}

// Default returns the default feature set for f.
func Default(f format.Format) Set {
	switch f {
	case format.JSON5Format:
		return JSON5()
	case format.YAMLFormat:
		return YAML()
	case format.TOMLFormat:
		return TOML()
	case format.XMLFormat:
		return XML()
	case format.KDLFormat:
		return KDL()
	default:
		return JSON()
	}
}

func (s Set) with(opts []Option) Set {
	for _, o := range opts {
		o(&s)
	}
	return s
}

func (s Set) Format() format.Format { return s.format }

func (s Set) Comments() bool            { return s.comments }
func (s Set) TrailingCommas() bool      { return s.trailingCommas }
func (s Set) UnquotedKeys() bool        { return s.unquotedKeys }
func (s Set) SingleQuotes() bool        { return s.singleQuotes }
func (s Set) LeadingZeros() bool        { return s.leadingZeros }
func (s Set) LeadingDecimalPoint() bool { return s.leadingDecimalPoint }
func (s Set) MultilineStrings() bool    { return s.multilineStrings }
func (s Set) LiteralStrings() bool      { return s.literalStrings }
func (s Set) InlineTables() bool        { return s.inlineTables }
func (s Set) ArrayOfTables() bool       { return s.arrayOfTables }
func (s Set) Anchors() bool             { return s.anchors }
func (s Set) Tags() bool                { return s.yamlTags }
func (s Set) FlowStyle() bool           { return s.flowStyle }
func (s Set) BlockStyle() bool          { return s.blockStyle }
func (s Set) TypeAnnotations() bool     { return s.typeAnnotations }
func (s Set) RawStrings() bool          { return s.rawStrings }
func (s Set) Slashdash() bool           { return s.slashdash }
func (s Set) Attributes() bool          { return s.attributes }

func (s Set) ProcessingInstructions() bool { return s.processingInstructions }
