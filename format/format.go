package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	JSONFormat Format = iota
	JSON5Format
	YAMLFormat
	TOMLFormat
	XMLFormat
	KDLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":     JSONFormat,
		"json":  JSONFormat,
		"j5":    JSON5Format,
		"json5": JSON5Format,
		"y":     YAMLFormat,
		"yml":   YAMLFormat,
		"yaml":  YAMLFormat,
		"t":     TOMLFormat,
		"toml":  TOMLFormat,
		"x":     XMLFormat,
		"xml":   XMLFormat,
		"k":     KDLFormat,
		"kdl":   KDLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// FromPath maps a file name to its format by extension.
func FromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrBadFormat, path)
	}
	return ParseFormat(strings.ToLower(ext))
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case JSON5Format:
		return []byte("json5"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case TOMLFormat:
		return []byte("toml"), nil
	case XMLFormat:
		return []byte("xml"), nil
	case KDLFormat:
		return []byte("kdl"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsJSON() bool  { return f == JSONFormat }
func (f Format) IsJSON5() bool { return f == JSON5Format }
func (f Format) IsYAML() bool  { return f == YAMLFormat }
func (f Format) IsTOML() bool  { return f == TOMLFormat }
func (f Format) IsXML() bool   { return f == XMLFormat }
func (f Format) IsKDL() bool   { return f == KDLFormat }

// Suffix returns the canonical file extension for this format, including
// the dot.
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case JSON5Format:
		return ".json5"
	case YAMLFormat:
		return ".yaml"
	case TOMLFormat:
		return ".toml"
	case XMLFormat:
		return ".xml"
	case KDLFormat:
		return ".kdl"
	default:
		return ""
	}
}

// Suffixes returns every file extension the format is recognized under.
func (f Format) Suffixes() []string {
	if f == YAMLFormat {
		return []string{".yml", ".yaml"}
	}
	return []string{f.Suffix()}
}

// CommentSyntax returns the line comment prefix and suffix for this
// format. Strict JSON has no comment syntax; both strings are empty.
func (f Format) CommentSyntax() (prefix, suffix string) {
	switch f {
	case JSON5Format, KDLFormat:
		return "// ", ""
	case YAMLFormat, TOMLFormat:
		return "# ", ""
	case XMLFormat:
		return "<!-- ", " -->"
	default:
		return "", ""
	}
}

// AllFormats returns all supported formats in preference order.
func AllFormats() []Format {
	return []Format{JSONFormat, JSON5Format, YAMLFormat, TOMLFormat, XMLFormat, KDLFormat}
}
