package derive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrEmptySchema is returned for a schema that declares no struct.
var ErrEmptySchema = errors.New("schema declares no struct")

// Schema is the input of the generators, usually decoded from a TOML file.
type Schema struct {
	Package string   `toml:"package"`
	Structs []Struct `toml:"struct"`
}

// Struct is one target type and its field list.
type Struct struct {
	Name   string  `toml:"name"`
	Fields []Field `toml:"field"`
}

// Field describes one struct field. Each and Debug are optional attributes.
type Field struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
	// Each names a per-element appender on the builder; slice fields only.
	Each string `toml:"each"`
	// Debug overrides the fmt verb used by String().
	Debug string `toml:"debug"`
}

type fieldShape uint8

const (
	shapePlain fieldShape = iota
	shapePointer
	shapeSlice
)

// analysed field, filled in by Validate
type fieldInfo struct {
	Field
	shape fieldShape
	elem  string // element type for pointer and slice fields
	priv  string // builder field name
}

var verbRe = regexp.MustCompile(`^%[-+# 0]*\d*(\.\d+)?[a-zA-Z]$`)

// LoadSchema decodes a TOML schema file and validates it.
func LoadSchema(path string) (*Schema, error) {
	var s Schema
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &s, nil
}

// ParseSchema decodes a TOML schema held in memory and validates it.
func ParseSchema(data string) (*Schema, error) {
	var s Schema
	md, err := toml.Decode(data, &s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
	}
	return fmt.Errorf("unknown schema keys: %s", strings.Join(names, ", "))
}

// Validate checks names, types and attributes. Every problem is reported.
func (s *Schema) Validate() error {
	if len(s.Structs) == 0 {
		return ErrEmptySchema
	}
	var errs []error
	if s.Package == "" {
		errs = append(errs, errors.New("package name is empty"))
	} else if !token.IsIdentifier(s.Package) {
		errs = append(errs, fmt.Errorf("package %q is not a Go identifier", s.Package))
	}
	seen := make(map[string]bool, len(s.Structs))
	for i := range s.Structs {
		st := &s.Structs[i]
		if seen[st.Name] {
			errs = append(errs, fmt.Errorf("struct %s declared twice", st.Name))
		}
		seen[st.Name] = true
		if _, err := analyse(st); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func analyse(st *Struct) ([]fieldInfo, error) {
	var errs []error
	if !token.IsIdentifier(st.Name) || !token.IsExported(st.Name) {
		errs = append(errs, fmt.Errorf("struct name %q must be an exported Go identifier", st.Name))
	}
	infos := make([]fieldInfo, 0, len(st.Fields))
	names := make(map[string]bool, len(st.Fields))
	methods := map[string]bool{"Build": true}
	for _, f := range st.Fields {
		where := fmt.Sprintf("%s.%s", st.Name, f.Name)
		if !token.IsIdentifier(f.Name) || !token.IsExported(f.Name) {
			errs = append(errs, fmt.Errorf("%s: field name must be an exported Go identifier", where))
			continue
		}
		if names[f.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate field", where))
			continue
		}
		names[f.Name] = true

		info := fieldInfo{Field: f, priv: privateName(f.Name)}
		expr, err := parser.ParseExpr(f.Type)
		if err != nil || f.Type == "" {
			errs = append(errs, fmt.Errorf("%s: invalid type %q", where, f.Type))
			continue
		}
		switch t := expr.(type) {
		case *ast.StarExpr:
			info.shape = shapePointer
			info.elem = f.Type[t.X.Pos()-1:]
		case *ast.ArrayType:
			if t.Len == nil {
				info.shape = shapeSlice
				info.elem = f.Type[t.Elt.Pos()-1:]
			}
		}

		if f.Each != "" {
			switch {
			case info.shape != shapeSlice:
				errs = append(errs, fmt.Errorf("%s: each requires a slice field, got %s", where, f.Type))
			case !token.IsIdentifier(f.Each) || !token.IsExported(f.Each):
				errs = append(errs, fmt.Errorf("%s: each %q must be an exported Go identifier", where, f.Each))
			}
		}
		if f.Debug != "" && !verbRe.MatchString(f.Debug) {
			errs = append(errs, fmt.Errorf("%s: debug %q must be a single fmt verb", where, f.Debug))
		}

		for _, m := range info.methodNames() {
			if methods[m] {
				errs = append(errs, fmt.Errorf("%s: builder method %s collides with another method", where, m))
			}
			methods[m] = true
		}
		infos = append(infos, info)
	}
	return infos, errors.Join(errs...)
}

func (f fieldInfo) methodNames() []string {
	switch {
	case f.Each == "":
		return []string{f.Name}
	case f.Each == f.Name:
		return []string{f.Each}
	default:
		return []string{f.Each, f.Name}
	}
}

func privateName(name string) string {
	p := strings.ToLower(name[:1]) + name[1:]
	if token.IsKeyword(p) {
		p += "_"
	}
	return p
}
