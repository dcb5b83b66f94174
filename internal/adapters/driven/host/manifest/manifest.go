package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/typefinder/internal/adapters/driven/host/memory"
	"github.com/custodia-labs/typefinder/internal/core/domain"
)

// Format is a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf derives the encoding from a file name: "x.module.toml" is TOML,
// "x.module.yaml" and "x.module.yml" are YAML.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

// Header identifies the module a manifest declares.
type Header struct {
	Path     string   `toml:"path" yaml:"path"`
	Version  string   `toml:"version" yaml:"version"`
	Requires []string `toml:"requires" yaml:"requires"`
}

// TypeEntry declares one type.
type TypeEntry struct {
	ID         string   `toml:"id" yaml:"id"`
	Kind       string   `toml:"kind" yaml:"kind"`
	Abstract   bool     `toml:"abstract" yaml:"abstract"`
	Open       bool     `toml:"open" yaml:"open"`
	Base       string   `toml:"base" yaml:"base"`
	Interfaces []string `toml:"interfaces" yaml:"interfaces"`
}

// Manifest is a declarative module: its identity and its type table.
type Manifest struct {
	Module Header      `toml:"module" yaml:"module"`
	Types  []TypeEntry `toml:"types" yaml:"types"`
}

// identityOnly decodes the header and ignores the type table.
type identityOnly struct {
	Module Header `toml:"module" yaml:"module"`
}

// Decode parses a manifest. The module path is required.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	if err := unmarshal(data, format, &m); err != nil {
		return nil, err
	}
	if m.Module.Path == "" {
		return nil, fmt.Errorf("%w: manifest has no module path", domain.ErrBadImageFormat)
	}
	return &m, nil
}

// DecodeHeader parses only the [module] table.
func DecodeHeader(data []byte, format Format) (Header, error) {
	var m identityOnly
	if err := unmarshal(data, format, &m); err != nil {
		return Header{}, err
	}
	if m.Module.Path == "" {
		return Header{}, fmt.Errorf("%w: manifest has no module path", domain.ErrBadImageFormat)
	}
	return m.Module, nil
}

// ReadFile reads and decodes the manifest at path.
func ReadFile(path string) (*Manifest, error) {
	data, format, err := read(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, format)
}

func read(path string) ([]byte, Format, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s has no manifest extension", domain.ErrBadImageFormat, path)
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}

func unmarshal(data []byte, format Format, v any) error {
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, v)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(v)
	default:
		return fmt.Errorf("%w: unknown manifest format %q", domain.ErrBadImageFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadImageFormat, err)
	}
	return nil
}

// Identity returns the module identity declared by the header.
func (h Header) Identity() domain.Module {
	return domain.Module{Path: h.Path, Version: h.Version}
}

// ModuleDef converts the manifest into a registry module definition.
// Unknown kinds and types without an ID are rejected.
func (m *Manifest) ModuleDef(location string) (memory.ModuleDef, error) {
	identity := m.Module.Identity()
	identity.Location = location

	types := make([]domain.TypeDescriptor, 0, len(m.Types))
	for i, entry := range m.Types {
		t, err := entry.descriptor()
		if err != nil {
			return memory.ModuleDef{}, fmt.Errorf("%s type %d: %w", identity.FullName(), i, err)
		}
		types = append(types, t)
	}

	return memory.ModuleDef{
		Module:   identity,
		Requires: m.Module.Requires,
		Types:    types,
	}, nil
}

func (e TypeEntry) descriptor() (domain.TypeDescriptor, error) {
	if e.ID == "" {
		return domain.TypeDescriptor{}, fmt.Errorf("%w: type id is required", domain.ErrInvalidInput)
	}

	t := domain.TypeDescriptor{
		ID:       domain.TypeID(e.ID),
		Abstract: e.Abstract,
		Open:     e.Open,
	}
	switch strings.ToLower(e.Kind) {
	case "", "class", "struct":
		t.Kind = domain.KindClass
	case "interface":
		t.Kind = domain.KindInterface
	default:
		return domain.TypeDescriptor{}, fmt.Errorf("%w: unknown kind %q for %s", domain.ErrInvalidInput, e.Kind, e.ID)
	}

	if e.Base != "" {
		base := domain.ParseTypeRef(domain.TypeID(e.Base))
		t.Base = &base
	}
	for _, iface := range e.Interfaces {
		t.Interfaces = append(t.Interfaces, domain.ParseTypeRef(domain.TypeID(iface)))
	}
	return t, nil
}
