package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/formulate/pkg/ident"
)

// fileSpec is the on-disk shape of a backend definition.
type fileSpec struct {
	Name          string         `koanf:"name" yaml:"name" json:"name"`
	Normalization Normalization  `koanf:"normalization" yaml:"normalization,omitempty" json:"normalization,omitempty"`
	Operators     []operatorSpec `koanf:"operators" yaml:"operators,omitempty" json:"operators,omitempty"`
	Functions     []functionSpec `koanf:"functions" yaml:"functions,omitempty" json:"functions,omitempty"`
	Constants     []constantSpec `koanf:"constants" yaml:"constants,omitempty" json:"constants,omitempty"`
}

type operatorSpec struct {
	ID            string     `koanf:"id" yaml:"id" json:"id"`
	Token         string     `koanf:"token" yaml:"token" json:"token"`
	Fixity        Fixity     `koanf:"fixity" yaml:"fixity,omitempty" json:"fixity,omitempty"`
	Precedence    Precedence `koanf:"precedence" yaml:"precedence" json:"precedence"`
	Associativity Assoc      `koanf:"associativity" yaml:"associativity,omitempty" json:"associativity,omitempty"`
}

type functionSpec struct {
	ID    string `koanf:"id" yaml:"id" json:"id"`
	Token string `koanf:"token" yaml:"token" json:"token"`
	Arity int    `koanf:"arity" yaml:"arity,omitempty" json:"arity,omitempty"`
}

type constantSpec struct {
	ID    string `koanf:"id" yaml:"id" json:"id"`
	Token string `koanf:"token" yaml:"token,omitempty" json:"token,omitempty"`
	Value any    `koanf:"value" yaml:"value,omitempty" json:"value,omitempty"`
}

// LoadFile reads a backend definition from a YAML file.
func LoadFile(path string) (*Backend, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
		return nil, fmt.Errorf("error reading backend file %s: %w", path, err)
	}

	var spec fileSpec
	if err := k.UnmarshalWithConf("", &spec, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &spec,
		},
	}); err != nil {
		return nil, &ConfigError{Backend: filepath.Base(path), Problems: []string{err.Error()}}
	}

	b, err := spec.builder().Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// LoadDir reads every *.yaml and *.yml file in dir, in name order.
// All files are attempted; the returned error joins every failure.
func LoadDir(dir string) ([]*Backend, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backends directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var (
		out  []*Backend
		errs []error
	)
	for _, p := range paths {
		b, err := LoadFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, b)
	}
	return out, errors.Join(errs...)
}

// builder resolves identifier names and turns the parsed file into a Builder.
// Unknown names are recorded on the builder so that Build reports them
// alongside any other problem.
func (s *fileSpec) builder() *Builder {
	bb := New(s.Name).Normalization(s.Normalization)

	ops := make([]OperatorDef, 0, len(s.Operators))
	for i, o := range s.Operators {
		id, ok := bb.resolve(o.ID, "operators", i)
		if !ok {
			continue
		}
		ops = append(ops, OperatorDef{
			ID:         id,
			Token:      o.Token,
			Fixity:     o.Fixity,
			Precedence: o.Precedence,
			Assoc:      o.Associativity,
		})
	}
	bb.Operators(ops)

	for i, f := range s.Functions {
		if id, ok := bb.resolve(f.ID, "functions", i); ok {
			bb.Functions(FunctionDef{ID: id, Token: f.Token, Arity: f.Arity})
		}
	}
	for i, c := range s.Constants {
		if id, ok := bb.resolve(c.ID, "constants", i); ok {
			bb.Constants(ConstantDef{ID: id, Token: c.Token, Value: c.Value})
		}
	}
	return bb
}

func (bb *Builder) resolve(name, section string, index int) (ident.ID, bool) {
	id, ok := ident.Lookup(name)
	if !ok {
		bb.problems = append(bb.problems, fmt.Sprintf("%s[%d]: unknown identifier %q", section, index, name))
	}
	return id, ok
}

// MarshalYAML implements yaml.Marshaler. The output has the same shape that
// LoadFile reads.
func (b *Backend) MarshalYAML() (any, error) {
	spec := fileSpec{Name: b.name, Normalization: b.norm}
	for _, d := range b.order {
		switch x := d.(type) {
		case *OperatorDef:
			o := operatorSpec{ID: x.ID.String(), Token: x.Token, Fixity: x.Fixity, Precedence: x.Precedence}
			if x.Fixity == Infix {
				o.Associativity = x.Assoc
			}
			spec.Operators = append(spec.Operators, o)
		case *FunctionDef:
			spec.Functions = append(spec.Functions, functionSpec{ID: x.ID.String(), Token: x.Token, Arity: x.Arity})
		case *ConstantDef:
			spec.Constants = append(spec.Constants, constantSpec{ID: x.ID.String(), Token: x.Token, Value: x.Value})
		}
	}
	return spec, nil
}

// MarshalJSON implements json.Marshaler with the same shape as MarshalYAML.
func (b *Backend) MarshalJSON() ([]byte, error) {
	spec, err := b.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return json.Marshal(spec)
}

// WriteYAML encodes b to w in the backend file format.
func WriteYAML(w io.Writer, b *Backend) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backend %s: %w", b.name, err)
	}
	return enc.Close()
}
