package registry

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mercurytools/actordef/errors"
	"github.com/mercurytools/actordef/names"
	"github.com/mercurytools/actordef/schema"
)

// Snapshot directory layout, one subdirectory per game:
//
//	<root>/<game>/types.yaml      hierarchy edges and field schemas
//	<root>/<game>/names.json      interned-name table (optional)
//	<root>/<game>/names.json.zst  zstd-compressed alternative
const (
	typesFile      = "types.yaml"
	namesFile      = "names.json"
	namesFileComps = "names.json.zst"
)

//go:embed types_schema.json
var typesSchemaJSON string

var (
	typesSchema     *jsonschema.Schema
	typesSchemaOnce sync.Once
	typesSchemaErr  error
)

func compiledTypesSchema() (*jsonschema.Schema, error) {
	typesSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("types_schema.json", strings.NewReader(typesSchemaJSON)); err != nil {
			typesSchemaErr = err
			return
		}
		typesSchema, typesSchemaErr = c.Compile("types_schema.json")
	})
	return typesSchema, typesSchemaErr
}

// LoadSnapshot reads the snapshot for game from fsys and assembles it. The
// type tables are validated against an embedded document schema before
// interpretation; a missing name table degrades to an empty one with a
// warning, since resources still decode with unresolved ids.
func LoadSnapshot(fsys fs.FS, game Game) (*Snapshot, error) {
	dir := game.String()

	raw, err := fs.ReadFile(fsys, path.Join(dir, typesFile))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindNotFound, err,
			"read "+path.Join(dir, typesFile))
	}
	hierarchy, schemas, err := parseTypesDoc(raw)
	if err != nil {
		return nil, err
	}

	tbl, err := loadNames(fsys, dir)
	if err != nil {
		return nil, err
	}

	snap := NewSnapshot(game, NewHierarchy(hierarchy), schemas, tbl)
	Logger().Info("registry snapshot loaded",
		zap.String("game", dir),
		zap.Int("types", snap.Types().Len()),
		zap.Int("schemas", snap.SchemaCount()),
		zap.Int("names", tbl.Len()))
	return snap, nil
}

func parseTypesDoc(raw []byte) (map[string]string, map[string]*schema.Schema, error) {
	var yml any
	if err := yaml.Unmarshal(raw, &yml); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"parse "+typesFile)
	}

	// Round-trip through JSON so the document validator sees exactly the
	// value kinds it was written for.
	jsonBytes, err := json.Marshal(yml)
	if err != nil {
		return nil, nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"normalize "+typesFile)
	}
	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"normalize "+typesFile)
	}

	validator, err := compiledTypesSchema()
	if err != nil {
		return nil, nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"compile document schema")
	}
	if err := validator.Validate(doc); err != nil {
		return nil, nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			typesFile+" rejected by document schema")
	}

	// Shapes below are guaranteed by the document schema.
	m := doc.(map[string]any)

	hierarchy := make(map[string]string)
	for t, p := range m["hierarchy"].(map[string]any) {
		hierarchy[t] = p.(string)
	}

	schemas := make(map[string]*schema.Schema)
	for name, v := range m["schemas"].(map[string]any) {
		fields, err := buildFields(v.([]any))
		if err != nil {
			return nil, nil, errors.WithPath(err, "schemas", name)
		}
		schemas[name] = &schema.Schema{Name: name, Fields: fields}
	}
	return hierarchy, schemas, nil
}

func buildFields(list []any) ([]schema.Field, error) {
	fields := make([]schema.Field, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		fm := item.(map[string]any)
		name := fm["name"].(string)
		if seen[name] {
			return nil, errors.DuplicateKey(errors.PhaseRegistry, nil, name)
		}
		seen[name] = true
		t, err := buildType(fm["type"])
		if err != nil {
			return nil, errors.WithPath(err, name)
		}
		fields = append(fields, schema.Field{Name: name, Type: t})
	}
	return fields, nil
}

var scalarTypes = map[string]schema.Prim{
	"bool":    schema.PrimBool,
	"uint8":   schema.PrimUInt8,
	"uint16":  schema.PrimUInt16,
	"uint32":  schema.PrimUInt32,
	"uint64":  schema.PrimUInt64,
	"int32":   schema.PrimInt32,
	"float32": schema.PrimFloat32,
	"string":  schema.PrimString,
}

func buildType(v any) (schema.Type, error) {
	switch tv := v.(type) {
	case string:
		if p, ok := scalarTypes[tv]; ok {
			return p, nil
		}
	case map[string]any:
		if elem, ok := tv["array"]; ok {
			et, err := buildType(elem)
			if err != nil {
				return nil, err
			}
			return schema.Array{Elem: et, Len: int(tv["len"].(float64))}, nil
		}
		if elem, ok := tv["vector"]; ok {
			et, err := buildType(elem)
			if err != nil {
				return nil, err
			}
			return schema.Vector{Elem: et}, nil
		}
		if list, ok := tv["struct"]; ok {
			fields, err := buildFields(list.([]any))
			if err != nil {
				return nil, err
			}
			return schema.Struct{Fields: fields}, nil
		}
		if list, ok := tv["union"]; ok {
			return buildUnion(list.([]any))
		}
	}
	return nil, errors.InvalidData(errors.PhaseRegistry, nil,
		fmt.Sprintf("unrecognized type descriptor %v", v))
}

func buildUnion(list []any) (schema.Type, error) {
	cases := make([]schema.Case, 0, len(list))
	seen := make(map[byte]bool, len(list))
	for _, item := range list {
		cm := item.(map[string]any)
		tag := cm["tag"].(string)[0]
		if seen[tag] {
			return nil, errors.DuplicateKey(errors.PhaseRegistry, nil, string(tag))
		}
		seen[tag] = true
		ct, err := buildType(cm["type"])
		if err != nil {
			return nil, errors.WithPath(err, cm["name"].(string))
		}
		cases = append(cases, schema.Case{Tag: tag, Name: cm["name"].(string), Type: ct})
	}
	return schema.Union{Cases: cases}, nil
}

func loadNames(fsys fs.FS, dir string) (*names.Table, error) {
	raw, err := fs.ReadFile(fsys, path.Join(dir, namesFile))
	if err == nil {
		return decodeNames(raw)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"read "+path.Join(dir, namesFile))
	}

	compressed, zerr := fs.ReadFile(fsys, path.Join(dir, namesFileComps))
	if zerr == nil {
		dec, derr := zstd.NewReader(nil)
		if derr != nil {
			return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, derr,
				"init zstd decoder")
		}
		defer dec.Close()
		raw, derr := dec.DecodeAll(compressed, nil)
		if derr != nil {
			return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, derr,
				"decompress "+path.Join(dir, namesFileComps))
		}
		return decodeNames(raw)
	}
	if !stderrors.Is(zerr, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, zerr,
			"read "+path.Join(dir, namesFileComps))
	}

	Logger().Warn("name table absent, interned ids will not resolve",
		zap.String("dir", dir))
	return names.NewTable(), nil
}

func decodeNames(raw []byte) (*names.Table, error) {
	var m map[string]uint64
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidData, err,
			"parse "+namesFile)
	}
	tbl := names.NewTable()
	for name, id := range m {
		if err := tbl.AddID(id, name); err != nil {
			return nil, err
		}
	}
	Logger().Debug("name table loaded", zap.Int("entries", tbl.Len()))
	return tbl, nil
}
