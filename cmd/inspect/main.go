// Command inspect decodes one actor definition resource and prints it as an
// indented text summary, a JSON tree, or an interactive terminal UI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/mercurytools/actordef/asset"
	"github.com/mercurytools/actordef/bmsad"
	"github.com/mercurytools/actordef/registry"
	"github.com/mercurytools/actordef/schema"
)

func main() {
	var (
		file        = flag.String("file", "", "Path to a .bmsad file")
		romfs       = flag.String("romfs", "", "Extracted asset tree root (with -asset)")
		assetName   = flag.String("asset", "", "Asset path inside -romfs")
		registryDir = flag.String("registry", "registries", "Registry snapshot root directory")
		gameName    = flag.String("game", "samus_returns", "Game discriminant")
		jsonDump    = flag.Bool("json", false, "Dump the decoded tree as JSON")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *file == "" && (*romfs == "" || *assetName == "") {
		fmt.Fprintln(os.Stderr, "Usage: inspect -file <path.bmsad> [-registry dir] [-game id]")
		fmt.Fprintln(os.Stderr, "       inspect -romfs <dir> -asset <name>")
		fmt.Fprintln(os.Stderr, "       inspect -file <path.bmsad> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		registry.SetLogger(logger)
		asset.SetLogger(logger)
	}

	if err := run(*file, *romfs, *assetName, *registryDir, *gameName, *jsonDump, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(file, romfs, assetName, registryDir, gameName string, jsonDump, interactive bool) error {
	game, err := registry.ParseGame(gameName)
	if err != nil {
		return err
	}
	snap, err := registry.LoadSnapshot(os.DirFS(registryDir), game)
	if err != nil {
		return err
	}

	data, source, err := loadInput(file, romfs, assetName)
	if err != nil {
		return err
	}

	res, err := bmsad.Parse(data, snap)
	if err != nil {
		return err
	}

	if interactive {
		return runInteractive(res, source)
	}
	if jsonDump {
		return dumpJSON(res)
	}
	dumpText(res, source)
	return nil
}

func loadInput(file, romfs, assetName string) ([]byte, string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, "", fmt.Errorf("read file: %w", err)
		}
		return data, file, nil
	}
	dir, err := asset.NewDir(os.DirFS(romfs))
	if err != nil {
		return nil, "", err
	}
	data, err := dir.RawAsset(asset.ID(assetName))
	if err != nil {
		return nil, "", err
	}
	return data, assetName, nil
}

func dumpJSON(res *bmsad.Resource) error {
	out, err := json.MarshalIndent(struct {
		Name       string
		Type       string
		Definition bmsad.Definition
	}{res.Name, res.Definition.TypeName(), res.Definition}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func dumpText(res *bmsad.Resource, source string) {
	fmt.Printf("Resource: %s\n", source)
	fmt.Printf("Name: %s\n", res.Name)
	fmt.Printf("Type: %s\n", res.Definition.TypeName())
	if cc, ok := res.Definition.(*bmsad.CharClass); ok {
		fmt.Printf("Model: %s\n", cc.ModelName)
	}

	entries := res.Definition.Components()
	fmt.Printf("\nComponents: %d\n", len(entries))
	for _, e := range entries {
		c := e.Component
		fmt.Printf("  %s (%s)\n", e.Key, c.Type)
		if c.Fields != nil {
			fmt.Printf("    fields: %d\n", len(c.Fields.Fields))
		}
		if len(c.Functions) > 0 {
			funcNames := make([]string, 0, len(c.Functions))
			for _, fn := range c.Functions {
				funcNames = append(funcNames, fn.Name)
			}
			fmt.Printf("    functions: %s\n", strings.Join(funcNames, ", "))
		}
		if c.Dependencies != nil {
			fmt.Printf("    dependencies: %s\n", c.Dependencies.BaseType())
		}
	}
}

// componentDetail renders one component's fields, extra properties,
// functions, and dependency payload as indented lines for the interactive
// detail pane.
func componentDetail(c *bmsad.Component) []string {
	var lines []string
	lines = append(lines, "type: "+c.Type)
	lines = append(lines, fmt.Sprintf("flags: %#08x %#08x", c.Flags[0], c.Flags[1]))

	if c.Fields == nil {
		lines = append(lines, "fields: (empty block)")
	} else {
		lines = append(lines, fmt.Sprintf("fields: %d", len(c.Fields.Fields)))
		for _, fv := range c.Fields.Fields {
			lines = append(lines, "  "+fv.Name+" = "+formatValue(fv.Value))
		}
	}

	if c.Extra != nil {
		lines = append(lines, fmt.Sprintf("extra: %d", len(c.Extra)))
		for _, e := range c.Extra {
			lines = append(lines, "  "+e.Key.String()+" = "+formatExtra(e.Value))
		}
	}

	lines = append(lines, fmt.Sprintf("functions: %d", len(c.Functions)))
	for _, fn := range c.Functions {
		lines = append(lines, fmt.Sprintf("  %s (aux %d)", fn.Name, fn.Aux))
		for _, arg := range fn.Args {
			lines = append(lines, "    "+arg.Key.String()+" = "+formatArg(arg.Value))
		}
	}

	if c.Dependencies != nil {
		lines = append(lines, "dependencies: "+c.Dependencies.BaseType())
	}
	return lines
}

func formatValue(v schema.Value) string {
	switch v.Kind {
	case schema.KindBool:
		return fmt.Sprintf("%v", v.Flag)
	case schema.KindUInt8, schema.KindUInt16, schema.KindUInt32, schema.KindUInt64:
		return fmt.Sprintf("%d", v.Uint)
	case schema.KindInt32:
		return fmt.Sprintf("%d", v.Int)
	case schema.KindFloat32:
		return fmt.Sprintf("%g", v.F32)
	case schema.KindString:
		return fmt.Sprintf("%q", v.Str)
	case schema.KindArray, schema.KindVector:
		elems := make([]string, 0, len(v.List))
		for _, e := range v.List {
			elems = append(elems, formatValue(e))
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case schema.KindStruct:
		fields := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			fields = append(fields, f.Name+": "+formatValue(f.Value))
		}
		return "{" + strings.Join(fields, ", ") + "}"
	case schema.KindUnion:
		if v.Sel == nil {
			return "union(?)"
		}
		return fmt.Sprintf("union('%c', %s)", v.Sel.Tag, formatValue(v.Sel.Value))
	default:
		return "?"
	}
}

func formatExtra(v bmsad.ExtraValue) string {
	switch v.Kind {
	case bmsad.ExtraBool:
		return fmt.Sprintf("%v", v.Flag)
	case bmsad.ExtraString:
		return fmt.Sprintf("%q", v.Str)
	default:
		return "?"
	}
}

func formatArg(v bmsad.ArgValue) string {
	switch v.Kind {
	case bmsad.ArgString:
		return fmt.Sprintf("%q", v.Str)
	case bmsad.ArgFloat32:
		return fmt.Sprintf("%g", v.F32)
	case bmsad.ArgBool:
		return fmt.Sprintf("%v", v.Flag)
	case bmsad.ArgUInt32:
		return fmt.Sprintf("%d", v.U32)
	default:
		return "?"
	}
}
