package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	csg "github.com/openscad-go/csgcore"
	"github.com/openscad-go/csgcore/export"
)

const (
	exitOK             = 0
	exitEvaluationFail = 1
	exitParseFail      = 2
)

type defineFlags map[string]string

func (d defineFlags) String() string { return "" }

func (d defineFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("-D expects var=value, got %q", s)
	}
	d[k] = v
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("csgeval", flag.ContinueOnError)
	output := fs.String("o", "", "output file (.stl/.off/.wrl/.svg)")
	configPath := fs.String("c", "", "YAML configuration file")
	logLevel := fs.String("log-level", "", "log level: debug/info/warn/error")
	render := fs.Bool("render", false, "force full render (kernel-preferring) evaluation")
	preview := fs.Bool("preview", false, "also build the CSG preview tree and report its product count")
	defines := make(defineFlags)
	fs.Var(defines, "D", "define var=value, substituted into the input tree before parsing")

	if err := fs.Parse(args); err != nil {
		return exitParseFail
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: csgeval [flags] tree.json")
		return exitParseFail
	}

	cfgFile, err := loadConfig(*configPath, *logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParseFail
	}
	level, err := cfgFile.SlogLevel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParseFail
	}
	csg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	doc, err := readTreeDoc(fs.Arg(0), defines)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParseFail
	}
	tree, err := buildTree(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitParseFail
	}
	if *render {
		tree.Root = &csg.Node{Index: 0, Payload: csg.Render{}, Children: []*csg.Node{tree.Root}}
	}
	tree.Root = csg.Normalize(tree.Root)

	cfg := cfgFile.ToConfig()
	if os.Getenv("OPENSCAD_NO_PARALLEL") != "" {
		cfg.Parallel = false
	}

	evaluator := csg.NewEvaluator(cfg, nil)
	var geom csg.Geometry
	var result csg.TraversalResult
	if cfg.Parallel {
		geom, result = evaluator.EvaluateParallel(tree, 0)
	} else {
		geom, result = evaluator.Evaluate(tree)
	}
	for _, w := range evaluator.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w.Error())
	}
	if result == csg.AbortTraversal {
		fmt.Fprintln(os.Stderr, "evaluation cancelled")
		return exitEvaluationFail
	}

	if *preview {
		builder := csg.NewCsgTreeBuilder(evaluator, cfg.TermLimit)
		csgTree := builder.Build(tree)
		fmt.Fprintf(os.Stderr, "preview: %d product(s), overflowed=%v\n", len(csgTree.Products), csgTree.Overflowed)
	}
	if *output == "" {
		return exitOK
	}
	if err := writeOutput(*output, geom); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitEvaluationFail
	}
	return exitOK
}

func loadConfig(path, logLevel string) (csg.ConfigFile, error) {
	var cfg csg.ConfigFile
	if path != "" {
		loaded, err := csg.LoadConfigFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	} else {
		cfg = csg.DefaultConfigFile()
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// readTreeDoc reads the JSON ingress file, applying -D substitutions of
// the form ${name} over the raw bytes before parsing — the CLI's
// stand-in for the customizer variables a real script evaluator would
// resolve before handing the core a tree.
func readTreeDoc(path string, defines defineFlags) (*treeDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)
	for k, v := range defines {
		text = strings.ReplaceAll(text, "${"+k+"}", v)
	}
	var doc treeDoc
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func writeOutput(path string, geom csg.Geometry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return export.WriteSTL(f, geom)
	case ".off":
		return export.WriteOFF(f, geom)
	case ".wrl":
		return export.WriteWRL(f, geom)
	case ".svg":
		return export.WriteSVG(f, geom)
	default:
		return fmt.Errorf("unrecognized output extension for %s (want .stl/.off/.wrl/.svg)", path)
	}
}
