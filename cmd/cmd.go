package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/pyrite-lang/pyrite/analysis"
	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/interp"
	"github.com/pyrite-lang/pyrite/loader"
	"github.com/pyrite-lang/pyrite/modules"
	"github.com/pyrite-lang/pyrite/parser"
	"github.com/pyrite-lang/pyrite/remote"
	"github.com/pyrite-lang/pyrite/resolve"
)

// Execute runs the Pyrite CLI with the given version string.
// Import native modules via blank imports before calling this function
// so they register via init().
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "pyrite",
		Usage:                  "A Python-dialect scripting language with implicit imports",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `pyrite script.pyr` as shorthand for `pyrite run script.pyr`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				arg := cmd.Args().First()
				if strings.HasSuffix(arg, ".pyr") || isPyriteScript(arg) {
					return runScript(arg, true)
				}
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a .pyr file",
				ArgsUsage: "<file.pyr>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-auto-import",
						Usage: "Disable implicit imports",
					},
				},
				Action: runAction,
			},
			{
				Name:      "rewrite",
				Usage:     "Print a script with its synthesized frontmatter",
				ArgsUsage: "<file.pyr>",
				Action:    rewriteAction,
			},
			{
				Name:      "imports",
				Usage:     "List the bindings implicit imports would synthesize",
				ArgsUsage: "<file.pyr>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Also list names that could not be resolved",
					},
				},
				Action: importsAction,
			},
			{
				Name:      "check",
				Usage:     "Report names that neither the script nor the module namespace defines",
				ArgsUsage: "<file.pyr>",
				Action:    checkAction,
			},
			{
				Name:   "repl",
				Usage:  "Interactive session with per-input implicit imports",
				Action: replAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// session bundles the loader, pipeline, and runtime for one invocation.
type session struct {
	files    *loader.FileLoader
	pipeline *analysis.Pipeline
	runtime  *interp.Runtime
}

// newSession wires the resolver namespace from the native registry plus
// the file search path, with the git installer as fallback. scriptDir
// is searched first; the shared module directory second.
func newSession(scriptDir string) (*session, error) {
	moduleDir := os.Getenv("PYRITE_MODULE_DIR")
	if moduleDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		moduleDir = filepath.Join(home, ".pyrite", "modules")
	}

	files := loader.NewFileLoader(scriptDir, moduleDir)
	installer, err := remote.NewGitInstaller(filepath.Join(scriptDir, "pyrite.yml"), moduleDir)
	if err != nil {
		return nil, err
	}
	ns := resolve.Multi{modules.Registry{}, loader.Namespace{L: files}}
	pipeline := analysis.NewPipeline(ns, installer)

	return &session{
		files:    files,
		pipeline: pipeline,
		runtime:  interp.NewRuntime(files, pipeline),
	}, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: pyrite run <file.pyr>")
	}
	return runScript(cmd.Args().First(), !cmd.Bool("no-auto-import"))
}

func runScript(path string, autoImport bool) error {
	s, err := newSession(filepath.Dir(path))
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if autoImport {
		s.runtime.EnableAutoImport()
		src = loader.Intercept(s.files, s.pipeline).Rewrite(path, src)
	}
	return s.runtime.RunSource(path, src)
}

func rewriteAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: pyrite rewrite <file.pyr>")
	}
	path := cmd.Args().First()
	s, err := newSession(filepath.Dir(path))
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	os.Stdout.Write(loader.Intercept(s.files, s.pipeline).Rewrite(path, src))
	return nil
}

func importsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: pyrite imports [-v] <file.pyr>")
	}
	path := cmd.Args().First()
	s, err := newSession(filepath.Dir(path))
	if err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := s.pipeline.Analyze(path, src)
	if err != nil {
		return err
	}

	fmt.Print(analysis.Synthesize(res.Requests))

	if cmd.Bool("verbose") {
		for _, d := range res.Dropped {
			if d.Err != nil {
				fmt.Fprintf(os.Stderr, "%s %q: %v\n", marker(), d.Name, d.Err)
			} else {
				fmt.Fprintf(os.Stderr, "%s %q: no module provides it\n", marker(), d.Name)
			}
		}
	}
	return nil
}

// marker prefixes dropped-name diagnostics, colored on a terminal.
func marker() string {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return "\033[33mdropped\033[0m"
	}
	return "dropped"
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: pyrite check <file.pyr>")
	}
	path := cmd.Args().First()
	s, err := newSession(filepath.Dir(path))
	if err != nil {
		return err
	}
	prog, err := parser.ParseFile(path)
	if err != nil {
		return err
	}
	checks := ast.CheckChain{&loader.UnresolvedCheck{Pipeline: s.pipeline}}
	return checks.Run(prog)
}

// isPyriteScript checks if a file exists and looks like a script.
func isPyriteScript(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 64)
	n, _ := f.Read(buf)
	return strings.HasPrefix(string(buf[:n]), "#!")
}
