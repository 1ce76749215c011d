package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/pyrite-lang/pyrite/ast"
	"github.com/pyrite-lang/pyrite/interp"
	"github.com/pyrite-lang/pyrite/parser"
)

func replAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(".")
	if err != nil {
		return err
	}
	s.runtime.EnableAutoImport()
	env := s.runtime.GlobalEnv()

	histFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		histFile = filepath.Join(home, ".pyrite_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     histFile,
		InterruptPrompt: "\n",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Blocks continue until a blank line.
		if strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
			rl.SetPrompt("... ")
			var block []string
			block = append(block, line)
			for {
				more, err := rl.Readline()
				if err != nil || strings.TrimSpace(more) == "" {
					break
				}
				block = append(block, more)
			}
			rl.SetPrompt(">>> ")
			line = strings.Join(block, "\n")
		}

		replEval(s.runtime, env, line)
	}
}

// replEval parses one input, injects implicit imports for it, and
// executes it, printing the value of a lone expression.
func replEval(rt *interp.Runtime, env *interp.Env, input string) {
	prog, err := parser.ParseSource(input, "<stdin>")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	rt.Inject(prog, env)

	if len(prog.Statements) == 1 {
		if es, ok := prog.Statements[0].(*ast.ExprStmt); ok {
			v, err := rt.Eval(es.Expression, env)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return
			}
			if v != nil {
				fmt.Println(interp.Repr(v))
			}
			return
		}
	}

	if err := rt.ExecIn(prog, env); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
