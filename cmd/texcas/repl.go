package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/njchilds90/texcas"
)

const replHelp = `<operation> <latex>   run an operation, e.g. "solve x^2=4"
<latex>               evaluate
:set <name> <latex>   bind a variable
:reset                clear bindings
:ops                  list operations
:quit                 leave`

func newREPLCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session with variable bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := os.UserHomeDir()
			rl, err := readline.NewEx(&readline.Config{
				Prompt:            "texcas> ",
				HistoryFile:       filepath.Join(home, ".texcas-history"),
				InterruptPrompt:   "^C",
				EOFPrompt:         ":quit",
				HistorySearchFold: true,
				Stdin:             readline.NewCancelableStdin(os.Stdin),
				Stdout:            cmd.OutOrStdout(),
				Stderr:            cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize readline: %w", err)
			}
			defer rl.Close()

			s := &session{d: c.app.NewDispatcher(), out: cmd.OutOrStdout(), locale: c.app.Localizer.Locale()}
			fmt.Fprintln(s.out, gray("type :help for commands"))
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					if line == "" {
						return nil
					}
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if !s.handle(cmd.Context(), line) {
					return nil
				}
			}
		},
	}
}

// session is one REPL: a dispatcher whose bindings live as long as the
// session does (unless the reset policy says otherwise).
type session struct {
	d      *texcas.Dispatcher
	out    io.Writer
	locale string
}

// handle runs one input line and reports whether the session goes on.
func (s *session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	op, rest := texcas.Evaluate, line
	if word, tail, ok := strings.Cut(line, " "); ok {
		if parsed, err := texcas.ParseOperation(word); err == nil {
			op, rest = parsed, tail
		}
	}
	printResult(s.out, s.d.Perform(ctx, op, strings.TrimSpace(rest)))
	return true
}

func (s *session) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return false
	case ":help":
		fmt.Fprintln(s.out, replHelp)
	case ":ops":
		printOperations(s.out, s.locale)
	case ":reset":
		s.d.Reset()
		fmt.Fprintln(s.out, gray("bindings cleared"))
	case ":set":
		if len(fields) < 3 {
			fmt.Fprintln(s.out, red("usage: :set <name> <latex>"))
			break
		}
		value := strings.Join(fields[2:], " ")
		if err := s.d.Bind(fields[1], texcas.LatexToCAS(value)); err != nil {
			fmt.Fprintln(s.out, red(s.d.Localizer().Translate(err)))
			break
		}
		fmt.Fprintf(s.out, "%s = %s\n", fields[1], value)
	default:
		fmt.Fprintln(s.out, red("unknown command "+fields[0]))
	}
	return true
}
