// Package main implements the motion command, which runs the code
// motion pipeline over functions in textual SSA form.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"

	"github.com/you-not-fish/codemotion/internal/ssa"
	"github.com/you-not-fish/codemotion/internal/ssa/passes"
	"github.com/you-not-fish/codemotion/internal/syntax"
)

// Version information
const Version = "0.1.0-dev"

// options are the command line settings shared by every input file.
type options struct {
	passes     string
	window     int
	verify     bool
	dumpBefore string
	dumpAfter  string
	dumpFunc   string
	dump       io.Writer // nil means stderr
}

func main() {
	app := &cli.Command{
		Name:        "motion",
		Description: "motion sinks instructions toward their uses in SSA functions and prints the result",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("passes", passes.DefaultPipeline, "comma separated pass pipeline ("+strings.Join(passes.Names, ", ")+")"),
			cli.NewFlag("window", passes.SinkSearchWindow, "instructions a sinker scans per block"),
			cli.NewFlag("verify", false, "verify SSA before and after each pass"),
			cli.NewFlag("stats", false, "print pass statistics to stderr"),
			cli.NewFlag("verbose,v", false, "log every code motion decision"),
			cli.NewFlag("dump-before", "", "dump SSA before pass (name or \"*\")"),
			cli.NewFlag("dump-after", "", "dump SSA after pass (name or \"*\")"),
			cli.NewFlag("dump-func", "", "only dump and print this function"),
			cli.NewFlag("emit-tokens", false, "print the token stream and exit"),
			cli.NewFlag("version", false, "print version"),
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func runAct(c *cli.Command) (err error) {
	if c.Bool("version") {
		fmt.Printf("motion version %s\n", Version)
		return nil
	}

	if len(c.Args) == 0 {
		return errors.New("no input file")
	}

	if c.Bool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return errors.Wrap(err, "init logger")
		}
		defer func() { _ = l.Sync() }()
		passes.SetLogger(l)
	}

	if c.Bool("emit-tokens") {
		for _, a := range c.Args {
			if err := emitTokens(os.Stdout, a); err != nil {
				return err
			}
		}
		return nil
	}

	o := options{
		passes:     c.String("passes"),
		window:     c.Int("window"),
		verify:     c.Bool("verify"),
		dumpBefore: c.String("dump-before"),
		dumpAfter:  c.String("dump-after"),
		dumpFunc:   c.String("dump-func"),
	}

	var total runStats
	for i, a := range c.Args {
		if i > 0 {
			fmt.Println()
		}

		st, err := processFile(os.Stdout, a, o)
		if err != nil {
			return errors.Wrap(err, "%v", a)
		}
		total.add(st)
	}

	if c.Bool("stats") {
		renderStats(os.Stderr, total, term.IsTerminal(int(os.Stderr.Fd())))
	}

	return nil
}

func processFile(w io.Writer, name string, o options) (runStats, error) {
	if name == "-" {
		return process(w, "<stdin>", os.Stdin, o)
	}

	f, err := os.Open(name)
	if err != nil {
		return runStats{}, err
	}
	defer f.Close()

	return process(w, name, f, o)
}

// runStats sums what the pipeline did over every function it ran on.
type runStats struct {
	funcs   int
	changed int
	passes.Stats
}

func (s *runStats) add(o runStats) {
	s.funcs += o.funcs
	s.changed += o.changed
	s.Stats.Add(o.Stats)
}

// process parses src, runs the pipeline over every function and writes
// the result in the same textual form.
func process(w io.Writer, name string, src io.Reader, o options) (st runStats, err error) {
	file, err := ssa.Parse(name, src)
	if err != nil {
		return st, err
	}

	pipeline, err := passes.Pipeline(o.passes, passes.Options{Window: o.window, Stats: &st.Stats})
	if err != nil {
		return st, err
	}

	cfg := passes.Config{
		DumpBefore: o.dumpBefore,
		DumpAfter:  o.dumpAfter,
		Verify:     o.verify,
		DumpFunc:   o.dumpFunc,
		Dump:       o.dump,
	}

	for _, fn := range file.Funcs {
		if o.verify {
			if err := ssa.VerifyDom(fn); err != nil {
				return st, errors.Wrap(err, "func %s (before passes)", fn.Name)
			}
		}

		changed, err := passes.Run(fn, pipeline, cfg)
		if err != nil {
			return st, errors.Wrap(err, "pass pipeline failed for %s", fn.Name)
		}

		st.funcs++
		if changed {
			st.changed++
		}
	}

	var types bytes.Buffer
	ssa.FprintTypes(&types, file.Funcs...)
	if types.Len() != 0 {
		types.WriteByte('\n')
		if _, err := w.Write(types.Bytes()); err != nil {
			return st, err
		}
	}

	first := true
	for _, fn := range file.Funcs {
		if o.dumpFunc != "" && fn.Name != o.dumpFunc {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		ssa.Fprint(w, fn)
	}

	return st, nil
}

var (
	statsTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statsKey = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB")).
			Width(10)

	statsVal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

// renderStats writes the totals to w, with colors if styled is set.
func renderStats(w io.Writer, st runStats, styled bool) {
	rows := [][2]string{
		{"funcs", fmt.Sprint(st.funcs)},
		{"changed", fmt.Sprint(st.changed)},
		{"sunk", fmt.Sprint(st.Sunk)},
		{"removed", fmt.Sprint(st.Removed)},
	}

	if !styled {
		for _, r := range rows {
			fmt.Fprintf(w, "%-10s %s\n", r[0]+":", r[1])
		}
		return
	}

	lines := []string{statsTitle.Render("code motion")}
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, statsKey.Render(r[0]), statsVal.Render(r[1])))
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// emitTokens scans the named file and prints all tokens with positions.
func emitTokens(w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	var errs []string
	errh := func(line, col uint32, msg string) {
		errs = append(errs, fmt.Sprintf("%s: %s", syntax.NewPos(filename, line, col), msg))
	}

	s := syntax.NewScanner(filename, f, errh)

	fmt.Fprintf(w, "%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Fprintf(w, "%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for {
		s.Next()
		tok := s.Token()

		fmt.Fprintf(w, "%-20s %-12s %s\n", s.Pos(), tok, formatLiteral(s.Literal()))

		if tok.IsEOF() {
			break
		}
	}

	if len(errs) > 0 {
		return errors.New("%d scan errors:\n  %s", len(errs), strings.Join(errs, "\n  "))
	}

	return nil
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return `""`
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}
