package passes

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"tlog.app/go/errors"

	"github.com/you-not-fish/codemotion/internal/ssa"
)

// Pass describes a single SSA optimization pass.
// Fn reports whether it changed the function.
type Pass struct {
	Name string
	Fn   func(f *ssa.Func, am *Analyses) bool
}

// Config controls pass execution behavior.
type Config struct {
	DumpBefore string    // dump SSA before this pass ("*" for all)
	DumpAfter  string    // dump SSA after this pass ("*" for all)
	Verify     bool      // verify SSA before/after each pass
	DumpFunc   string    // restrict dumps to this function name
	Dump       io.Writer // destination of dumps; os.Stderr if nil
}

// Run executes the given passes on f in order and reports whether any
// of them changed it.
func Run(f *ssa.Func, passes []Pass, cfg Config) (bool, error) {
	w := cfg.Dump
	if w == nil {
		w = os.Stderr
	}
	am := NewAnalyses(f)

	changed := false
	for _, p := range passes {
		if shouldDump(cfg.DumpBefore, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- before %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}

		if cfg.Verify {
			if err := ssa.Verify(f); err != nil {
				return changed, errors.Wrap(err, "verify before %s", p.Name)
			}
		}

		c := p.Fn(f, am)
		changed = changed || c
		Logger().Debug("pass done",
			zap.String("pass", p.Name),
			zap.String("func", f.Name),
			zap.Bool("changed", c))

		if cfg.Verify {
			if err := ssa.VerifyDom(f); err != nil {
				return changed, errors.Wrap(err, "verify after %s", p.Name)
			}
		}

		if shouldDump(cfg.DumpAfter, p.Name) && matchFunc(cfg.DumpFunc, f.Name) {
			fmt.Fprintf(w, "--- after %s (%s) ---\n", p.Name, f.Name)
			ssa.Fprint(w, f)
			fmt.Fprintln(w)
		}
	}
	return changed, nil
}

func shouldDump(pattern, name string) bool {
	return pattern == "*" || pattern == name
}

func matchFunc(filter, name string) bool {
	return filter == "" || filter == name
}

// Options configures the passes built by Pipeline.
type Options struct {
	Window int    // scan budget of the code motion sinkers; 0 means SinkSearchWindow
	Stats  *Stats // if set, pass statistics are added to it
}

// Stats counts what the passes did.
type Stats struct {
	Sunk    int // instructions sunk by code motion
	Removed int // dead instructions removed
}

// Add adds the counts of o to s.
func (s *Stats) Add(o Stats) {
	s.Sunk += o.Sunk
	s.Removed += o.Removed
}

// Names lists the passes Pipeline accepts.
var Names = []string{"codemotion", "dce"}

// DefaultPipeline is the pipeline used when none is given.
const DefaultPipeline = "codemotion,dce"

// Pipeline builds the passes named in a comma separated list.
func Pipeline(list string, opts Options) ([]Pass, error) {
	var passes []Pass
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		switch name {
		case "":
			continue
		case "codemotion":
			passes = append(passes, CodeMotionPass(opts))
		case "dce":
			passes = append(passes, DeadCodePass(opts))
		default:
			return nil, errors.New("unknown pass %q (known: %s)", name, strings.Join(Names, ", "))
		}
	}
	return passes, nil
}
