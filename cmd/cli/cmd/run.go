// Package cmd - run command
package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"routed-values/adapters/hcl"
	"routed-values/core/graph"
	"routed-values/core/output"
	"routed-values/core/routed"
	"routed-values/internal/config"
	"routed-values/internal/errors"
	"routed-values/internal/logging"
)

var (
	setValues    []string
	kindName     string
	strategyName string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Load an HCL topology and propagate values through it",
	Long: `Load a graph from an HCL topology file, apply --set assignments in
order and print the resulting values.

Topology format:
  kind = "number"            # number, decimal or traffic

  node "A1" {
    strategy = "ascending"   # ascending (max wins) or descending (min wins)
    value    = 0
    children = [B1, B2]
  }

Examples:
  routed run graph.hcl
  routed run graph.hcl --set A1=3 --set B2=7
  routed run status.hcl --kind traffic --set rack=fatal_error --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runTopology,
}

func init() {
	runCmd.Flags().StringArrayVarP(&setValues, "set", "s", nil, "set a local value (NAME=VALUE), repeatable")
	runCmd.Flags().StringVarP(&kindName, "kind", "k", "", "value kind (number, decimal, traffic); overrides the file")
	runCmd.Flags().StringVar(&strategyName, "strategy", "", "strategy for nodes that do not set one; default from config")
	runCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json); default from config")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// assignment is one parsed --set flag
type assignment struct {
	Name  string
	Value string
}

func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, s := range raw {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf(errors.TypeInput, "invalid --set %q, expected NAME=VALUE", s)
		}
		out = append(out, assignment{Name: name, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

func runTopology(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	logger := logging.Named("graph")

	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}
	sets, err := parseAssignments(setValues)
	if err != nil {
		return err
	}

	def, err := hcl.NewLoader(logger).LoadFile(args[0])
	if err != nil {
		return err
	}

	kind := cfg.Kind()
	if def.Kind != "" {
		kind = def.Kind
	}
	if kindName != "" {
		if kind, err = graph.ParseKind(kindName); err != nil {
			return err
		}
	}

	strategy := cfg.Strategy()
	if strategyName != "" {
		if strategy, err = routed.ParseStrategy(strategyName); err != nil {
			return errors.Wrap(errors.TypeInput, "invalid --strategy", err)
		}
	}

	logging.Info("topology loaded",
		zap.String("file", args[0]),
		zap.String("kind", string(kind)),
		zap.Stringer("strategy", strategy))

	opts := runOptions{
		source:      args[0],
		kind:        kind,
		strategy:    strategy,
		sets:        sets,
		format:      format,
		noColor:     noColor || cfg.Output.NoColor,
		showChanges: cfg.Output.ShowChanges || format == output.FormatJSON,
	}

	out := cmd.OutOrStdout()
	switch kind {
	case graph.KindDecimal:
		return runGraph(out, def, graph.DecimalFactory(logger), opts)
	case graph.KindTraffic:
		return runGraph(out, def, graph.TrafficFactory(logger), opts)
	default:
		return runGraph(out, def, graph.NumberFactory(logger), opts)
	}
}

type runOptions struct {
	source      string
	kind        graph.Kind
	strategy    routed.Strategy
	sets        []assignment
	format      output.Format
	noColor     bool
	showChanges bool
}

func runGraph[T any](w io.Writer, def *graph.Definition, f graph.Factory[T], opts runOptions) error {
	g, err := graph.Build(def, f, opts.strategy)
	if err != nil {
		return err
	}

	recorder := output.NewRecorder(f.Format)
	if opts.showChanges {
		subs := g.Observe(recorder)
		defer func() {
			for _, s := range subs {
				s.Unsubscribe()
			}
		}()
	}

	for _, a := range opts.sets {
		v, err := f.Parse(a.Value)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "invalid value for %s", a.Name)
		}
		if err := g.Set(a.Name, v); err != nil {
			return err
		}
		logging.Debug("value set", zap.String("node", a.Name), zap.String("value", a.Value))
	}

	res, err := output.FromGraph(g, opts.kind, f.Format)
	if err != nil {
		return err
	}
	res.Source = opts.source
	if res.Changes, err = recorder.Records(); err != nil {
		return err
	}

	return render(w, opts.format, res, opts.noColor)
}
