// Package cmd - demo command
package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"routed-values/core/graph"
	"routed-values/core/output"
	"routed-values/core/routed"
	"routed-values/core/ui"
	"routed-values/internal/config"
	"routed-values/internal/errors"
	"routed-values/internal/logging"
)

var (
	outputFormat string
	noColor      bool
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo [command...]",
	Short: "Drive the seven-node demo tree",
	Long: `Build the demo tree and apply the given commands in order.

Tree:
  A1 -> B1, B2
  B1 -> C1, C2
  B2 -> C3, C4

Commands:
  tapA1, tapB1, tapB2   increment the local value of the node by one
  resetA                set the local value of A1 to zero
  resetB                set the local values of B1 and B2 to zero
  resetC                set the local values of C1 to C4 to zero

Examples:
  routed demo tapA1 tapB1 tapB1
  routed demo --format json tapB2 resetA`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json); default from config")
	demoCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	format, err := resolveFormat(cfg)
	if err != nil {
		return err
	}

	display := graph.NumberFactory(nil).Format

	var uiOut io.Writer = cmd.OutOrStdout()
	showChanges := cfg.Output.ShowChanges
	var recorder *output.Recorder[float64]
	var observer routed.Observer[float64]
	if format == output.FormatJSON {
		uiOut = io.Discard
		showChanges = false
		recorder = output.NewRecorder(display)
		observer = recorder
	}

	runner := ui.NewDemoRunner(ui.NewWriter(uiOut, noColor || cfg.Output.NoColor), showChanges, logging.Named("demo"))
	tree, err := runner.Run(args, observer)
	if err != nil {
		return err
	}

	res, err := output.FromGraph(tree.Graph(), graph.KindNumber, display)
	if err != nil {
		return err
	}
	res.Source = "demo"
	if recorder != nil {
		if res.Changes, err = recorder.Records(); err != nil {
			return err
		}
	}

	return render(cmd.OutOrStdout(), format, res, noColor || cfg.Output.NoColor)
}

func resolveFormat(cfg *config.Config) (output.Format, error) {
	name := outputFormat
	if name == "" {
		name = cfg.Output.DefaultFormat
	}
	return output.ParseFormat(name)
}

func render(w io.Writer, format output.Format, res *output.Result, noColor bool) error {
	formatter, ok := output.NewRegistry(noColor).GetFormatter(format)
	if !ok {
		return errors.Newf(errors.TypeInput, "no formatter for %q", format)
	}
	return formatter.Render(w, res)
}
