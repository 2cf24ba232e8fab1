// Package ui - Interactive demo runner with live change output
package ui

import (
	"strconv"

	"go.uber.org/zap"

	"routed-values/core/demo"
	"routed-values/core/routed"
)

// DemoRunner drives the demo tree and prints what happens
type DemoRunner struct {
	w           *Writer
	showChanges bool
	logger      *zap.Logger
}

// NewDemoRunner creates a runner. A nil logger disables node logging.
func NewDemoRunner(w *Writer, showChanges bool, logger *zap.Logger) *DemoRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemoRunner{
		w:           w,
		showChanges: showChanges,
		logger:      logger,
	}
}

// Run builds a fresh tree and applies commands in order. The optional
// observer is subscribed to every node before the first command runs.
// It stops at the first unknown command and returns the tree as it is.
func (r *DemoRunner) Run(commands []string, observer routed.Observer[float64]) (*demo.Tree, error) {
	var listener demo.Listener
	if r.showChanges {
		listener = func(value float64, n *routed.Node[float64]) {
			r.w.Change(n.Name(), routed.ValueChanged, strconv.FormatFloat(value, 'f', -1, 64))
		}
	}

	tree := demo.NewTree(listener, r.logger)
	if observer != nil {
		tree.Graph().Observe(observer)
	}

	r.w.Header("Routed values demo")
	if len(commands) == 0 {
		r.w.Info("No commands given. Available: %v", tree.Commands())
	}

	for _, name := range commands {
		r.w.SubHeader(name)
		if err := tree.Run(name); err != nil {
			r.w.Error("%v", err)
			return tree, err
		}
		r.logger.Info("demo command applied", zap.String("command", name))
	}

	return tree, nil
}
