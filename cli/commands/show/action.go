package show

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/inventory"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/gruntwork-io/casper/options"
)

// Run runs the show command.
func Run(ctx context.Context, opts *options.CasperOptions, backends *common.Backends) error {
	store, err := backends.NewStore(ctx, opts)
	if err != nil {
		return err
	}

	state, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrStateNotFound) {
			return errors.Errorf("no inventory found, run `casper build` first: %w", err)
		}

		return err
	}

	colorizer := common.NewColorizer(common.ShouldColor(opts))

	switch opts.OutputFormat {
	case options.OutputFormatJSON:
		return outputJSON(opts.Writer, state)
	case options.OutputFormatTree:
		return outputTree(opts.Writer, state, colorizer, common.ShouldColor(opts))
	default:
		return outputText(opts.Writer, state, colorizer)
	}
}

func outputText(w io.Writer, state *inventory.State, colorizer *common.Colorizer) error {
	var sb strings.Builder

	for _, group := range state.Groups() {
		ids := state.Get(group)

		sb.WriteString(colorizer.GroupColorizer(group))
		fmt.Fprintf(&sb, " (%d)\n", len(ids))

		for _, id := range ids {
			sb.WriteString("  " + colorizer.IDColorizer(id) + "\n")
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.New(err)
	}

	return nil
}

func outputJSON(w io.Writer, state *inventory.State) error {
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.New(err)
	}

	if _, err := w.Write(append(out, '\n')); err != nil {
		return errors.New(err)
	}

	return nil
}

func outputTree(w io.Writer, state *inventory.State, colorizer *common.Colorizer, shouldColor bool) error {
	root := tree.Root(colorizer.HeadingColorizer("inventory")).Enumerator(tree.RoundedEnumerator)

	if shouldColor {
		root = root.
			EnumeratorStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginRight(1)).
			RootStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("35")))
	}

	for _, group := range state.Groups() {
		node := tree.Root(colorizer.GroupColorizer(group))

		for _, id := range state.Get(group) {
			node.Child(colorizer.IDColorizer(id))
		}

		root.Child(node)
	}

	if _, err := io.WriteString(w, root.String()+"\n"); err != nil {
		return errors.New(err)
	}

	return nil
}
