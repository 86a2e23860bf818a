package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gruntwork-io/casper/cli/commands/common"
	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/scan"
	"github.com/gruntwork-io/casper/internal/storage"
	"github.com/gruntwork-io/casper/options"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Run runs the scan command.
func Run(ctx context.Context, opts *options.CasperOptions, backends *common.Backends) error {
	if opts.OutputFormat == options.OutputFormatTree {
		return errors.New(options.InvalidOptionError{Name: common.FormatFlagName, Value: opts.OutputFormat, Reason: "supported formats: text, json"})
	}

	store, err := backends.NewStore(ctx, opts)
	if err != nil {
		return err
	}

	state, err := store.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrStateNotFound) {
			return err
		}

		opts.Logger.Warnf("No inventory found, every cloud resource is reported as a ghost")
	}

	clients, err := backends.NewClients(ctx, opts)
	if err != nil {
		return err
	}

	names := opts.Services
	if len(names) == 0 {
		names = scan.SupportedServices()
	}

	services := make([]scan.Service, 0, len(names))

	for _, name := range names {
		service, err := scan.Lookup(name, clients)
		if err != nil {
			return err
		}

		services = append(services, service)
	}

	findings, err := scan.NewScanner(opts.Logger).Run(ctx, state, services...)
	if err != nil {
		return err
	}

	if opts.OutputFormat == options.OutputFormatJSON {
		return outputJSON(opts.Writer, findings)
	}

	return outputText(opts.Writer, findings, common.NewColorizer(common.ShouldColor(opts)))
}

func outputText(w io.Writer, findings []scan.Finding, colorizer *common.Colorizer) error {
	var (
		sb     strings.Builder
		upper  = cases.Upper(language.English)
		ghosts int
	)

	for _, finding := range findings {
		ghosts += len(finding.Ghosts)

		heading := fmt.Sprintf("%s %s", upper.String(finding.Service), finding.Group)
		fmt.Fprintf(&sb, "%s: %d ghosts, %d of %d managed\n", colorizer.HeadingColorizer(heading), len(finding.Ghosts), finding.Managed, finding.Total)

		for _, ghost := range finding.Ghosts {
			sb.WriteString("  " + colorizer.GhostColorizer(ghost) + "\n")
		}
	}

	fmt.Fprintf(&sb, "Found %d ghosts in %d groups\n", ghosts, len(findings))

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.New(err)
	}

	return nil
}

func outputJSON(w io.Writer, findings []scan.Finding) error {
	if findings == nil {
		findings = []scan.Finding{}
	}

	out, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return errors.New(err)
	}

	if _, err := w.Write(append(out, '\n')); err != nil {
		return errors.New(err)
	}

	return nil
}
