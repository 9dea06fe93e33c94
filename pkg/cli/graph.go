package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Rajgohel2908/Memora/pkg/cli/config"
	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/service/visnet"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
	"github.com/Rajgohel2908/Memora/pkg/utils/safe"
)

func cmdGraph() *cli.Command {
	var userID string
	var resolution string
	var filter string
	var output string
	var asJSON bool
	var appCfg config.AppConfigFile
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "Owner of the memories",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "resolution",
			Aliases:     []string{"r"},
			Usage:       "Aggregation level [day|month|year]",
			Value:       string(types.ResolutionDay),
			Destination: &resolution,
		},
		&cli.StringFlag{
			Name:        "filter",
			Aliases:     []string{"f"},
			Usage:       "Emphasis filter, e.g. mood:happy or tag:travel",
			Value:       "none",
			Destination: &filter,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the renderer scene as JSON instead of a summary",
			Destination: &asJSON,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file, - for stdout",
			Value:       "-",
			Destination: &output,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "graph",
		Aliases: []string{"g"},
		Usage:   "Build the memory network of a user and print it",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			res, err := types.ParseResolution(resolution)
			if err != nil {
				return goerr.Wrap(err, "invalid --resolution", goerr.V("resolution", resolution))
			}
			f, err := graph.ParseFilter(filter)
			if err != nil {
				return goerr.Wrap(err, "invalid --filter", goerr.V("filter", filter))
			}

			appConfig, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration file")
			}
			loc, err := appConfig.Location()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo,
				usecase.WithPalette(appConfig.ToPalette()),
				usecase.WithLocation(loc),
			)

			g, err := uc.Graph.Build(ctx, model.UserID(userID), res, f)
			if err != nil {
				return err
			}

			w := io.Writer(os.Stdout)
			if output != "-" {
				// #nosec G304 - path is provided by CLI argument
				file, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, file)
				w = file
			}

			if asJSON {
				scene := visnet.NewScene(g, interfaces.RenderOptions{Physics: true, FitOnStabilize: true})
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(scene); err != nil {
					return goerr.Wrap(err, "failed to encode scene")
				}
				return nil
			}

			logging.From(ctx).Debug("graph built", "nodes", len(g.Nodes), "edges", len(g.Edges))
			printGraphSummary(w, g)
			return nil
		},
	}
}

func printGraphSummary(w io.Writer, g *graph.Graph) {
	heading := color.New(color.FgCyan, color.Bold)
	matched := color.New(color.FgGreen)
	dimmed := color.New(color.Faint)

	_, _ = heading.Fprintf(w, "%s view, filter %s\n", g.Resolution, g.Filter)
	for _, n := range g.Nodes {
		a := n.Attrs()
		line := fmt.Sprintf("  %-12s %s\n", a.Label, describeNode(n))
		if a.Matches {
			_, _ = matched.Fprint(w, line)
		} else {
			_, _ = dimmed.Fprint(w, line)
		}
	}

	_, _ = fmt.Fprintf(w, "%d nodes, %d chronological edges, %d same-day edges\n",
		len(g.Nodes), g.CountEdges(graph.EdgeChronological), g.CountEdges(graph.EdgeSameDay))
	if g.Skipped > 0 {
		_, _ = color.New(color.FgYellow).Fprintf(w, "%d malformed memories skipped\n", g.Skipped)
	}
}

func describeNode(n graph.Node) string {
	switch v := n.(type) {
	case *graph.DayNode:
		return v.Memory.Title
	case *graph.MonthNode:
		return fmt.Sprintf("%d memories", len(v.Members))
	case *graph.YearNode:
		return fmt.Sprintf("%d memories", len(v.Members))
	default:
		return ""
	}
}
