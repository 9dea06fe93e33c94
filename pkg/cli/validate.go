package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Rajgohel2908/Memora/pkg/cli/config"
	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/domain/model/graph"
	"github.com/Rajgohel2908/Memora/pkg/domain/types"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
	"github.com/Rajgohel2908/Memora/pkg/utils/safe"
)

// ErrMalformedMemories is returned by validate --strict when stored memories
// would be skipped by the graph builder
var ErrMalformedMemories = goerr.New("malformed memories found")

func cmdValidate() *cli.Command {
	var appCfg config.AppConfigFile
	var repoCfg config.Repository
	var userIDs []string
	var strict bool

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:        "check-user",
			Usage:       "Check the stored memories of this user, can be repeated",
			Destination: &userIDs,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "Fail when a checked user has memories the graph builder would skip",
			Destination: &strict,
		},
	)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally check stored memories",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the configuration file
			appConfig, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			loc, err := appConfig.Location()
			if err != nil {
				return err
			}
			palette := appConfig.ToPalette()

			logger.Info("Configuration validation passed",
				"path", appCfg.Path(),
				"timezone", loc.String(),
				"mood_colors", len(palette.Moods),
			)

			// Step 2: If users are given, check their memories
			if len(userIDs) == 0 {
				logger.Info("No user specified, skipping memory check")
				return nil
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			var malformed int
			for _, id := range userIDs {
				records, err := repo.Memory().ListByUser(ctx, model.UserID(id))
				if err != nil {
					return goerr.Wrap(err, "failed to list memories", goerr.V(model.UserIDKey, id))
				}

				g, err := graph.Build(ctx, records, types.ResolutionDay, graph.NoFilter(),
					graph.WithLocation(loc), graph.WithPalette(palette))
				if err != nil {
					return goerr.Wrap(err, "failed to build graph", goerr.V(model.UserIDKey, id))
				}

				logger.Info("Memories checked",
					"user_id", id,
					"memories", len(records),
					"skipped", g.Skipped,
				)
				malformed += g.Skipped
			}

			if strict && malformed > 0 {
				return goerr.Wrap(ErrMalformedMemories, "memory check failed", goerr.V("count", malformed))
			}
			return nil
		},
	}
}
