package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/Rajgohel2908/Memora/pkg/domain/model"
	"github.com/Rajgohel2908/Memora/pkg/usecase"
	"github.com/Rajgohel2908/Memora/pkg/utils/logging"
)

// Auth holds CLI flags for request authentication
type Auth struct {
	jwtSecret string
	noAuthUID string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret used to verify HS256 bearer tokens",
			Category:    "Auth",
			Destination: &x.jwtSecret,
			Sources:     cli.EnvVars("MEMORA_JWT_SECRET"),
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Run every request as this user ID (development only)",
			Category:    "Auth",
			Destination: &x.noAuthUID,
			Sources:     cli.EnvVars("MEMORA_NO_AUTH"),
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("jwt-secret.len", len(x.jwtSecret)),
		slog.String("no-auth", x.noAuthUID),
	)
}

// Configure returns the JWT verifier, or the no-auth stand-in when --no-auth
// is set. One of the two flags is required.
func (x *Auth) Configure() (usecase.AuthUseCaseInterface, error) {
	switch {
	case x.noAuthUID != "":
		if x.jwtSecret != "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "--jwt-secret and --no-auth are mutually exclusive")
		}
		logging.Default().Warn("Authentication disabled, all requests run as one user", "user_id", x.noAuthUID)
		return usecase.NewNoAuthnUseCase(model.UserID(x.noAuthUID)), nil

	case x.jwtSecret != "":
		return usecase.NewAuthUseCase([]byte(x.jwtSecret)), nil

	default:
		return nil, goerr.Wrap(ErrMissingFlag, "either --jwt-secret or --no-auth is required",
			goerr.V(FlagKey, "jwt-secret"))
	}
}
