// Package cmdutil holds what the client-side commands share: config
// loading, the session token and the upstream client.
package cmdutil

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/internal/app"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/logs"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

// TokenEnv is read when --token is not given.
const TokenEnv = config.EnvPrefix + "_TOKEN"

var ErrNoToken = errors.New("no API token: pass --token or set " + TokenEnv)

// AddTokenFlag registers --token on cmd.
func AddTokenFlag(cmd *cobra.Command) {
	cmd.Flags().String("token", "", "clinic API token (defaults to $"+TokenEnv+")")
}

// Env is what a client command needs to talk to the clinic API.
type Env struct {
	Cfg    *config.Config
	Client *clinicapi.Client
	Log    *slog.Logger
}

// Load reads the config named by --config and builds the upstream client.
// Logs go to stderr so they never mix with rendered output.
func Load(cmd *cobra.Command) (*Env, error) {
	cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
	if err != nil {
		return nil, err
	}

	logCfg := *cfg
	logCfg.Logging.Output.Stdout = false
	log := slog.New(logs.NewHandler(&logCfg, os.Stderr))
	slog.SetDefault(log)

	client, err := app.ProvideClinicAPI(cfg)
	if err != nil {
		return nil, err
	}
	return &Env{Cfg: cfg, Client: client, Log: log}, nil
}

// Context attaches the caller's token and a fresh request id to the
// command's context.
func Context(cmd *cobra.Command) (context.Context, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	if token == "" {
		return nil, ErrNoToken
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: uuid.NewString()})
	return reqctx.WithSession(ctx, reqctx.NewSession(token)), nil
}
