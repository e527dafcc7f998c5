package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/crmkit/crmctl/internal/api"
	"github.com/crmkit/crmctl/internal/config"
	"github.com/crmkit/crmctl/internal/errors"
	"github.com/crmkit/crmctl/internal/log"
	"github.com/crmkit/crmctl/internal/session"
	"github.com/crmkit/crmctl/internal/subscription"
)

// App bundles the wired components for one invocation.
//
// The session manager is owned here and handed to exactly the commands that
// need it; nothing reaches it through a package-level singleton.
type App struct {
	Config       config.Config
	Logger       *log.Logger
	Client       *api.Client
	Session      *session.Manager
	Subscription *subscription.Controller
}

type appKey struct{}

var (
	flagAPIURL string
	flagOutput string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "crmctl",
	Short: "Command-line client for the CRM backend",
	Long: `crmctl is a command-line client for the CRM backend: it manages your
authentication session, your team's subscription plan (including the hosted
Stripe checkout handoff), and shows a dashboard of leads and clients.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp()
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, app))
		return nil
	},
}

// buildApp loads configuration and wires the client, session manager, and
// subscription controller
func buildApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagAPIURL != "" {
		cfg.APIBaseURL = flagAPIURL
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = log.ParseLevel(cfg.LogLevel)
	logCfg.Format = log.ParseFormat(cfg.LogFormat)
	if flagDebug {
		logCfg = log.DebugConfig()
	}
	logger := log.New(logCfg)
	log.SetDefaultLogger(logger)

	client := api.NewClient(cfg.APIBaseURL)
	client.HTTPClient.Timeout = cfg.RequestTimeout

	store := session.NewFileStore(cfg.CredentialsFile)

	return &App{
		Config:       cfg,
		Logger:       logger,
		Client:       client,
		Session:      session.NewManager(client, store, logger),
		Subscription: subscription.NewController(client, logger),
	}, nil
}

// appFrom retrieves the wired App from the command context
func appFrom(cmd *cobra.Command) *App {
	app, _ := cmd.Context().Value(appKey{}).(*App)
	return app
}

// requireAuth hydrates the session and fails unless a valid authenticated
// user exists
func requireAuth(cmd *cobra.Command) (*App, error) {
	app := appFrom(cmd)
	if err := app.Session.Initialize(cmd.Context()); err != nil {
		return nil, err
	}
	if !app.Session.Authenticated() {
		return nil, errors.NewNotAuthenticatedError()
	}
	return app, nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "CRM backend base URL (overrides CRM_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}
