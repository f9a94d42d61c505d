// Package cli provides the command-line interface for bedrock-image.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	bedrockimage "github.com/Yaksh36/mcp-server-bedrock-image"
	"github.com/Yaksh36/mcp-server-bedrock-image/internal/config"
	"github.com/Yaksh36/mcp-server-bedrock-image/internal/logger"
	"github.com/Yaksh36/mcp-server-bedrock-image/internal/utils"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/client"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/dispatch"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/processing"
	"github.com/Yaksh36/mcp-server-bedrock-image/pkg/storage"
)

// app carries state shared by every subcommand once flags are parsed
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	jsonLogs   bool

	cfg    *config.Config
	logger hclog.Logger
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "bedrock-image",
		Short: "Stability AI image tools on AWS Bedrock with logo placement",
		Long: `bedrock-image generates and edits images with Stability AI models on AWS Bedrock
and blends logos into photographs where they disturb the picture least.

Backend operations authenticate with the AWS SDK credential chain (default) or
a bearer token (BEDROCK_AUTH_MODE=bearer, AWS_BEARER_TOKEN_BEDROCK).
Logo composition and analysis run locally and need no credentials.`,
		Version:      bedrockimage.GetVersion(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&a.jsonLogs, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newComposeCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newInvokeCmd(a))
	rootCmd.AddCommand(newToolsCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		if def := config.GetConfigPath(); utils.FileExists(def) {
			path = def
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = logger.New(logger.Options{
		Name:    "bedrock-image",
		Level:   cfg.Server.LogLevel,
		Verbose: a.verbose,
		Quiet:   a.quiet,
		JSON:    a.jsonLogs,
		Output:  cmd.ErrOrStderr(),
	})
	a.logger.Debug("configuration loaded", "path", path, "auth_mode", cfg.Backend.AuthMode, "region", cfg.Backend.Region)

	return nil
}

// service wires a dispatch service. The backend client is only built when
// withBackend is set, so local commands never need credentials.
func (a *app) service(ctx context.Context, withBackend bool) (*dispatch.Service, error) {
	resolver, err := a.resolver()
	if err != nil {
		return nil, err
	}

	opts := dispatch.Options{
		Config:   a.cfg,
		Resolver: resolver,
		Logger:   a.logger.Named("dispatch"),
	}

	if withBackend {
		c, err := client.FromConfig(ctx, a.cfg.Backend)
		if err != nil {
			return nil, fmt.Errorf("failed to create backend client: %w", err)
		}
		opts.Client = c
	}

	return dispatch.NewService(opts), nil
}

// resolver handles azblob:// sources only when Azure credentials are configured
func (a *app) resolver() (*processing.Resolver, error) {
	if !a.cfg.Azure.Enabled() {
		return processing.NewResolver(nil), nil
	}
	store, err := storage.NewAzureStorage(a.cfg.Azure.AccountName, a.cfg.Azure.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure storage: %w", err)
	}
	return processing.NewResolver(store), nil
}

// version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skip config loading so version always works
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bedrock-image %s\n", bedrockimage.GetVersion())
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
