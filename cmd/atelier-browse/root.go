package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"atelier/internal/adapters/atelierapi"
	"atelier/internal/core/version"
	"atelier/internal/platform/config"

	"github.com/spf13/cobra"
)

var (
	apiURL   string
	token    string
	pageSize int
)

var rootCmd = &cobra.Command{
	Use:   "atelier-browse",
	Short: "Browse an atelier API from the terminal",
	Long: `atelier-browse pages through the studio journal, the art gallery and, for admins, the accounts.

Each list opens an interactive prompt: n and p move between pages, o changes
the server order, / t and s narrow the loaded page, x expands an item.`,
	Version:       version.Info("atelier-browse").Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non zero on error
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func client() *atelierapi.Client {
	return atelierapi.NewClient(atelierapi.Options{BaseURL: apiURL, Token: token})
}

func init() {
	_ = config.Load(".env")
	c := config.New().Prefix("ATELIER_")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", c.MayString("API_URL", "http://localhost:4000/api/v1"), "api base url including /api/v1")
	rootCmd.PersistentFlags().StringVar(&token, "token", c.MayString("TOKEN", ""), "access token sent as a bearer token")
	rootCmd.PersistentFlags().IntVarP(&pageSize, "size", "n", c.MayInt("PAGE_SIZE", 5), "items per page")

	rootCmd.AddCommand(postsCmd, artCmd, usersCmd, versionCmd)
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Page through the studio journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := client()
		fmt.Fprintf(cmd.OutOrStdout(), "journal at %s\n", c.Endpoint("/content"))
		return browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), c.Posts(), "content", pageSize, renderPost)
	},
}

var artCmd = &cobra.Command{
	Use:   "art",
	Short: "Page through the gallery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := client()
		fmt.Fprintf(cmd.OutOrStdout(), "gallery at %s\n", c.Endpoint("/art"))
		return browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), c.Gallery(), "art", pageSize, renderArtwork)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Page through the accounts (admin token required)",
	Long: `users lists every account; the server answers 403 unless --token belongs to an admin.

o orders by created_at, name or email; t keeps one role; s sorts the loaded page by name or email.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if token == "" {
			return fmt.Errorf("users needs an admin access token, pass --token or set ATELIER_TOKEN")
		}
		c := client()
		fmt.Fprintf(cmd.OutOrStdout(), "accounts at %s\n", c.Endpoint("/users"))
		return browse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), c.Users(), "users", pageSize, renderUser)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and server versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		local := version.Info("atelier-browse")
		fmt.Fprintf(out, "client  %s (%s)\n", local.Version, local.Commit)
		remote, err := client().Version(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "server  %v (%v) %v\n", remote["version"], remote["commit"], remote["service"])
		return nil
	},
}
