package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MrEthical07/goToken/internal/security"
	"github.com/spf13/cobra"
)

type issueOptions struct {
	userID    string
	appID     string
	keyPath   string
	expFormat string
	asJSON    bool
}

type issueOutput struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

func newIssueCmd(g *globals) *cobra.Command {
	opts := &issueOptions{}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a user and application",
		Long: `Issue a signed identity token binding a user to an application.

The token is valid for 30 minutes from now and is printed on stdout.

Examples:
  gotoken issue --user u-123 --app billing --key signing.pem
  gotoken issue -u u-123 -a billing --exp-format numeric --json
  GOTOKEN_KEY_FILE=signing.pem gotoken issue -u u-123 -a billing`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "User identifier")
	cmd.Flags().StringVarP(&opts.appID, "app", "a", "", "Application identifier")
	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "Ed25519 private key file (env: GOTOKEN_KEY_FILE)")
	cmd.Flags().StringVar(&opts.expFormat, "exp-format", "rfc3339", "Expiration encoding: rfc3339 or numeric (env: GOTOKEN_EXP_FORMAT)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print token and expiry as JSON")
	return cmd
}

func runIssue(cmd *cobra.Command, g *globals, opts *issueOptions) error {
	format, err := g.expirationFormat(cmd, opts.expFormat)
	if err != nil {
		return err
	}

	key, err := g.loadKey(opts.keyPath)
	if err != nil {
		return err
	}
	defer security.Wipe(key)

	issuer, cleanup, err := g.newIssuer(format, false, false)
	if err != nil {
		return err
	}
	defer cleanup()

	token, err := issuer.Issue(opts.userID, opts.appID, key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !opts.asJSON {
		_, err = fmt.Fprintln(out, token.String())
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(issueOutput{
		Token:     token.String(),
		ExpiresAt: token.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}
