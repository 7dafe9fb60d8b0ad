package cmd

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/MrEthical07/goToken/internal/jwks"
	"github.com/MrEthical07/goToken/internal/security"
	"github.com/spf13/cobra"
)

type pubkeyOptions struct {
	keyPath string
	keyID   string
	asSet   bool
}

func newPubkeyCmd(g *globals) *cobra.Command {
	opts := &pubkeyOptions{}

	cmd := &cobra.Command{
		Use:   "pubkey",
		Short: "Print the verification key as a JWK",
		Long: `Print the public half of the signing key as a JSON Web Key, for
services that verify issued tokens.

The key ID defaults to the RFC 7638 SHA-256 thumbprint.

Examples:
  gotoken pubkey --key signing.pem
  gotoken pubkey --key signing.pem --kid 2026-10 --set`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPubkey(cmd, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.keyPath, "key", "k", "", "Ed25519 private key file (env: GOTOKEN_KEY_FILE)")
	cmd.Flags().StringVar(&opts.keyID, "kid", "", "Key ID to embed (default: thumbprint)")
	cmd.Flags().BoolVar(&opts.asSet, "set", false, "Wrap the key in a JWK set")
	return cmd
}

func runPubkey(cmd *cobra.Command, g *globals, opts *pubkeyOptions) error {
	priv, err := g.loadKey(opts.keyPath)
	if err != nil {
		return err
	}
	pub, _ := priv.Public().(ed25519.PublicKey)
	security.Wipe(priv)

	var doc any
	if opts.asSet {
		doc, err = jwks.Set(pub, opts.keyID)
	} else {
		doc, err = jwks.PublicKey(pub, opts.keyID)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
