package cli

import (
	"errors"
	"fmt"

	"marketplace/internal/auth"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a profile",
	Long: `Mint an HS256 bearer token for the given profile, signed with JWT_SECRET.
The profile is not looked up; the API rejects tokens for unknown profiles.`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Int64("profile", 0, "profile id the token is issued for")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (defaults to TOKEN_TTL_MINUTES)")
}

func runToken(cmd *cobra.Command, _ []string) error {
	profileID, _ := cmd.Flags().GetInt64("profile")
	if profileID <= 0 {
		return errors.New("--profile must be a positive profile id")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl <= 0 {
		ttl = cfg.TokenTTL
	}
	token, err := auth.GenerateToken(cfg.JWTSecret, profileID, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
