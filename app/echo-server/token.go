package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swipeNews/pkg/config"
	"swipeNews/pkg/utils"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Print a bearer token for a user id (requires JWT_SECRET)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg.JWT.SecretKey == "" {
			return errors.New("JWT_SECRET is not set")
		}

		token, err := utils.GenerateJWT(args[0], cfg.JWT.SecretKey, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 7*24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
