package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	jwttoken "spendgate/internal/jwt_token"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator bearer token",
		Long: `Generates a signed operator token for the admin endpoints. The
signing key must match the server's SPENDGATE_JWT_SIGNING_KEY.`,
		RunE: runToken,
	}

	cmd.Flags().String("subject", "", "operator identity to embed")
	cmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	cmd.Flags().String("signing-key", "", "HMAC signing key (or SPENDGATE_JWT_SIGNING_KEY)")

	_ = viper.BindPFlag("jwt_signing_key", cmd.Flags().Lookup("signing-key"))

	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	subject := mustString(cmd.Flags().GetString("subject"))
	if subject == "" {
		return fmt.Errorf("--subject is required")
	}

	signingKey := viper.GetString("jwt_signing_key")
	if signingKey == "" {
		return fmt.Errorf("a signing key is required (--signing-key or SPENDGATE_JWT_SIGNING_KEY)")
	}

	ttl, _ := cmd.Flags().GetDuration("ttl")

	svc := jwttoken.NewJWTService(signingKey, "spendgate", "spendgate")
	token, err := svc.GenerateOperatorToken(subject, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
