package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"spendgate/internal/authorize/config"
	"spendgate/internal/authorize/engine"
	"spendgate/internal/authorize/models"
	"spendgate/internal/authorize/program"
	id "spendgate/pkg/domain"
)

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evaluate a checkout against a ruleset offline",
		Long: `Runs one transaction through the policy engine without a server.
The ruleset comes from --ruleset (a JSON snapshot, same shape as the
admin API) or falls back to the built-in defaults.`,
		RunE: runSimulate,
	}

	cmd.Flags().String("ruleset", "", "path to a ruleset JSON file")
	cmd.Flags().String("method", "corporate_pay", "payment method")
	cmd.Flags().Int64("amount", 0, "amount in minor units")
	cmd.Flags().String("currency", "UGX", "currency code")
	cmd.Flags().String("region", "Kampala", "trip region")
	cmd.Flags().String("time", "", "time of day (HH:MM, default now)")
	cmd.Flags().String("category", "standard", "category tier")
	cmd.Flags().String("schedule", "immediate", "schedule mode")
	cmd.Flags().String("purpose", "", "purpose tag")
	cmd.Flags().String("cost-center", "", "cost-center tag")
	cmd.Flags().String("program-status", "eligible", "program funding status")
	cmd.Flags().String("grace-expiry", "", "grace window expiry (RFC 3339)")

	_ = viper.BindPFlag("simulate.ruleset", cmd.Flags().Lookup("ruleset"))

	return cmd
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	now := time.Now()

	method, err := models.ParsePaymentMethod(mustString(flags.GetString("method")))
	if err != nil {
		return err
	}
	category, err := models.ParseCategory(mustString(flags.GetString("category")))
	if err != nil {
		return err
	}
	mode, err := models.ParseScheduleMode(mustString(flags.GetString("schedule")))
	if err != nil {
		return err
	}

	tod := models.MinuteOfDay(now.Hour()*60 + now.Minute())
	if raw := mustString(flags.GetString("time")); raw != "" {
		tod, err = models.ParseTimeOfDay(raw)
		if err != nil {
			return err
		}
	}

	amount, _ := flags.GetInt64("amount")
	req, err := models.NewTransactionRequest(
		method,
		amount,
		mustString(flags.GetString("currency")),
		mustString(flags.GetString("region")),
		tod,
		category,
		mode,
		mustString(flags.GetString("purpose")),
		mustString(flags.GetString("cost-center")),
	)
	if err != nil {
		return err
	}

	status, err := models.ParseProgramStatus(mustString(flags.GetString("program-status")))
	if err != nil {
		return err
	}
	grace := models.GraceWindow{}
	if raw := mustString(flags.GetString("grace-expiry")); raw != "" {
		expiry, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fmt.Errorf("grace-expiry must be RFC 3339: %w", err)
		}
		grace = models.GraceWindow{Enabled: true, Expiry: expiry}
	}

	rs, err := loadRuleset(viper.GetString("simulate.ruleset"))
	if err != nil {
		return err
	}

	resolution := program.Resolve(status, grace, now)
	decision := engine.Evaluate(req, resolution, rs, now, id.NewCorrelationID().String())

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func loadRuleset(path string) (config.Ruleset, error) {
	if path == "" {
		return config.DefaultRuleset(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return config.Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}

	var rs config.Ruleset
	if err := json.Unmarshal(raw, &rs); err != nil {
		return config.Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return config.Ruleset{}, err
	}
	return rs.Normalized(), nil
}

// mustString flattens pflag's (value, error) pair; the error is only ever a
// flag-name typo, which cannot happen for flags registered above.
func mustString(value string, _ error) string {
	return value
}
