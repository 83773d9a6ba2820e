package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LerianStudio/lib-commons/commons/zap"
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/config"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/internal/provision"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/spf13/cobra"
)

func licenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "license management",
	}

	cmd.AddCommand(licenseNewCmd())

	return cmd
}

func licenseNewCmd() *cobra.Command {
	var (
		count        int
		subscription string
		invoice      string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "new POLICY",
		Short: "generate licenses under a policy",
		Long: "Generate licenses under the given policy id. Well-known aliases from the\n" +
			"configured alias table (e.g. STUDIO, INDIE, COMMUNITY) are resolved to\n" +
			"canonical policy ids.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLicenseNew(cmd.Context(), args[0], count, subscription, invoice, dryRun)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "c", 1, "number of licenses to generate")
	cmd.Flags().StringVar(&subscription, "subscription", "", "commerce subscription ID")
	cmd.Flags().StringVar(&invoice, "invoice", "", "invoice identifier")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"display the contents of the API requests but do not send them")

	return cmd
}

func runLicenseNew(ctx context.Context, policy string, count int, subscription, invoice string, dryRun bool) error {
	_ = godotenv.Load()

	logger := zap.InitializeLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if subscription == "" && invoice == "" {
		return errors.New("please specify either a subscription ID or an invoice ID " +
			"(with \"--subscription\" or \"--invoice\")")
	}

	if count < constant.MinLicenseQuantity || count > constant.MaxLicenseQuantity {
		return fmt.Errorf("cannot generate %d licenses at once: please specify a count between %d and %d",
			count, constant.MinLicenseQuantity, constant.MaxLicenseQuantity)
	}

	actualPolicy, usedAlias := cfg.ResolvePolicy(policy)
	if !usedAlias {
		if _, err := uuid.Parse(actualPolicy); err != nil {
			return fmt.Errorf("policy %q is neither a configured alias nor a valid policy id", policy)
		}
	}

	if usedAlias {
		fmt.Printf("Generating %d license(s) with policy %s (%s)\n", count, policy, actualPolicy)
	} else {
		fmt.Printf("Generating %d license(s) with policy %s\n", count, actualPolicy)
	}

	fmt.Printf("    - subscription ID: %s\n", subscription)
	fmt.Printf("    - invoice ID: %s\n", invoice)

	provisioner := provision.New(keygen.New(cfg, nil, logger), logger)

	result := provisioner.Generate(ctx, model.ProvisioningRequest{
		SubscriptionRef: subscription,
		PolicyID:        actualPolicy,
		Quantity:        count,
		InvoiceRef:      invoice,
		DryRun:          dryRun,
	})

	if dryRun {
		fmt.Printf("%d request(s) would be sent:\n", len(result.Planned))
		for _, planned := range result.Planned {
			fmt.Printf(" - %s\n", planned)
		}

		return nil
	}

	if len(result.Codes) > 0 {
		fmt.Printf("%d license(s) successfully generated:\n", len(result.Codes))

		var all strings.Builder
		for _, code := range result.Codes {
			fmt.Printf(" - %s\n", code)
			all.WriteString(code.String())
			all.WriteString("\n")
		}

		if err := clipboard.WriteAll(all.String()); err == nil {
			fmt.Println("Licenses copied to clipboard.")
		}
	}

	fmt.Println()

	if len(result.Errors) > 0 {
		fmt.Printf("%d error(s) generating licenses:\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Printf("    - %s\n", msg)
		}
	}

	return nil
}
