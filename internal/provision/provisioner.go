// Package provision drives the two-step issuance protocol against the
// licensing service: create a license, then mint its activation token.
// There is no atomicity across the two calls; failures are accounted
// per unit and a created license whose token minting failed is surfaced
// as an orphan, not compensated.
package provision

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/LerianStudio/lib-commons/commons/log"
	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/keygen"
	"github.com/keybridge-io/license-bridge/model"
)

// LicenseService is the remote surface the provisioner needs. The keygen
// client satisfies it; tests substitute fakes.
type LicenseService interface {
	CreateLicense(ctx context.Context, params keygen.CreateLicenseParams) (keygen.CreatedLicense, error)
	CreateActivationToken(ctx context.Context, licenseID string) (string, error)
}

// Provisioner executes issuance requests unit by unit.
type Provisioner struct {
	service LicenseService
	logger  log.Logger
}

// New creates a new provisioner
func New(service LicenseService, logger log.Logger) *Provisioner {
	return &Provisioner{
		service: service,
		logger:  logger,
	}
}

// Generate processes the request's quantity sequentially: each unit's two
// remote calls complete or fail before the next unit starts, so emitted
// codes match request order and errors are attributable per unit. A unit
// failure never aborts the batch. Quantity zero yields empty results.
func (p *Provisioner) Generate(ctx context.Context, req model.ProvisioningRequest) model.ProvisioningResult {
	var result model.ProvisioningResult

	p.logger.Debugf("Generating %d license(s) with policy %s", req.Quantity, req.PolicyID)

	for unit := 0; unit < req.Quantity; unit++ {
		candidate, err := randomKey()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unit %d: key generation failed: %s", unit+1, err))
			continue
		}

		params := keygen.CreateLicenseParams{
			Key:             candidate,
			PolicyID:        req.PolicyID,
			SubscriptionRef: req.SubscriptionRef,
			InvoiceRef:      req.InvoiceRef,
		}

		if req.DryRun {
			result.Planned = append(result.Planned, renderPlanned(params))
			continue
		}

		created, err := p.service.CreateLicense(ctx, params)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("unit %d: create license: %s", unit+1, err))
			continue
		}

		token, err := p.service.CreateActivationToken(ctx, created.ID)
		if err != nil {
			// The license exists remotely but has no token. Cleanup is an
			// operational concern, so name the condition for the operator.
			result.Errors = append(result.Errors,
				fmt.Sprintf("unit %d: orphan license %s: activation token minting failed: %s", unit+1, created.ID, err))

			continue
		}

		result.Codes = append(result.Codes, model.NewActivationCode(token, created.Key))
	}

	return result
}

// randomKey returns the hex-encoded candidate key for one license.
func randomKey() (string, error) {
	buf := make([]byte, constant.LicenseKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

// renderPlanned formats the request a dry run would have sent.
func renderPlanned(params keygen.CreateLicenseParams) string {
	rendered, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%+v", params)
	}

	return string(rendered)
}
