package model

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ProvisioningRequest describes one issuance request. Quantity bounds and
// required identifying fields are enforced at the boundary, before any
// remote call is made.
type ProvisioningRequest struct {
	SubscriptionRef string `json:"subscription" validate:"required_without=InvoiceRef"`
	PolicyID        string `json:"policy"       validate:"required"`
	Quantity        int    `json:"quantity"     validate:"min=1,max=10"`
	InvoiceRef      string `json:"invoice,omitempty"`
	DryRun          bool   `json:"dryRun,omitempty"`
}

// Validate checks the request against the boundary rules.
func (r *ProvisioningRequest) Validate() error {
	return validate.Struct(r)
}

// ProvisioningResult carries the two parallel outcomes of a batch: minted
// activation codes and per-unit error descriptions. Partial failure is the
// designed behavior, not an error condition of the batch itself.
type ProvisioningResult struct {
	Codes  []ActivationCode `json:"codes"`
	Errors []string         `json:"errors,omitempty"`

	// Planned holds the create-license requests a dry run would have sent,
	// rendered for operator inspection.
	Planned []string `json:"planned,omitempty"`
}
