package server

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/keybridge-io/license-bridge/constant"
	"github.com/keybridge-io/license-bridge/internal/signature"
	"github.com/keybridge-io/license-bridge/model"
	"github.com/keybridge-io/license-bridge/pkg"
	pkgHTTP "github.com/keybridge-io/license-bridge/pkg/net/http"
)

// handleCommerceWebhook authenticates and processes a commerce event batch.
// Events are handled in order; an unrecognized type is skipped, a hard
// failure aborts the batch and fails the request.
func (s *Server) handleCommerceWebhook(c *fiber.Ctx) error {
	raw := c.Body()

	if !signature.VerifyBody(raw, c.Get(constant.FastSpringSignatureHeader),
		s.config.FastSpringWebhookSecret, signature.HMACSHA256Base64) {
		s.logger.Errorf("commerce webhook signature check failed")

		return pkgHTTP.WithError(c, pkg.UnauthorizedWebhookError("webhook"))
	}

	var batch model.EventBatch
	if err := json.Unmarshal(raw, &batch); err != nil || batch.Events == nil {
		return pkgHTTP.WithError(c, pkg.UnprocessableOperationError{
			EntityType: "webhook",
			Code:       constant.ErrMalformedEventBatch,
			Title:      "Malformed Event Batch",
			Message:    "invalid format (events)",
		})
	}

	for _, event := range batch.Events {
		if event.Type == "" {
			return pkgHTTP.WithError(c, pkg.MalformedPayloadError("webhook", "type"))
		}

		if err := s.router.Dispatch(c.UserContext(), event); err != nil {
			return pkgHTTP.WithError(c, err)
		}
	}

	return c.SendStatus(fiber.StatusOK)
}

// handlePledgeWebhook authenticates a pledge event and routes it by the
// trigger header. The whole body is the event payload.
func (s *Server) handlePledgeWebhook(c *fiber.Ctx) error {
	raw := c.Body()

	if !signature.VerifyBody(raw, c.Get(constant.PatreonSignatureHeader),
		s.config.PatreonWebhookSecret, signature.HMACMD5Hex) {
		s.logger.Errorf("pledge webhook signature check failed")

		return pkgHTTP.WithError(c, pkg.UnauthorizedWebhookError("pledge"))
	}

	trigger := c.Get(constant.PatreonEventHeader)
	if trigger == "" {
		return pkgHTTP.WithError(c, pkg.MalformedPayloadError("pledge", constant.PatreonEventHeader))
	}

	event := model.WebhookEvent{Type: trigger, Data: raw}

	if err := s.router.Dispatch(c.UserContext(), event); err != nil {
		return pkgHTTP.WithError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

// handleManualIssuance processes a form-encoded issuance request from the
// commerce platform's license generator. Full success answers plain text,
// one code per line; partial success answers structured lists since partial
// progress is meaningful to the caller.
func (s *Server) handleManualIssuance(c *fiber.Ctx) error {
	params, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		s.logger.Errorf("manual issuance: unparseable form body")

		return pkgHTTP.WithError(c, pkg.UnauthorizedWebhookError("issuance"))
	}

	if !signature.VerifyQueryHash(params, s.config.FastSpringLicenseGenKey) {
		s.logger.Errorf("manual issuance signature check failed")

		return pkgHTTP.WithError(c, pkg.UnauthorizedWebhookError("issuance"))
	}

	quantity, err := strconv.Atoi(params.Get("quantity"))
	if err != nil {
		return pkgHTTP.WithError(c, pkg.QuantityOutOfRangeError("issuance"))
	}

	req := model.ProvisioningRequest{
		SubscriptionRef: params.Get("subscription"),
		PolicyID:        params.Get("policy"),
		Quantity:        quantity,
	}

	if err := req.Validate(); err != nil {
		return pkgHTTP.WithError(c, issuanceValidationError(err))
	}

	result := s.provisioner.Generate(c.UserContext(), req)

	if len(result.Errors) == 0 {
		codes := make([]string, 0, len(result.Codes))
		for _, code := range result.Codes {
			codes = append(codes, code.String())
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

		return c.SendString(strings.Join(codes, "\n"))
	}

	return c.JSON(result)
}

// issuanceValidationError maps field validation failures to the boundary
// error taxonomy.
func issuanceValidationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "Quantity" {
				return pkg.QuantityOutOfRangeError("issuance")
			}
		}
	}

	return pkg.ValidationError{
		EntityType: "issuance",
		Code:       constant.ErrMissingIssuanceFields,
		Title:      "Missing Required Fields",
		Message:    "subscription and policy are required",
	}
}
