package model

import (
	"strings"

	"github.com/keybridge-io/license-bridge/constant"
)

// ActivationCode is the externally distributed credential: an activation
// token and a license key joined by the code delimiter.
type ActivationCode string

// NewActivationCode builds a code from an activation token and the license
// key the remote service returned.
func NewActivationCode(token, key string) ActivationCode {
	return ActivationCode(token + constant.ActivationCodeDelimiter + key)
}

// LicenseKey extracts the license key portion of the code. It reports false
// when the code does not carry a delimiter.
func (c ActivationCode) LicenseKey() (string, bool) {
	parts := strings.Split(string(c), constant.ActivationCodeDelimiter)
	if len(parts) < 2 {
		return "", false
	}

	return parts[1], true
}

// Token extracts the activation token portion of the code.
func (c ActivationCode) Token() (string, bool) {
	parts := strings.Split(string(c), constant.ActivationCodeDelimiter)
	if len(parts) < 2 {
		return "", false
	}

	return parts[0], true
}

func (c ActivationCode) String() string {
	return string(c)
}
