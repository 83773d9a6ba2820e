// Package signature verifies inbound request authenticity. Every check is a
// pure function of request bytes and a shared secret; any missing field or
// decode failure is a verification failure, never an error.
package signature

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	"github.com/keybridge-io/license-bridge/constant"
)

// BodyAlgorithm selects the keyed-hash MAC used for body signatures.
type BodyAlgorithm int

const (
	// HMACSHA256Base64 is the commerce webhook scheme: base64-encoded
	// HMAC-SHA256 over the raw body.
	HMACSHA256Base64 BodyAlgorithm = iota

	// HMACMD5Hex is the pledge webhook scheme: hex-encoded HMAC-MD5 over
	// the raw body.
	HMACMD5Hex
)

// VerifyBody computes the keyed MAC over the exact raw request body bytes
// and compares it against the header-supplied value. The body must be the
// unparsed wire bytes; re-serialized JSON would not verify.
func VerifyBody(rawBody []byte, headerValue, secret string, alg BodyAlgorithm) bool {
	if headerValue == "" || secret == "" {
		return false
	}

	switch alg {
	case HMACSHA256Base64:
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(rawBody)

		return headerValue == base64.StdEncoding.EncodeToString(mac.Sum(nil))
	case HMACMD5Hex:
		supplied, err := hex.DecodeString(headerValue)
		if err != nil {
			return false
		}

		mac := hmac.New(md5.New, []byte(secret))
		mac.Write(rawBody)

		return hmac.Equal(supplied, mac.Sum(nil))
	default:
		return false
	}
}

// VerifyQueryHash checks the query-hash scheme: the signature field is
// removed, the remaining parameters are sorted by key, their values are
// concatenated, the secret is appended, and the MD5 digest is compared
// against the supplied hash as lowercase hex.
func VerifyQueryHash(params url.Values, secret string) bool {
	supplied := params.Get(constant.QueryHashField)
	if supplied == "" || secret == "" {
		return false
	}

	var b strings.Builder
	for _, k := range sortedKeys(params, constant.QueryHashField) {
		for _, v := range params[k] {
			b.WriteString(v)
		}
	}

	b.WriteString(secret)

	digest := md5.Sum([]byte(b.String()))

	return supplied == hex.EncodeToString(digest[:])
}

// VerifySignedURL checks the signed-URL scheme: the remaining parameters are
// concatenated as key=value pairs joined by "&" and authenticated with
// HMAC-SHA1 under a composite key derived from the secret. This scheme is a
// distinct variant of the query-hash scheme and is kept separate on purpose.
func VerifySignedURL(params url.Values, secret string) bool {
	supplied := params.Get(constant.SignedURLField)
	if supplied == "" || secret == "" {
		return false
	}

	pairs := make([]string, 0, len(params))
	for _, k := range sortedKeys(params, constant.SignedURLField) {
		for _, v := range params[k] {
			pairs = append(pairs, k+"="+v)
		}
	}

	mac := hmac.New(sha1.New, []byte(secret+"&"))
	mac.Write([]byte(strings.Join(pairs, "&")))

	return supplied == hex.EncodeToString(mac.Sum(nil))
}

// sortedKeys returns the parameter keys in sorted order, excluding the
// signature field itself.
func sortedKeys(params url.Values, exclude string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == exclude {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
