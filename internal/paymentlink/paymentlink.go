// Package paymentlink builds the deep links used to settle debts outside the
// platform: Payconiq payment URIs and Revolut profile links.
package paymentlink

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/izzico/izzico-backend/pkg/iban"
)

// Payconiq builds a payconiq:// payment URI for the given IBAN, amount in
// minor units and human-readable reference. The IBAN must be the full,
// unmasked number.
func Payconiq(fullIBAN string, amountCents int64, reference string) string {
	cleaned := iban.Normalize(fullIBAN)
	return fmt.Sprintf(
		"payconiq://payconiq.com/pay/2/%s?amount=%d&reference=%s",
		cleaned,
		amountCents,
		url.QueryEscape(reference),
	)
}

// Revolut builds a revolut.me profile link for a revtag. Revolut exposes no
// public parameterized pay link, so the amount is communicated out of band.
func Revolut(revtag string) string {
	cleanTag := strings.TrimPrefix(revtag, "@")
	return "https://revolut.me/" + cleanTag
}
