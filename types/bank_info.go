package types

import "time"

// BankInfo is a resident's payout configuration as stored. The full IBAN is
// never serialized on regular reads; PayeeInfo carries the read projection.
type BankInfo struct {
	UserID            string     `json:"userId"`
	IBAN              string     `json:"-"`
	IBANMasked        string     `json:"ibanMasked,omitempty"`
	BankName          string     `json:"bankName,omitempty"`
	AccountHolderName string     `json:"accountHolderName,omitempty"`
	Revtag            string     `json:"revtag,omitempty"`
	PayconiqEnabled   bool       `json:"payconiqEnabled"`
	Verified          bool       `json:"verified"`
	VerifiedAt        *time.Time `json:"verifiedAt,omitempty"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// UpdateBankInfoRequest is the payload for upserting the caller's bank info.
type UpdateBankInfoRequest struct {
	IBAN              string `json:"iban"`
	BankName          string `json:"bankName"`
	AccountHolderName string `json:"accountHolderName"`
	Revtag            string `json:"revtag"`
	PayconiqEnabled   bool   `json:"payconiqEnabled"`
}

// PayeeInfo is the read-only projection of a roommate's bank info used when
// settling a debt. IBAN is populated only when a full reveal was granted;
// IBANMasked is always safe to display.
type PayeeInfo struct {
	UserID            string `json:"userId"`
	IBAN              string `json:"iban,omitempty"`
	IBANMasked        string `json:"ibanMasked,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`
	Revtag            string `json:"revtag,omitempty"`
	PayconiqEnabled   bool   `json:"payconiqEnabled"`
}

// HasAnyChannel reports whether the payee has at least one settlement channel.
func (p *PayeeInfo) HasAnyChannel() bool {
	return p.IBAN != "" || p.IBANMasked != "" || p.Revtag != ""
}
