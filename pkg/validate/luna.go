package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// ReferralCodeLength is the number of digits in a generated referral code, check digit included.
const ReferralCodeLength = 10

// NewReferralCode returns a random Luhn-valid digit string.
func NewReferralCode() string {
	return goluhn.Generate(ReferralCodeLength)
}

// IsReferralCode rejects typos in a referral code before it reaches the database.
func IsReferralCode(s string) bool {
	if len(s) != ReferralCodeLength {
		return false
	}
	return goluhn.Validate(s) == nil
}
