package utils

import "github.com/google/uuid"

// GenerateReference produces a globally unique ledger reference. The random
// UUID gives 122 bits of entropy, so no coordination with the database or
// other instances is needed; the unique index on transactions.reference is
// the final arbiter.
func GenerateReference() string {
	return "TXN-" + uuid.NewString()
}
