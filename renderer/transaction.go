package renderer

import (
	"fmt"

	"github.com/Lucas-Abner/tradebook"
)

// Transaction renders a transaction to a one-line string.
func Transaction(tx tradebook.Transaction) string {
	switch v := tx.(type) {
	case tradebook.Buy:
		return fmt.Sprintf("Bought %s of %s at %s for %s", v.Quantity, v.Symbol, v.Price, v.Amount)
	case tradebook.Sell:
		return fmt.Sprintf("Sold %s of %s at %s for %s", v.Quantity, v.Symbol, v.Price, v.Amount)
	case tradebook.Deposit:
		return fmt.Sprintf("Deposited %s", v.Amount)
	case tradebook.Withdraw:
		return fmt.Sprintf("Withdrew %s", v.Amount)
	default:
		return string(tx.What())
	}
}
