package order

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Single formatter for money and cart text. Both the conversational reply path
// and the delivery notification render through these, so the two never diverge.

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a minor-unit amount with thousands separators,
// e.g. 12000 -> "12,000 CDF".
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d CDF", amount)
}

// CartTotal sums line totals over the cart.
func CartTotal(cart []CartLine) int64 {
	var total int64
	for _, line := range cart {
		total += line.Total()
	}
	return total
}

// FormatCart renders the cart line by line with a trailing total, e.g.
//
//	2x Riz au poisson -> 12,000 CDF
//	1x Poulet braisé -> 8,000 CDF
//	Total: 20,000 CDF
func FormatCart(cart []CartLine) string {
	var b strings.Builder
	for _, line := range cart {
		fmt.Fprintf(&b, "%dx %s -> %s\n", line.Quantity, line.Dish, FormatAmount(line.Total()))
	}
	fmt.Fprintf(&b, "Total: %s", FormatAmount(CartTotal(cart)))
	return b.String()
}

// Summary renders the one-line items summary stored on the Order record,
// e.g. "2x Riz au poisson, 1x Poulet braisé".
func Summary(cart []CartLine) string {
	parts := make([]string, 0, len(cart))
	for _, line := range cart {
		parts = append(parts, fmt.Sprintf("%dx %s", line.Quantity, line.Dish))
	}
	return strings.Join(parts, ", ")
}
