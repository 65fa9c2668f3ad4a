package conversation

import (
	"fmt"
	"strings"

	"github.com/vasiliy-maslov/orderbot/internal/catalog"
	"github.com/vasiliy-maslov/orderbot/internal/order"
)

// All outbound texts live here so the dialogue reads from one place.

const (
	ReplyGreeting = "Welcome to Mama Mia Restaurant!\nReply:\n1. Menu\n2. Order\n3. Opening hours"

	ReplyHours = "Open 11:00-22:00 every day\nKintambo Magasin\n+243 000 000 000"

	ReplyInvalidDish     = "Invalid choice. Reply with a number from the menu."
	ReplyInvalidQuantity = "Please enter a valid quantity (e.g. 2)."
	ReplyAddMore         = "Would you like to add another dish?\n1. Yes\n2. No, continue"
	ReplyAddMoreInvalid  = "Reply 1 (yes) or 2 (no)."
	ReplyAddressPrompt   = "Please send your full name and delivery address (e.g. Name - District, Avenue...)."
	ReplyConfirmInvalid  = "Reply 1 (yes) or 2 (modify)."

	ReplyOrderConfirmed = "Thank you! Your order is confirmed.\nReply 1 once it arrives, or 0 to return to the main menu."
	ReplyDonePrompt     = "Your order is on its way. Reply 1 once it arrives, or 0 to return to the main menu."

	// Filled in by the message pipeline once the delivery-confirm keyword is
	// resolved against the order store.
	ReplyDeliveryThanks = "Thanks for confirming. Enjoy your meal!"
	ReplyNothingPending = "We have no pending order for you. Reply 0 to return to the main menu."
	ReplyOrderFailed    = "Sorry, something went wrong while saving your order. Please try again in a moment."
)

func menuWithPrices(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("Menu of the day\n")
	for _, code := range c.Codes() {
		item, _ := c.Lookup(code)
		fmt.Fprintf(&b, "%s. %s - %s\n", item.Code, item.Name, order.FormatAmount(item.UnitPrice))
	}
	b.WriteString("\nReply 2 to order or 3 for opening hours.")
	return b.String()
}

func dishPrompt(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("Which dish would you like?\n")
	for _, code := range c.Codes() {
		item, _ := c.Lookup(code)
		fmt.Fprintf(&b, "%s. %s\n", item.Code, item.Name)
	}
	b.WriteString("Reply with the dish number.")
	return b.String()
}

func quantityPrompt(dish string) string {
	return fmt.Sprintf("How many %s would you like?\n(Reply with a number, e.g. 2)", dish)
}

func orderSummary(cart []order.CartLine, address string) string {
	return fmt.Sprintf("Order summary:\n\n%s\n\nAddress: %s\nConfirm?\n1. Yes\n2. Modify", order.FormatCart(cart), address)
}

func modifyPrompt(c *catalog.Catalog) string {
	return "No problem! Which dish would you like instead?\n" + dishPrompt(c)
}
