// Package whatsapp builds the human-readable order summary and the wa.me
// deep link a customer uses to relay an order to the restaurant. Everything
// here is pure string composition; no network calls, no mutation.
package whatsapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"whatsorder/internal/models"
)

// FallbackDineInLocation is used when a dine-in order carries no table or
// room label. The location line is never left blank for dine-in orders.
const FallbackDineInLocation = "Will inform on arrival"

const separator = "--------------------------------\n"

// OrderDetails is the validated input to BuildOrder. Optional fields are
// simply omitted from the message when empty; the builder never rejects.
type OrderDetails struct {
	CustomerName   string
	Phone          string
	Address        string
	DineInLocation string
	OrderType      string
	Items          models.Cart
	Total          float64
}

// Message is a built order: the display text and the deep link embedding it.
type Message struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

var orderTypeLabels = map[string]string{
	models.OrderTypeDineIn:   "Dine-In",
	models.OrderTypeTakeaway: "Takeaway",
	models.OrderTypeDelivery: "Delivery",
}

// BuildOrder composes the order summary for a restaurant and wraps it in a
// wa.me link addressed to the restaurant's WhatsApp number.
func BuildOrder(restaurant *models.Restaurant, order OrderDetails) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "*New Order - %s*\n", restaurant.Name)
	b.WriteString(separator)
	fmt.Fprintf(&b, "Type: *%s*\n", orderTypeLabels[order.OrderType])

	if order.OrderType == models.OrderTypeDineIn {
		location := order.DineInLocation
		if strings.TrimSpace(location) == "" {
			location = FallbackDineInLocation
		}
		fmt.Fprintf(&b, "Location: *%s*\n", location)
	}

	fmt.Fprintf(&b, "Name: *%s*\n", order.CustomerName)

	if order.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", order.Phone)
	}
	if order.OrderType == models.OrderTypeDelivery && order.Address != "" {
		fmt.Fprintf(&b, "Address:\n%s\n", order.Address)
	}

	b.WriteString(separator)
	b.WriteString("Order Details:\n")
	for _, item := range order.Items {
		variant := ""
		if item.Variant != "" {
			variant = fmt.Sprintf(" (%s)", item.Variant)
		}
		lineTotal := item.Price * float64(item.Quantity)
		fmt.Fprintf(&b, "%d x %s%s = ₹%s\n", item.Quantity, item.Name, variant, formatAmount(lineTotal))
	}

	b.WriteString(separator)
	fmt.Fprintf(&b, "*Estimated Amount: ₹%s*\n", formatAmount(order.Total))
	b.WriteString(separator)

	switch order.OrderType {
	case models.OrderTypeTakeaway:
		b.WriteString("Please confirm pickup time.\n")
	case models.OrderTypeDelivery:
		b.WriteString("Please confirm delivery time.\n")
	}

	text := b.String()
	return Message{
		Text: text,
		Link: "https://wa.me/" + restaurant.WhatsAppNumber + "?text=" + encodeText(text),
	}
}

// formatAmount renders a rupee amount without a trailing ".00" for whole
// units, which is the common case.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// encodeText percent-encodes the message for the wa.me text parameter.
// QueryEscape uses "+" for spaces; wa.me expects "%20".
func encodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
