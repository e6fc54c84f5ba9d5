package notify

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain/model"
)

const DefaultWelcomeMessage = "नमस्ते 😊 Rakesh Kirana Store में आपका स्वागत है। मैं अभी ऑनलाइन हूँ, आप अपना ऑर्डर बता सकते हैं।"

// WhatsApp builds wa.me deep links. Nothing is sent from the server;
// the customer's device opens the link.
type WhatsApp struct {
	Number  string
	Welcome string
}

func NewWhatsApp(number, welcome string) WhatsApp {
	if welcome == "" {
		welcome = DefaultWelcomeMessage
	}
	return WhatsApp{Number: number, Welcome: welcome}
}

// OrderMessage formats the confirmation text. Total is shown in whole rupees.
func (w WhatsApp) OrderMessage(o model.Order) string {
	var sb strings.Builder
	sb.WriteString("*Order Confirmation*\n")
	sb.WriteString(w.Welcome)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "*Order ID: %s*\n", o.ID)
	fmt.Fprintf(&sb, "Customer: %s\n", o.CustomerName)
	fmt.Fprintf(&sb, "Mobile: %s\n", o.Mobile)
	fmt.Fprintf(&sb, "Total: ₹%s\n\n", o.TotalAmount.StringFixed(0))
	sb.WriteString("*Items:*\n")
	for i, it := range o.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "- %s x %d", it.Name, it.Quantity)
	}
	fmt.Fprintf(&sb, "\n\n*Address:* %s", o.Address)
	return sb.String()
}

func (w WhatsApp) OrderLink(o model.Order) string {
	return w.link(w.OrderMessage(o))
}

// ContactLink opens a chat prefilled with the welcome message.
func (w WhatsApp) ContactLink() string {
	return w.link(w.Welcome)
}

func (w WhatsApp) link(text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", w.Number, escapeText(text))
}

// スペースは+ではなく%20にする
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
