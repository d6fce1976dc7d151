package booking

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/barbeariaprime/primeapp/internal/domain"
)

// ServiceMessage is the pre-filled text for booking a single service.
func ServiceMessage(serviceName string) string {
	return fmt.Sprintf("Olá, gostaria de agendar um horário para %s", serviceName)
}

// CartMessage renders the pre-filled text for booking every service in the
// cart. When the customer name is known it is included in the greeting.
func CartMessage(customerName string, items []domain.BarberService) string {
	lines := make([]string, 0, len(items))
	for _, s := range items {
		lines = append(lines, "- "+s.Name)
	}
	namePart := "Gostaria"
	if strings.TrimSpace(customerName) != "" {
		namePart = fmt.Sprintf("Meu nome é %s e gostaria", customerName)
	}
	return fmt.Sprintf("Olá, %s de agendar os seguintes serviços:\n%s", namePart, strings.Join(lines, "\n"))
}

// Link builds the wa.me deep link for the shop's contact handle with the
// URL-encoded message text.
func Link(whatsapp, message string) string {
	// QueryEscape encodes spaces as '+', which WhatsApp renders literally;
	// percent-encode them instead.
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", whatsapp, encoded)
}

// LinkSink hands a fully formed deep link to the platform's opener. No
// response is awaited.
type LinkSink interface {
	Open(url string) error
}
