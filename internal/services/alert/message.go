package alert

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fraudguard/internal/models"
)

// NoViolations marks an alert raised without any rule violation.
const NoViolations = "none"

// Alert is what a Notifier delivers: the payload plus its rendered text.
type Alert struct {
	models.AlertPayload
	Text string `json:"alert_text"`
}

// SummaryMessage is the short message carried on the payload itself.
func SummaryMessage(nameOrig string, probability float64) string {
	return fmt.Sprintf("Suspected fraud (Prob: %.2f%%) for originator %s.", probability*100, nameOrig)
}

// Render formats the notification text.
func Render(p models.AlertPayload) string {
	violated := NoViolations
	if len(p.Violations) > 0 {
		violated = strings.Join(p.Violations, ", ")
	}
	detected := p.DetectedAt
	if detected.IsZero() {
		detected = time.Now()
	}

	var b strings.Builder
	b.WriteString("FRAUD ALERT\n")
	b.WriteString("-------------------------------------\n")
	fmt.Fprintf(&b, "Originator: %s\n", p.NameOrig)
	fmt.Fprintf(&b, "Destination: %s\n", p.NameDest)
	fmt.Fprintf(&b, "Transaction ID: %s\n", p.TransactionID)
	fmt.Fprintf(&b, "Time: %s\n", detected.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Score: %s\n", strconv.FormatFloat(p.Probability, 'f', -1, 64))
	fmt.Fprintf(&b, "Label: %d\n", p.Label)
	fmt.Fprintf(&b, "Violated rules: %s\n", violated)
	b.WriteString("-------------------------------------\n")
	b.WriteString("Automated fraud detection system.")
	return b.String()
}
