package notify

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"ticketapi/internal/model"
)

// Message is the data available to every notification template.
type Message struct {
	Kind      model.NotificationKind
	Order     model.OrderDetail
	Payload   map[string]string
	SlipURL   string
	RefundURL string
}

// Templates are plain text/template with Telegram's HTML subset. User-supplied
// values go through text, URLs through html. Every tag opens and closes on
// the same line.
var templates = map[model.NotificationKind]string{
	model.NotifyOrderCreated: `<b>New order</b> {{template "head" .}}
Seats: {{.Order.Quantity}} x {{money .Order.UnitPrice}} = <b>{{money .Order.TotalAmount}}</b>
Status: waiting for payment`,

	model.NotifyPaymentSubmitted: `<b>Payment slip received</b> {{template "head" .}}
Amount: <b>{{money .Order.TotalAmount}}</b>
{{if .SlipURL}}<a href="{{html .SlipURL}}">View slip</a>{{else}}Slip: open it from the admin panel{{end}}
Review and confirm or reject this order.`,

	model.NotifyOrderConfirmed: `<b>Order confirmed</b> {{template "head" .}}
Seats: {{.Order.Quantity}}, paid {{money .Order.TotalAmount}}`,

	model.NotifyOrderRejected: `<b>Order rejected</b> {{template "head" .}}
Reason: {{text (index .Payload "reason")}}`,

	model.NotifyOrderCancelled: `<b>Order cancelled</b> {{template "head" .}}
Cancelled by: {{with index .Payload "by"}}{{text .}}{{else}}unknown{{end}}
{{- with index .Payload "reason"}}
Reason: {{text .}}{{end}}
{{- if .RefundURL}}
Refund due: <b>{{money .Order.TotalAmount}}</b>
Send this refund link to the customer: {{html .RefundURL}}{{end}}`,

	model.NotifyOrderExpired: `<b>Order expired</b> {{template "head" .}}
No payment received in time; {{.Order.Quantity}} seat(s) released.`,

	model.NotifyRefundRequested: `<b>Refund details submitted</b> {{template "head" .}}
Amount: <b>{{money .Order.TotalAmount}}</b>
Transfer the refund and mark it completed in the admin panel.`,

	model.NotifyRefundCompleted: `<b>Refund completed</b> {{template "head" .}}
Amount: {{money .Order.TotalAmount}}`,
}

const headTemplate = `{{define "head"}}<code>{{text .Order.Code}}</code>
Event: {{text .Order.EventTitle}}{{with .Order.EventVenue}} @ {{text .}}{{end}} ({{when .Order.EventStartsAt}})
Customer: {{text .Order.CustomerName}} / {{text .Order.Email}} / {{text .Order.Phone}}{{end}}`

// maxFieldLen bounds one user value in a message, counted before escaping.
const maxFieldLen = 200

// escapeField clips s to maxFieldLen runes and escapes it for HTML parse mode.
func escapeField(s string) string {
	if utf8.RuneCountInString(s) > maxFieldLen {
		s = string([]rune(s)[:maxFieldLen-1]) + "…"
	}
	return template.HTMLEscapeString(s)
}

// Renderer turns outbox notifications into chat messages.
type Renderer struct {
	tmpl map[model.NotificationKind]*template.Template
	loc  *time.Location
	base string
}

// NewRenderer parses every template. baseURL is the public site used to
// build customer-facing links; loc is used for displayed times.
func NewRenderer(baseURL string, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{
		tmpl: make(map[model.NotificationKind]*template.Template, len(templates)),
		loc:  loc,
		base: strings.TrimRight(baseURL, "/"),
	}
	funcs := template.FuncMap{
		"money": formatMoney,
		"text":  escapeField,
		"when":  func(t time.Time) string { return t.In(r.loc).Format("02 Jan 2006 15:04") },
	}
	for kind, body := range templates {
		t, err := template.New(string(kind)).Funcs(funcs).Parse(headTemplate)
		if err == nil {
			t, err = t.Parse(body)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", kind, err)
		}
		r.tmpl[kind] = t
	}
	return r, nil
}

// RefundURL returns the customer page for a refund token.
func (r *Renderer) RefundURL(token string) string {
	if token == "" {
		return ""
	}
	return r.base + "/refund.html?token=" + token
}

// Render produces the message text for m.
func (r *Renderer) Render(m Message) (string, error) {
	t, ok := r.tmpl[m.Kind]
	if !ok {
		return "", fmt.Errorf("no template for notification kind %q", m.Kind)
	}
	if m.Payload == nil {
		m.Payload = map[string]string{}
	}
	if m.RefundURL == "" {
		m.RefundURL = r.RefundURL(m.Payload["refund_token"])
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("render %s: %w", m.Kind, err)
	}
	return buf.String(), nil
}

// formatMoney renders minor units as baht, e.g. 150050 -> "1,500.50 THB".
func formatMoney(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%s%s.%02d THB", sign, b.String(), v%100)
}
