package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"hotel-backend/internal/availability"
	"hotel-backend/internal/domain"
	"hotel-backend/internal/utils"
)

var emailTemplates = template.Must(template.New("email").Funcs(template.FuncMap{
	"date":    func(r *domain.Reservation, end bool) string { return stayDate(r, end) },
	"money":   func(cents int32) string { return utils.FormatCents(int64(cents)) },
	"money64": utils.FormatCents,
}).Parse(`
{{define "confirmation"}}<p>Dear {{.Res.FullName}},</p>
<p>Thank you for your booking. Your reservation is confirmed.</p>
<table>
<tr><td>Reservation</td><td>{{.Res.ReservationCode}}</td></tr>
{{if .Invoice}}<tr><td>Invoice</td><td>{{.Invoice}}</td></tr>{{end}}
<tr><td>Room</td><td>{{.Room.Name}} ({{.Room.RoomNumber}})</td></tr>
<tr><td>Check-in</td><td>{{date .Res false}}</td></tr>
<tr><td>Check-out</td><td>{{date .Res true}}</td></tr>
<tr><td>Guests</td><td>{{.Res.Guests}}</td></tr>
<tr><td>Total</td><td>{{money .Res.TotalPriceCents}}</td></tr>
<tr><td>Payment</td><td>{{.Res.PaymentStatus}}</td></tr>
</table>
<p>We look forward to welcoming you.</p>{{end}}

{{define "admin_alert"}}<p>A new reservation was created.</p>
<ul>
<li>Guest: {{.Res.FullName}} ({{.Res.Phone}})</li>
<li>Reservation: {{.Res.ReservationCode}}</li>
<li>Room: {{.Room.RoomNumber}} {{.Room.Name}}</li>
<li>Stay: {{date .Res false}} to {{date .Res true}}</li>
<li>Total: {{money .Res.TotalPriceCents}}, {{.Res.PaymentStatus}} by {{.Res.PaymentMethod}}</li>
</ul>{{end}}

{{define "reminder"}}<p>Dear {{.Res.FullName}},</p>
<p>This is a reminder that your stay in {{.Room.Name}} begins on {{date .Res false}}.</p>
<p>Reservation {{.Res.ReservationCode}}, check-out on {{date .Res true}}.</p>{{end}}

{{define "reconciliation"}}<p>The following payments were captured without a reservation and need manual follow-up.</p>
<table>
<tr><th>Session</th><th>Customer</th><th>Amount</th><th>Outcome</th><th>Detail</th><th>Received</th></tr>
{{range .}}<tr><td>{{.SessionID}}</td><td>{{.CustomerEmail}}</td><td>{{money64 .AmountTotalCents}}</td><td>{{.Outcome}}</td><td>{{.Detail}}</td><td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td></tr>
{{end}}</table>{{end}}
`))

func stayDate(r *domain.Reservation, end bool) string {
	if end {
		return r.EndDate.Format(availability.DateLayout)
	}
	return r.StartDate.Format(availability.DateLayout)
}

type emailService struct {
	sender      EmailSender
	adminEmails []string
}

func NewEmailService(sender EmailSender, adminEmails []string) EmailService {
	return &emailService{sender: sender, adminEmails: adminEmails}
}

type stayView struct {
	Res     *domain.Reservation
	Room    domain.Room
	Invoice string
}

func newStayView(res *domain.Reservation, room domain.Room) stayView {
	v := stayView{Res: res, Room: room}
	if res.InvoiceNumber != nil {
		v.Invoice = *res.InvoiceNumber
	}
	return v
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, to string, res *domain.Reservation, room domain.Room) error {
	html, err := render("confirmation", newStayView(res, room))
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, domain.EmailMessage{
		To:      to,
		ToName:  res.FullName,
		Subject: fmt.Sprintf("Booking confirmed: %s", res.ReservationCode),
		HTML:    html,
	})
}

func (s *emailService) SendAdminBookingAlert(ctx context.Context, res *domain.Reservation, room domain.Room) error {
	html, err := render("admin_alert", newStayView(res, room))
	if err != nil {
		return err
	}
	return s.toAdmins(ctx, fmt.Sprintf("New reservation %s, room %s", res.ReservationCode, room.RoomNumber), html)
}

func (s *emailService) SendCheckInReminder(ctx context.Context, to string, res *domain.Reservation, room domain.Room) error {
	html, err := render("reminder", newStayView(res, room))
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, domain.EmailMessage{
		To:      to,
		ToName:  res.FullName,
		Subject: fmt.Sprintf("Your stay begins %s", stayDate(res, false)),
		HTML:    html,
	})
}

func (s *emailService) SendReconciliationReport(ctx context.Context, events []domain.PaymentEvent) error {
	if len(events) == 0 {
		return nil
	}
	html, err := render("reconciliation", events)
	if err != nil {
		return err
	}
	return s.toAdmins(ctx, fmt.Sprintf("%d payment(s) need reconciliation", len(events)), html)
}

// toAdmins sends to every admin address and reports all failures together.
func (s *emailService) toAdmins(ctx context.Context, subject, html string) error {
	var errs []error
	for _, addr := range s.adminEmails {
		if err := s.sender.Send(ctx, domain.EmailMessage{To: addr, Subject: subject, HTML: html}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
