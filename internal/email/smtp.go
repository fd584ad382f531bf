package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendTaskAssignedEmail(ctx context.Context, toEmail string, p TaskAssignedEmailParams) error {
	content, err := renderEmailTemplate("task_assigned.html", taskAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New task assigned",
			Heading: "New task assigned",
		},
		MemberName: p.MemberName,
		TaskTitle:  p.TaskTitle,
		LeadName:   p.LeadName,
		Stage:      p.Stage,
		DueAt:      p.DueAt,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectTaskAssignedFmt, p.TaskTitle), content)
}

func (s *SMTPSender) SendTaskDueSoonEmail(ctx context.Context, toEmail string, p TaskDueSoonEmailParams) error {
	content, err := renderEmailTemplate("task_due_soon.html", taskDueSoonEmailData{
		baseEmailData: baseEmailData{
			Title:   "Task due soon",
			Heading: "Task due soon",
		},
		MemberName: p.MemberName,
		TaskTitle:  p.TaskTitle,
		DueAt:      p.DueAt,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectTaskDueSoonFmt, p.TaskTitle), content)
}

var _ Sender = (*SMTPSender)(nil)
