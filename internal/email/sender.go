// Package email renders and delivers transactional email.
package email

import "context"

// Sender delivers the transactional emails the system produces.
type Sender interface {
	SendTaskAssignedEmail(ctx context.Context, toEmail string, p TaskAssignedEmailParams) error
	SendTaskDueSoonEmail(ctx context.Context, toEmail string, p TaskDueSoonEmailParams) error
}

type TaskAssignedEmailParams struct {
	MemberName string
	TaskTitle  string
	LeadName   string
	Stage      string
	DueAt      string
}

type TaskDueSoonEmailParams struct {
	MemberName string
	TaskTitle  string
	DueAt      string
}
