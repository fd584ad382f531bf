package email

const (
	subjectTaskAssignedFmt = "New task: %s"
	subjectTaskDueSoonFmt  = "Task due soon: %s"
)
