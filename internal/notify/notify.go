package notify

// Notifier surfaces short transient notices to the user.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}
