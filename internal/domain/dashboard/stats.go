package dashboard

import "context"

// Stats are the headline counts on the dashboard.
type Stats struct {
	Contacts         int64 `json:"contacts"`
	Conversations    int64 `json:"conversations"`
	PendingReminders int64 `json:"pending_reminders"`
	Templates        int64 `json:"templates"`
}

// Counter counts rows visible to the signed-in user.
type Counter interface {
	Contacts(ctx context.Context) (int64, error)
	Conversations(ctx context.Context) (int64, error)
	PendingReminders(ctx context.Context) (int64, error)
	Templates(ctx context.Context) (int64, error)
}
