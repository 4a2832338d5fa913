package event

// NotificationEventPushModel matches the push payload consumed by the
// notification worker: { lstUserIds?: string[], title: string, body: string, data?: any }
type NotificationEventPushModel struct {
	LstUserIds []string               `json:"lstUserIds,omitempty"`
	Title      string                 `json:"title"`
	Body       string                 `json:"body"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

const PushNotiQueue string = "push_noti_events"
