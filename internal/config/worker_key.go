package config

type WorkerKeyStruct struct {
	NotificationEventsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	NotificationEventsQueue: "notification_events_queue",
}
