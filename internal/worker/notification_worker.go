package worker

import (
	"github.com/sust-hall/hall-service/internal/events"
	"github.com/sust-hall/hall-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a
// forwarder is given, the Redis fan-out of every event.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, forwarder *events.RedisForwarder) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	forwarder.Register(dispatcher)
}
