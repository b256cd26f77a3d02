// README: No-op pusher for running without Firebase credentials.
package notify

import "context"

// NoopPusher drops every message. Used when no FCM project is configured.
type NoopPusher struct{}

func (NoopPusher) SendToUser(context.Context, string, Message) error      { return nil }
func (NoopPusher) BroadcastToRole(context.Context, string, Message) error { return nil }
