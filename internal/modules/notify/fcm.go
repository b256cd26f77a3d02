// README: FCM-backed Pusher implementation (token per user, topic per role).
package notify

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// TokenResolver maps an engine user id (driver:<id> or a customer id) to the
// device's current FCM registration token.
type TokenResolver interface {
	PushToken(ctx context.Context, userID string) (string, error)
}

// FCMPusher delivers payloads through Firebase Cloud Messaging. Per-user
// sends go to the device token; role broadcasts go to an FCM topic the
// dispatcher clients subscribe to.
type FCMPusher struct {
	client *messaging.Client
	tokens TokenResolver
}

func NewFCMPusher(client *messaging.Client, tokens TokenResolver) *FCMPusher {
	return &FCMPusher{client: client, tokens: tokens}
}

func (p *FCMPusher) SendToUser(ctx context.Context, userID string, msg Message) error {
	token, err := p.tokens.PushToken(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolving push token for %s: %w", userID, err)
	}
	_, err = p.client.Send(ctx, &messaging.Message{
		Token: token,
		Data:  dataWithKind(msg),
	})
	return err
}

func (p *FCMPusher) BroadcastToRole(ctx context.Context, role string, msg Message) error {
	_, err := p.client.Send(ctx, &messaging.Message{
		Topic: "role-" + role,
		Data:  dataWithKind(msg),
	})
	return err
}

func dataWithKind(msg Message) map[string]string {
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	data["type"] = string(msg.Kind)
	return data
}
