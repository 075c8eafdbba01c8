package notification

import (
	"context"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"crewops-backend/config"
	"crewops-backend/internal/model"
	"crewops-backend/internal/store"
)

// WebPushSender defines the interface for sending a web push
// notification. It exists so tests can substitute the transport.
type WebPushSender interface {
	Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// libSender is the real implementation using the webpush library.
type libSender struct{}

func (libSender) Send(ctx context.Context, payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotificationWithContext(ctx, payload, sub, options)
}

// WebPushDriver delivers payloads to browser subscriptions via the
// VAPID-signed web push protocol. Without a configured key pair every
// delivery is reported as skipped, never failed, so a missing config
// stays distinguishable from a real delivery problem.
type WebPushDriver struct {
	options *webpush.Options
	store   store.Store
	sender  WebPushSender
}

// NewWebPushDriver builds the driver from the push configuration.
func NewWebPushDriver(cfg *config.PushConfig, st store.Store) *WebPushDriver {
	d := &WebPushDriver{store: st, sender: libSender{}}
	if cfg.PublicKey == "" || cfg.PrivateKey == "" {
		log.Printf("webpush: VAPID keys not configured; channel disabled")
		return d
	}
	d.options = &webpush.Options{
		VAPIDPublicKey:  cfg.PublicKey,
		VAPIDPrivateKey: cfg.PrivateKey,
		Subscriber:      cfg.Subject,
		TTL:             cfg.TTL,
		Urgency:         webpush.UrgencyNormal,
	}
	return d
}

// Configured reports whether the channel has a usable key pair.
func (d *WebPushDriver) Configured() bool {
	return d.options != nil
}

// Deliver sends one payload to one subscription. A 404 or 410 from the
// provider means the endpoint is permanently gone and triggers the only
// automatic cleanup: the subscription row is deleted. Other error
// statuses leave the row in place for manual investigation.
func (d *WebPushDriver) Deliver(ctx context.Context, sub model.PushSubscription, payload []byte) Outcome {
	if d.options == nil {
		return Outcome{EndpointRef: sub.Endpoint, Skipped: true}
	}

	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := d.sender.Send(ctx, payload, wpSub, d.options)
	if err != nil {
		log.Printf("webpush: send to %s failed: %v", sub.Endpoint, err)
		return Outcome{EndpointRef: sub.Endpoint, OK: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		log.Printf("webpush: endpoint %s is gone (%d), deleting subscription", sub.Endpoint, resp.StatusCode)
		if err := d.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("webpush: failed to delete subscription %s: %v", sub.Endpoint, err)
		}
		return Outcome{EndpointRef: sub.Endpoint, OK: false, Status: resp.StatusCode}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		log.Printf("webpush: provider returned %d for %s", resp.StatusCode, sub.Endpoint)
	}
	return Outcome{EndpointRef: sub.Endpoint, OK: ok, Status: resp.StatusCode}
}
