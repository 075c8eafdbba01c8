package notification

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"

	"crewops-backend/config"
	"crewops-backend/internal/model"
	"crewops-backend/internal/store"
)

// assertionTTL is how long a signed provider assertion is reused. The
// provider accepts tokens between 20 and 60 minutes old; 50 keeps a
// safety margin under the ceiling while avoiding re-signing per send.
const assertionTTL = 50 * time.Minute

const assertionCacheKey = "assertion"

// Provider rejection reasons that mean the device token is dead.
const (
	reasonBadDeviceToken = "BadDeviceToken"
	reasonUnregistered   = "Unregistered"
)

// NativeSender abstracts the HTTP call to the push provider for tests.
type NativeSender interface {
	Do(req *http.Request) (*http.Response, error)
}

// NativePushDriver delivers payloads to native device tokens using a
// provider-signed bearer assertion (ES256 JWT). The assertion cache is
// owned by the driver instance; concurrent sends may read a cached
// assertion while another send re-signs, and a race producing two
// valid assertions is harmless.
type NativePushDriver struct {
	cfg        config.NativePushConfig
	key        *ecdsa.PrivateKey
	store      store.Store
	client     NativeSender
	assertions *cache.Cache
}

// NewNativePushDriver builds the driver. An empty signing key disables
// the channel (sends report skipped); a malformed key is a hard error
// so bad credentials surface at startup, not at first delivery.
func NewNativePushDriver(cfg *config.NativePushConfig, st store.Store) (*NativePushDriver, error) {
	d := &NativePushDriver{
		cfg:        *cfg,
		store:      st,
		client:     &http.Client{Timeout: 30 * time.Second},
		assertions: cache.New(assertionTTL, 10*time.Minute),
	}
	if cfg.SigningKey == "" {
		log.Printf("nativepush: signing key not configured; channel disabled")
		return d, nil
	}
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(cfg.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("parse native push signing key: %w", err)
	}
	d.key = key
	return d, nil
}

// Configured reports whether the channel has usable credentials.
func (d *NativePushDriver) Configured() bool {
	return d.key != nil && d.cfg.KeyID != "" && d.cfg.TeamID != "" && d.cfg.BundleID != ""
}

// assertion returns a signed provider token, reusing the cached one
// while it is younger than assertionTTL.
func (d *NativePushDriver) assertion() (string, error) {
	if v, ok := d.assertions.Get(assertionCacheKey); ok {
		return v.(string), nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": d.cfg.TeamID,
		"iat": time.Now().Unix(),
	})
	token.Header["kid"] = d.cfg.KeyID

	signed, err := token.SignedString(d.key)
	if err != nil {
		return "", fmt.Errorf("sign provider assertion: %w", err)
	}
	d.assertions.Set(assertionCacheKey, signed, cache.DefaultExpiration)
	return signed, nil
}

// nativeMessage is the provider wire shape.
type nativeMessage struct {
	APS  nativeAPS  `json:"aps"`
	Data nativeData `json:"data"`
}

type nativeAPS struct {
	Alert nativeAlert `json:"alert"`
	Sound string      `json:"sound"`
}

type nativeAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type nativeData struct {
	URL  string            `json:"url"`
	Type string            `json:"type"`
	Meta map[string]string `json:"meta,omitempty"`
}

// Deliver sends one payload to one device token. A 410 status or a
// BadDeviceToken/Unregistered rejection deletes the token row; other
// failures leave it in place.
func (d *NativePushDriver) Deliver(ctx context.Context, tok model.DeviceToken, p *Payload) Outcome {
	if !d.Configured() {
		return Outcome{EndpointRef: tok.Token, Skipped: true}
	}

	bearer, err := d.assertion()
	if err != nil {
		log.Printf("nativepush: %v", err)
		return Outcome{EndpointRef: tok.Token, OK: false}
	}

	body, err := json.Marshal(nativeMessage{
		APS: nativeAPS{
			Alert: nativeAlert{Title: p.Title, Body: p.Body},
			Sound: d.cfg.Sound,
		},
		Data: nativeData{URL: p.URL, Type: p.Type, Meta: p.Meta},
	})
	if err != nil {
		log.Printf("nativepush: marshal payload: %v", err)
		return Outcome{EndpointRef: tok.Token, OK: false}
	}

	url := fmt.Sprintf("%s/3/device/%s", d.cfg.Host, tok.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("nativepush: build request for %s: %v", tok.Token, err)
		return Outcome{EndpointRef: tok.Token, OK: false}
	}
	req.Header.Set("authorization", "bearer "+bearer)
	req.Header.Set("apns-topic", d.cfg.BundleID)
	req.Header.Set("content-type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		log.Printf("nativepush: send to %s failed: %v", tok.Token, err)
		return Outcome{EndpointRef: tok.Token, OK: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return Outcome{EndpointRef: tok.Token, OK: true, Status: resp.StatusCode}
	}

	reason := providerReason(resp.Body)
	if resp.StatusCode == http.StatusGone || reason == reasonBadDeviceToken || reason == reasonUnregistered {
		log.Printf("nativepush: token %s invalid (%d %s), deleting", tok.Token, resp.StatusCode, reason)
		if err := d.store.DeleteDeviceToken(ctx, tok.Token); err != nil {
			log.Printf("nativepush: failed to delete token %s: %v", tok.Token, err)
		}
	} else {
		log.Printf("nativepush: provider returned %d (%s) for %s", resp.StatusCode, reason, tok.Token)
	}
	return Outcome{EndpointRef: tok.Token, OK: false, Status: resp.StatusCode}
}

// providerReason extracts the rejection reason from an error response
// body. Best effort: an unreadable body yields "".
func providerReason(r io.Reader) string {
	var parsed struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return ""
	}
	return parsed.Reason
}
