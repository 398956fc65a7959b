package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkordes/itinerary/internal/domain"
)

// UnavailableHost is the Host used when no device bridge is configured.
// Every call fails with domain.ErrHostUnavailable.
type UnavailableHost struct{}

func (UnavailableHost) GetLocation(context.Context, string) (domain.Position, error) {
	return domain.Position{}, domain.ErrHostUnavailable
}

func (UnavailableHost) ChooseLocation(context.Context) (domain.PickedLocation, error) {
	return domain.PickedLocation{}, domain.ErrHostUnavailable
}

func (UnavailableHost) OpenLocation(context.Context, domain.OpenLocationRequest) error {
	return domain.ErrHostUnavailable
}

func (UnavailableHost) NavigateTo(context.Context, string) error {
	return domain.ErrHostUnavailable
}

// BridgeHost is a Host that forwards every call as JSON over HTTP to a device
// bridge running next to the app shell.
//
//	POST /location          {"type": coordType}      -> Position
//	POST /location/choose   {}                       -> PickedLocation
//	POST /map/open          OpenLocationRequest      -> 204
//	POST /navigate          {"url": url}             -> 204
//
// Non-2xx responses become a *BridgeError carrying the bridge's message.
type BridgeHost struct {
	baseURL string
	client  *http.Client
}

// NewBridgeHost returns a BridgeHost for the bridge at baseURL.
// A nil client is replaced by one with a 10 second timeout.
func NewBridgeHost(baseURL string, client *http.Client) *BridgeHost {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &BridgeHost{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// BridgeError is returned when the device bridge answers with a non-2xx status.
type BridgeError struct {
	Status  int
	Message string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("device bridge: status %d: %s", e.Status, e.Message)
}

func (h *BridgeHost) GetLocation(ctx context.Context, coordType string) (domain.Position, error) {
	var pos domain.Position
	err := h.call(ctx, "/location", map[string]string{"type": coordType}, &pos)
	return pos, err
}

func (h *BridgeHost) ChooseLocation(ctx context.Context) (domain.PickedLocation, error) {
	var picked domain.PickedLocation
	err := h.call(ctx, "/location/choose", struct{}{}, &picked)
	return picked, err
}

func (h *BridgeHost) OpenLocation(ctx context.Context, req domain.OpenLocationRequest) error {
	return h.call(ctx, "/map/open", req, nil)
}

func (h *BridgeHost) NavigateTo(ctx context.Context, url string) error {
	return h.call(ctx, "/navigate", map[string]string{"url": url}, nil)
}

// call POSTs in as JSON to path and decodes the response body into out when
// out is non-nil.
func (h *BridgeHost) call(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("geo.BridgeHost: encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("geo.BridgeHost: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("geo.BridgeHost: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &BridgeError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geo.BridgeHost: decode %s: %w", path, err)
	}
	return nil
}

// readMessage extracts {"errMsg": "..."} from an error body, falling back to
// the raw (truncated) text.
func readMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		ErrMsg string `json:"errMsg"`
	}
	if json.Unmarshal(raw, &body) == nil && body.ErrMsg != "" {
		return body.ErrMsg
	}
	return strings.TrimSpace(string(raw))
}
