package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-erp-sync/internal/model"
	"go-erp-sync/internal/ws"

	"github.com/fasthttp/websocket"
	"resty.dev/v3"
)

// HTTPBackend talks to the server in internal/server: REST for documents
// and a websocket for the live channel.
type HTTPBackend struct {
	baseURL string
	client  *resty.Client
	dialer  *websocket.Dialer

	mu    sync.RWMutex
	token string
}

func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL+"/api/v1").
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &HTTPBackend{
		baseURL: baseURL,
		client:  client,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

func (b *HTTPBackend) Close() error {
	return b.client.Close()
}

type apiError struct {
	Error string `json:"error"`
}

// check turns a non-2xx response into an error; 401, 403 and 404 map to
// the package sentinels.
func check(op string, res *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.IsSuccess() {
		return nil
	}

	msg := http.StatusText(res.StatusCode())
	var body apiError
	if raw := res.String(); raw != "" {
		if json.Unmarshal([]byte(raw), &body) == nil && body.Error != "" {
			msg = body.Error
		}
	}

	switch res.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w: %s", op, ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %w: %s", op, ErrForbidden, msg)
	}
	return fmt.Errorf("%s: status %d: %s", op, res.StatusCode(), msg)
}

func (b *HTTPBackend) Ping(ctx context.Context) error {
	res, err := b.client.R().SetContext(ctx).Get("/health")
	return check("ping", res, err)
}

func (b *HTTPBackend) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	res, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/auth/login")
	if err := check("login", res, err); err != nil {
		return err
	}
	if out.Token == "" {
		return errors.New("login: empty token")
	}
	b.mu.Lock()
	b.token = out.Token
	b.client.SetAuthToken(out.Token)
	b.mu.Unlock()
	return nil
}

// bearer returns the session token from the last successful Login.
func (b *HTTPBackend) bearer() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.token
}

func (b *HTTPBackend) GetInventory(ctx context.Context) (*model.InventoryDocument, error) {
	var out model.InventoryDocument
	res, err := b.client.R().SetContext(ctx).SetResult(&out).Get("/inventory/products")
	if err := check("get inventory", res, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) PutInventory(ctx context.Context, products []model.Product) (*model.InventoryDocument, error) {
	if products == nil {
		products = []model.Product{}
	}
	var out model.InventoryDocument
	res, err := b.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"products": products}).
		SetResult(&out).
		Put("/inventory/products")
	if err := check("put inventory", res, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) AppendSale(ctx context.Context, sale model.Sale) (*model.SaleRecord, error) {
	var out model.SaleRecord
	res, err := b.client.R().SetContext(ctx).SetBody(sale).SetResult(&out).Post("/sales")
	if err := check("append sale", res, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) ListSales(ctx context.Context, limit int) ([]model.SaleRecord, error) {
	var out []model.SaleRecord
	req := b.client.R().SetContext(ctx).SetResult(&out)
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	res, err := req.Get("/sales")
	if err := check("list sales", res, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *HTTPBackend) CreateBackup(ctx context.Context) (*model.BackupSummary, error) {
	var out model.BackupSummary
	res, err := b.client.R().SetContext(ctx).SetResult(&out).Post("/backups")
	if err := check("create backup", res, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) ListBackups(ctx context.Context) ([]model.BackupSummary, error) {
	var out []model.BackupSummary
	res, err := b.client.R().SetContext(ctx).SetResult(&out).Get("/backups")
	if err := check("list backups", res, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *HTTPBackend) GetBackup(ctx context.Context, key string) (*model.BackupSnapshot, error) {
	var out model.BackupSnapshot
	res, err := b.client.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetResult(&out).
		Get("/backups/{key}")
	if err := check("get backup", res, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *HTTPBackend) wsURL() string {
	switch {
	case strings.HasPrefix(b.baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(b.baseURL, "https://") + "/ws"
	case strings.HasPrefix(b.baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(b.baseURL, "http://") + "/ws"
	}
	return b.baseURL + "/ws"
}

func (b *HTTPBackend) WatchInventory(ctx context.Context, fn func(model.InventoryDocument)) error {
	header := http.Header{}
	if token := b.bearer(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := b.dialer.DialContext(ctx, b.wsURL(), header)
	if err != nil {
		if resp != nil {
			switch resp.StatusCode {
			case http.StatusUnauthorized:
				return fmt.Errorf("watch inventory: %w", ErrUnauthorized)
			case http.StatusForbidden:
				return fmt.Errorf("watch inventory: %w", ErrForbidden)
			}
		}
		return fmt.Errorf("watch inventory: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch inventory: %w", err)
		}

		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != ws.TypeInventoryUpdate {
			continue
		}
		var doc model.InventoryDocument
		if err := json.Unmarshal(msg.Data, &doc); err != nil {
			continue
		}
		fn(doc)
	}
}
