package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"warungbot/app/config"

	"github.com/samber/do"
)

// Client talks to the platform REST API on behalf of the bot.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Client{
		baseURL: cfg.Backend.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		},
	}, nil
}

func (c *Client) AddCustomer(ctx context.Context, req CreateCustomerRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}

	if err := c.do(ctx, http.MethodPost, "/customers", req, &out, "Gagal menambahkan customer."); err != nil {
		return "", err
	}

	return out.Message, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	var out struct {
		Data Customer `json:"data"`
	}

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, &out, "Gagal mendapatkan data customer.")
	if err != nil {
		var f *Failure
		if errors.As(err, &f) && f.StatusCode == http.StatusNotFound {
			f.Message = "Data customer tidak ditemukan."
		}
		return nil, err
	}

	return &out.Data, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, req UpdateCustomerRequest) (string, error) {
	var out struct {
		Message string `json:"message"`
	}

	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), req, &out, "Gagal memperbarui customer."); err != nil {
		return "", err
	}

	return out.Message, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, "Gagal menghapus customer.")
}

func (c *Client) ListMerchants(ctx context.Context) ([]Merchant, error) {
	var out struct {
		Data []Merchant `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/merchants", nil, &out, "Gagal mendapatkan daftar merchant."); err != nil {
		return nil, err
	}

	return out.Data, nil
}

func (c *Client) ListProducts(ctx context.Context, merchantID string) ([]Product, error) {
	var out struct {
		Data []Product `json:"data"`
	}

	path := fmt.Sprintf("/merchants/%s/products", url.PathEscape(merchantID))
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "Gagal mendapatkan daftar produk."); err != nil {
		return nil, err
	}

	return out.Data, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var out struct {
		Data Order `json:"data"`
	}

	if err := c.do(ctx, http.MethodPost, "/orders", req, &out, "Gagal membuat pesanan."); err != nil {
		return nil, err
	}

	return &out.Data, nil
}

func (c *Client) ListOrders(ctx context.Context, customerID int64) ([]Order, error) {
	var out struct {
		Data []Order `json:"data"`
	}

	path := fmt.Sprintf("/customers/%d/orders", customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "Gagal mendapatkan daftar pesanan."); err != nil {
		return nil, err
	}

	return out.Data, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	path := fmt.Sprintf("/orders/%s/cancel", url.PathEscape(orderID))
	return c.do(ctx, http.MethodPatch, path, nil, nil, "Gagal membatalkan pesanan.")
}

// do performs one JSON request. Any failure comes back as *Failure with a
// user-facing message; fallback is used when the server gives none.
func (c *Client) do(ctx context.Context, method, path string, body, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Failure{Message: msgGeneric}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Failure{Message: msgGeneric}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
			return &Failure{Message: msgTimeout}
		}
		return &Failure{Message: msgConnection}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Failure{Message: msgGeneric}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var serverErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &serverErr) == nil {
			if serverErr.Message != "" {
				return &Failure{Message: serverErr.Message, StatusCode: resp.StatusCode}
			}
			return &Failure{Message: fallback, StatusCode: resp.StatusCode}
		}
		return &Failure{
			Message:    fmt.Sprintf("%s Status: %d", fallback, resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &Failure{Message: msgGeneric}
		}
	}

	return nil
}
