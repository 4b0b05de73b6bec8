package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"walletcore/internal/domain"
)

// DeriveRequest is the body of POST /derive.
type DeriveRequest struct {
	FactorSourceID domain.FactorSourceID   `json:"factorSourceID"`
	Paths          []domain.DerivationPath `json:"paths"`
}

// DeriveResponse is the answer to POST /derive.
type DeriveResponse struct {
	PublicKeys []domain.PublicKey `json:"publicKeys"`
}

// HTTPClient is a DeviceTransport reaching a device through a bridge.
type HTTPClient struct {
	Base string
	HTTP *http.Client
}

func NewHTTP(base string) *HTTPClient {
	return &HTTPClient{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

func (c *HTTPClient) DeviceInfo(ctx context.Context) (domain.HardwareDeviceInfo, error) {
	var out domain.HardwareDeviceInfo
	if err := c.do(ctx, http.MethodGet, "/device", nil, &out); err != nil {
		return domain.HardwareDeviceInfo{}, err
	}
	return out, nil
}

func (c *HTTPClient) DerivePublicKeys(ctx context.Context, id domain.FactorSourceID, paths []domain.DerivationPath) ([]domain.PublicKey, error) {
	var out DeriveResponse
	if err := c.do(ctx, http.MethodPost, "/derive", DeriveRequest{FactorSourceID: id, Paths: paths}, &out); err != nil {
		return nil, err
	}
	if len(out.PublicKeys) != len(paths) {
		return nil, fmt.Errorf("device bridge returned %d keys for %d paths", len(out.PublicKeys), len(paths))
	}
	return out.PublicKeys, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("device bridge %s %s: %w", method, path, ErrWrongDevice)
	}
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("device bridge %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domain.DeviceTransport = (*HTTPClient)(nil)
