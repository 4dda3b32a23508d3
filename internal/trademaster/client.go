package trademaster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tradesync/internal/config"
)

// TransportError marks a failed vendor call. It is fatal to the running pass.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("trademaster call %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the TradeMaster REST API. Every call is signed with the
// account API key; GET parameters go to the query string, POST bodies are
// form-urlencoded with the key kept in the query string.
type Client struct {
	host    string
	version string
	apiKey  string
	http    *http.Client
}

// NewClient creates a vendor API client from the integration settings. The
// vendor is slow on order submission, hence the generous timeout.
func NewClient(cfg config.TradeMasterConfig) *Client {
	return &Client{
		host:    strings.TrimRight(cfg.Host, "/"),
		version: cfg.Version,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) endpointURL(endpoint string) string {
	return c.host + "/v" + c.version + "/" + endpoint
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint)+"?"+params.Encode(), nil)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, out)
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	auth := url.Values{"apikey": {c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpointURL(endpoint)+"?"+auth.Encode(), strings.NewReader(form.Encode()))
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &TransportError{
			Endpoint: endpoint,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// CatalogList pulls the full flat category list.
func (c *Client) CatalogList(ctx context.Context) ([]CatalogItem, error) {
	var list []CatalogItem
	if err := c.get(ctx, "catalog/list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

type countResponse struct {
	Count FlexString `json:"count"`
}

// ItemCount returns the declared total of products in the vendor catalog.
func (c *Client) ItemCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.get(ctx, "item/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count.Int(), nil
}

// ItemList pulls one product page at the given offset/limit for a storage.
func (c *Client) ItemList(ctx context.Context, storage, offset, limit int) ([]ProductItem, error) {
	params := url.Values{
		"sklad":  {strconv.Itoa(storage)},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	var list []ProductItem
	if err := c.get(ctx, "item/list", params, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// CartItem is one submitted order line.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Cart is the composite order submission payload.
type Cart struct {
	Storage        int
	Legal          int
	Checkout       int
	Contractor     int
	Scheme         int
	Currency       string
	UserID         int
	ContactName    string
	ContactAddress string
	ContactPhone   string
	ContactEmail   string
	DeliveryDate   time.Time
	Comment        string
	Items          []CartItem
}

func (cart Cart) form() (url.Values, error) {
	items, err := json.Marshal(cart.Items)
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}
	return url.Values{
		"sklad":          {strconv.Itoa(cart.Storage)},
		"urlico":         {strconv.Itoa(cart.Legal)},
		"ds":             {strconv.Itoa(cart.Checkout)},
		"kontragent":     {strconv.Itoa(cart.Contractor)},
		"shema":          {strconv.Itoa(cart.Scheme)},
		"valuta":         {cart.Currency},
		"userID":         {strconv.Itoa(cart.UserID)},
		"nameKontakt":    {cart.ContactName},
		"adresKontakt":   {cart.ContactAddress},
		"telefonKontakt": {cart.ContactPhone},
		"other1Kontakt":  {cart.ContactEmail},
		"dateDost":       {cart.DeliveryDate.Format("2006-01-02 15:04:05")},
		"komment":        {cart.Comment},
		"tovarJson":      {string(items)},
	}, nil
}

type cartResponse struct {
	OrderNumber FlexString `json:"nomerZakaza"`
}

// SubmitCart submits an anonymous cart and returns the vendor order number.
// An empty number means the vendor did not accept the order.
func (c *Client) SubmitCart(ctx context.Context, cart Cart) (string, error) {
	form, err := cart.form()
	if err != nil {
		return "", err
	}
	var resp cartResponse
	if err := c.postForm(ctx, "order/cart/anonym", form, &resp); err != nil {
		return "", err
	}
	return resp.OrderNumber.String(), nil
}

var fileNameReplacer = strings.NewReplacer(
	"+", " ", "%21", "!", "%2A", "*", "%27", "'", "%28", "(", "%29", ")",
	"%3B", ";", "%3A", ":", "%40", "@", "%26", "&", "%3D", "=", "%2B", "+",
	"%24", "$", "%2C", ",", "%2F", "/", "%3F", "?", "%25", "%", "%23", "#",
	"%5B", "[", "%5D", "]",
)

// FileURL builds the public URL of a cached vendor image. The vendor serves
// file names with most punctuation unescaped.
func FileURL(cacheHost, cacheFolder, name string) string {
	escaped := fileNameReplacer.Replace(url.QueryEscape(strings.TrimSpace(name)))
	return strings.TrimRight(cacheHost, "/") + "/tradeMasterImages/" + cacheFolder + "/" + escaped
}
