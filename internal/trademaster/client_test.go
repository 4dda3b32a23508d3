package trademaster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradesync/internal/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.TradeMasterConfig{
		Host:    serverURL,
		Version: "2",
		APIKey:  "secret",
	})
}

func TestCatalogListSignsRequest(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`[{"idZvena":"10","nameZvena":"Roots","idParent":0,"poryadok":"1"}]`))
	}))
	defer srv.Close()

	list, err := testClient(srv.URL).CatalogList(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/v2/catalog/list", gotPath)
	assert.Equal(t, "secret", gotKey)
	require.Len(t, list, 1)
	assert.Equal(t, "10", list[0].ID.String())
	assert.Equal(t, "Roots", list[0].Name)
	assert.Equal(t, "0", list[0].Parent.String())
	assert.Equal(t, 1, list[0].Order.Int())
}

func TestItemCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":"260"}`))
	}))
	defer srv.Close()

	count, err := testClient(srv.URL).ItemCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 260, count)
}

func TestItemListPassesPageParams(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ItemList(context.Background(), 7, 250, 250)
	require.NoError(t, err)

	assert.Equal(t, "7", got.Get("sklad"))
	assert.Equal(t, "250", got.Get("offset"))
	assert.Equal(t, "250", got.Get("limit"))
	assert.Equal(t, "secret", got.Get("apikey"))
}

func TestErrorStatusIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ItemCount(context.Background())
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "item/count", terr.Endpoint)
}

func TestSubmitCart(t *testing.T) {
	var gotForm url.Values
	var gotKey, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotKey = r.URL.Query().Get("apikey")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"nomerZakaza":12345}`))
	}))
	defer srv.Close()

	number, err := testClient(srv.URL).SubmitCart(context.Background(), Cart{
		Storage:        7,
		Legal:          1,
		Checkout:       2,
		Contractor:     3,
		Scheme:         4,
		Currency:       "RUB",
		UserID:         5,
		ContactName:    "Ivan",
		ContactAddress: "Moscow",
		ContactPhone:   "+7900",
		ContactEmail:   "ivan@example.com",
		DeliveryDate:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Comment:        "ring twice",
		Items: []CartItem{
			{ID: "100", Name: "Widget", Quantity: 2, Price: 19.8},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "12345", number)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, "7", gotForm.Get("sklad"))
	assert.Equal(t, "RUB", gotForm.Get("valuta"))
	assert.Equal(t, "Ivan", gotForm.Get("nameKontakt"))
	assert.Equal(t, "ivan@example.com", gotForm.Get("other1Kontakt"))
	assert.Equal(t, "2024-05-01 12:00:00", gotForm.Get("dateDost"))
	assert.JSONEq(t, `[{"id":"100","name":"Widget","quantity":2,"price":19.8}]`, gotForm.Get("tovarJson"))
}

func TestSubmitCartEmptyNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nomerZakaza":""}`))
	}))
	defer srv.Close()

	number, err := testClient(srv.URL).SubmitCart(context.Background(), Cart{})
	require.NoError(t, err)
	assert.Empty(t, number)
}

func TestFileURL(t *testing.T) {
	got := FileURL("https://trademaster.pro/", "shop42", "red widget (2).jpg")
	assert.Equal(t, "https://trademaster.pro/tradeMasterImages/shop42/red widget (2).jpg", got)
}
