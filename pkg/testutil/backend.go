package testutil

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const refreshCookie = "refresh_token"

// FakeProduct is a product served by FakeBackend.
type FakeProduct struct {
	ID    int
	Name  string
	Price float64
	Stock int
}

type fakeLine struct {
	product  FakeProduct
	quantity int
	discount float64
}

// FakeBackend is an in-process storefront backend: auth, catalog, cart, and
// orders, enough to drive the client end to end.
type FakeBackend struct {
	URL string

	t      *testing.T
	server *httptest.Server

	mu            sync.Mutex
	products      []FakeProduct
	codes         map[string]bool
	discounts     map[string]float64
	refreshTokens map[string]bool
	accessToken   string
	cart          []fakeLine
	hasCart       bool
	calls         map[string]int
	lastExchange  map[string]string
	tokenTTL      time.Duration
}

// NewFakeBackend starts a fake backend selling products and shuts it down at
// test cleanup.
func NewFakeBackend(t *testing.T, products ...FakeProduct) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		t:             t,
		products:      products,
		codes:         make(map[string]bool),
		discounts:     make(map[string]float64),
		refreshTokens: make(map[string]bool),
		calls:         make(map[string]int),
		tokenTTL:      time.Hour,
	}
	fb.server = httptest.NewServer(fb.routes())
	fb.URL = fb.server.URL
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(fb.count)

	r.Get("/auth/login-url", fb.loginURL)
	r.Post("/auth/token", fb.exchange)
	r.Post("/auth/refresh", fb.refresh)

	r.Get("/product-catalogs/by-store/{storeId}", fb.catalog)
	r.Get("/products/{productId}", fb.product)

	r.Group(func(r chi.Router) {
		r.Use(fb.requireBearer)
		r.Get("/shop/cart/summary", fb.summary)
		r.Post("/shop/cart", fb.createCart)
		r.Post("/shop/cart/item", fb.addItem)
		r.Delete("/shop/cart/item/{productId}", fb.removeItem)
		r.Delete("/shop/cart", fb.clearCart)
		r.Post("/shop/applyDiscountByCode/{code}", fb.applyDiscount)
		r.Get("/orders/checkout/link", fb.checkoutLink)
	})
	return r
}

// IssueCode makes code redeemable once at /auth/token.
func (fb *FakeBackend) IssueCode(code string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.codes[code] = true
}

// AddDiscount registers a code taking fraction off every unit price.
func (fb *FakeBackend) AddDiscount(code string, fraction float64) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.discounts[code] = fraction
}

// ExpireAccessToken makes the current access token be rejected with 401.
func (fb *FakeBackend) ExpireAccessToken() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.accessToken = ""
}

// RevokeRefreshTokens makes every refresh cookie be rejected.
func (fb *FakeBackend) RevokeRefreshTokens() {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.refreshTokens = make(map[string]bool)
}

// Calls reports how many requests hit "METHOD /path".
func (fb *FakeBackend) Calls(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

// LastExchange returns the body of the last /auth/token call.
func (fb *FakeBackend) LastExchange() map[string]string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.lastExchange
}

// CartQuantity reports the backend's quantity for a product.
func (fb *FakeBackend) CartQuantity(productID int) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, l := range fb.cart {
		if l.product.ID == productID {
			return l.quantity
		}
	}
	return 0
}

func (fb *FakeBackend) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.calls[r.Method+" "+r.URL.Path]++
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		valid := fb.accessToken != "" && r.Header.Get("Authorization") == "Bearer "+fb.accessToken
		fb.mu.Unlock()
		if !valid {
			writeEnvelope(w, http.StatusUnauthorized, nil, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) loginURL(w http.ResponseWriter, r *http.Request) {
	q := url.Values{
		"response_type": {"code"},
		"redirect_uri":  {r.URL.Query().Get("redirectUri")},
		"state":         {r.URL.Query().Get("state")},
	}
	writeEnvelope(w, http.StatusOK, map[string]string{
		"loginUrl": "https://idp.example/oauth2/authorize?" + q.Encode(),
	}, "")
}

func (fb *FakeBackend) exchange(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeEnvelope(w, http.StatusBadRequest, nil, "Invalid request")
		return
	}
	fb.mu.Lock()
	fb.lastExchange = body
	ok := fb.codes[body["code"]]
	delete(fb.codes, body["code"])
	fb.mu.Unlock()
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, nil, "Invalid authorization code")
		return
	}
	fb.issueTokens(w)
}

func (fb *FakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshCookie)
	fb.mu.Lock()
	ok := err == nil && fb.refreshTokens[c.Value]
	fb.mu.Unlock()
	if !ok {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Refresh token expired")
		return
	}
	fb.issueTokens(w)
}

func (fb *FakeBackend) issueTokens(w http.ResponseWriter) {
	access := NewAccessToken(fb.t, "shopper", "shopper@example.com", time.Now().Add(fb.tokenTTL))
	refresh := uuid.NewString()
	fb.mu.Lock()
	fb.accessToken = access
	fb.refreshTokens[refresh] = true
	fb.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: refresh, Path: "/", HttpOnly: true})
	writeEnvelope(w, http.StatusOK, map[string]any{
		"access_token": access,
		"id_token":     "id-" + refresh,
		"token_type":   "Bearer",
		"expires_in":   int(fb.tokenTTL.Seconds()),
	}, "Tokens issued")
}

func (fb *FakeBackend) catalog(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]map[string]any, 0, len(fb.products))
	for _, p := range fb.products {
		out = append(out, map[string]any{
			"productResponseDto": map[string]any{
				"productId":   p.ID,
				"name":        p.Name,
				"description": p.Name,
				"price":       p.Price,
				"stock":       p.Stock,
				"storeId":     chi.URLParam(r, "storeId"),
			},
			"catalogResourceUrlSet": []map[string]any{},
		})
	}
	writeEnvelope(w, http.StatusOK, out, "")
}

func (fb *FakeBackend) product(w http.ResponseWriter, r *http.Request) {
	p, ok := fb.find(chi.URLParam(r, "productId"))
	if !ok {
		writeEnvelope(w, http.StatusNotFound, nil, "Product not found")
		return
	}
	writeEnvelope(w, http.StatusOK, map[string]any{"productId": p.ID, "name": p.Name, "price": p.Price, "stock": p.Stock}, "")
}

func (fb *FakeBackend) summary(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	items := make([]map[string]any, 0, len(fb.cart))
	var count int
	var total float64
	for _, l := range fb.cart {
		items = append(items, map[string]any{
			"productId":       l.product.ID,
			"productName":     l.product.Name,
			"unitPrice":       l.product.Price,
			"quantity":        l.quantity,
			"discountPerUnit": l.discount,
		})
		count += l.quantity
		total += (l.product.Price - l.discount) * float64(l.quantity)
	}
	writeEnvelope(w, http.StatusOK, map[string]any{
		"cartItems":  items,
		"totalItems": count,
		"totalPrice": math.Round(total*100) / 100,
	}, "")
}

type itemBody struct {
	ProductID json.Number `json:"productId"`
	Quantity  int         `json:"quantity"`
}

func (fb *FakeBackend) createCart(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	exists := fb.hasCart
	fb.mu.Unlock()
	if exists {
		writeEnvelope(w, http.StatusConflict, nil, "Cart already exists")
		return
	}
	fb.add(w, r, true)
}

func (fb *FakeBackend) addItem(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	exists := fb.hasCart
	fb.mu.Unlock()
	if !exists {
		writeEnvelope(w, http.StatusNotFound, nil, "Cart not found")
		return
	}
	fb.add(w, r, false)
}

func (fb *FakeBackend) add(w http.ResponseWriter, r *http.Request, create bool) {
	var body itemBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Quantity < 1 {
		writeEnvelope(w, http.StatusBadRequest, nil, "Invalid item")
		return
	}
	p, ok := fb.find(body.ProductID.String())
	if !ok {
		writeEnvelope(w, http.StatusNotFound, nil, "Product not found")
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if create {
		fb.hasCart = true
	}
	found := false
	for i := range fb.cart {
		if fb.cart[i].product.ID == p.ID {
			fb.cart[i].quantity += body.Quantity
			found = true
		}
	}
	if !found {
		fb.cart = append(fb.cart, fakeLine{product: p, quantity: body.Quantity})
	}
	size := 0
	for _, l := range fb.cart {
		size += l.quantity
	}
	writeEnvelope(w, http.StatusOK, map[string]int{"cartSize": size}, "Item added")
}

func (fb *FakeBackend) removeItem(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "productId")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, l := range fb.cart {
		if strconv.Itoa(l.product.ID) == target {
			fb.cart = append(fb.cart[:i], fb.cart[i+1:]...)
			writeEnvelope(w, http.StatusOK, nil, "Item removed")
			return
		}
	}
	writeEnvelope(w, http.StatusNotFound, nil, "Item not in cart")
}

func (fb *FakeBackend) clearCart(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.cart = nil
	fb.hasCart = false
	writeEnvelope(w, http.StatusOK, nil, "Cart cleared")
}

func (fb *FakeBackend) applyDiscount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fraction, ok := fb.discounts[strings.ToUpper(code)]
	if !ok {
		writeEnvelope(w, http.StatusBadRequest, nil, "Invalid discount code")
		return
	}
	for i := range fb.cart {
		fb.cart[i].discount = math.Round(fb.cart[i].product.Price*fraction*100) / 100
	}
	writeEnvelope(w, http.StatusOK, nil, "Discount applied")
}

func (fb *FakeBackend) checkoutLink(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	empty := len(fb.cart) == 0
	fb.mu.Unlock()
	if empty {
		writeEnvelope(w, http.StatusBadRequest, nil, "Cart is empty")
		return
	}
	writeEnvelope(w, http.StatusOK, map[string]string{"checkoutUrl": "https://pay.example/session/" + uuid.NewString()}, "")
}

func (fb *FakeBackend) find(productID string) (FakeProduct, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, p := range fb.products {
		if strconv.Itoa(p.ID) == productID {
			return p, true
		}
	}
	return FakeProduct{}, false
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{}
	if data != nil {
		body["data"] = data
	}
	if message != "" {
		body["message"] = message
	}
	_ = json.NewEncoder(w).Encode(body)
}
