//go:build e2e

// Package integration exercises a running inventory-service over HTTP.
// Start the service with AUTH_MODE=header and point BASE_URL at it.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
)

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func waitReady(t testing.TB) {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL() + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

// noRedirect keeps 303 responses visible to the test.
var noRedirect = &http.Client{
	Timeout: 5 * time.Second,
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

func newUser() string { return "e2e-" + uuid.NewString() }

func send(t testing.TB, method, path, user, contentType, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	r, err := http.NewRequest(method, baseURL()+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if user != "" {
		r.Header.Set("X-User-Id", user)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	resp, err := noRedirect.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, b
}

type product struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
}

type result struct {
	Success bool     `json:"success"`
	Field   string   `json:"field"`
	Message string   `json:"message"`
	Product *product `json:"product"`
}

type page struct {
	Items []product `json:"items"`
	Total int       `json:"total"`
}

func listProducts(t testing.TB, user string) page {
	t.Helper()
	resp, body := send(t, http.MethodGet, "/products", user, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestIntegration_OpenAPIServed(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	resp, body := send(t, http.MethodGet, "/openapi.yaml", "", "", "")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(bytes.Contains(body, []byte("openapi:")), qt.IsTrue)
}

func TestIntegration_DocsServed(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	resp, body := send(t, http.MethodGet, "/docs/", "", "", "")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(strings.Contains(strings.ToLower(string(body)), "swagger"), qt.IsTrue)
}

func TestIntegration_CreateListDelete(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	user := newUser()

	resp, body := send(t, http.MethodPost, "/products", user, "application/json",
		`{"name":"Widget","quantity":10,"price":"19.99"}`)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusCreated, qt.Commentf("body: %s", body))

	p := listProducts(t, user)
	c.Assert(p.Items, qt.HasLen, 1)
	c.Assert(p.Items[0].Name, qt.Equals, "Widget")
	c.Assert(p.Items[0].Quantity, qt.Equals, int64(10))
	c.Assert(p.Items[0].Price, qt.Equals, "19.99")

	resp, _ = send(t, http.MethodDelete, "/products/"+p.Items[0].ID, user, "", "")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(listProducts(t, user).Items, qt.HasLen, 0)
}

func TestIntegration_FormFlow(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	user := newUser()

	form := url.Values{"name": {"Gadget"}, "quantity": {"2"}, "price": {"3.50"}}
	resp, _ := send(t, http.MethodPost, "/products", user, "application/x-www-form-urlencoded", form.Encode())
	c.Assert(resp.StatusCode, qt.Equals, http.StatusSeeOther)
	c.Assert(resp.Header.Get("Location"), qt.Equals, "/products")

	p := listProducts(t, user)
	c.Assert(p.Items, qt.HasLen, 1)

	resp, _ = send(t, http.MethodPost, "/products/delete", user, "application/x-www-form-urlencoded", "id="+p.Items[0].ID)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusSeeOther)
	c.Assert(listProducts(t, user).Items, qt.HasLen, 0)
}

func TestIntegration_OwnerCannotBeSpoofed(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	user, victim := newUser(), newUser()

	resp, body := send(t, http.MethodPost, "/products", user, "application/json",
		`{"name":"Spoof","quantity":1,"price":1,"owner_id":"`+victim+`"}`)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusCreated)
	var res result
	c.Assert(json.Unmarshal(body, &res), qt.IsNil)
	c.Assert(res.Product.OwnerID, qt.Equals, user)
	c.Assert(listProducts(t, victim).Items, qt.HasLen, 0)
}

func TestIntegration_CrossTenantDelete(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	owner, intruder := newUser(), newUser()

	_, body := send(t, http.MethodPost, "/products", owner, "application/json", `{"name":"Mine","quantity":1,"price":1}`)
	var res result
	c.Assert(json.Unmarshal(body, &res), qt.IsNil)

	resp, _ := send(t, http.MethodDelete, "/products/"+res.Product.ID, intruder, "", "")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(listProducts(t, owner).Items, qt.HasLen, 1)

	resp, _ = send(t, http.MethodGet, "/products/"+res.Product.ID, intruder, "", "")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusNotFound)
}

func TestIntegration_UnsupportedMediaType(t *testing.T) {
	c := qt.New(t)
	waitReady(t)
	resp, _ := send(t, http.MethodPost, "/products", newUser(), "text/plain", "{}")
	c.Assert(resp.StatusCode, qt.Equals, http.StatusUnsupportedMediaType)
}
