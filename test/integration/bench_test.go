//go:build e2e

package integration

import (
	"net/http"
	"strings"
	"testing"
)

// Benchmark for POST /products; to run: go test -tags e2e -bench=. ./test/integration -run ^$
func BenchmarkCreateProduct(b *testing.B) {
	u := baseURL()
	user := newUser()
	client := &http.Client{}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, _ := http.NewRequest(http.MethodPost, u+"/products", strings.NewReader(`{"name":"bench","quantity":1,"price":"1.00"}`))
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("X-User-Id", user)
			resp, err := client.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
