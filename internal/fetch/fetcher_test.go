package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<html><body>
<span id="productTitle">  CRZ YOGA Womens Comfort Pants  </span>
<div class="a-price"><span class="a-offscreen">$1,299.99</span></div>
<div class="a-price"><span class="a-offscreen">$999.00</span></div>
</body></html>`

func TestFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts title and first price", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(productPage))
		}))
		defer srv.Close()

		obs, err := NewClient(5*time.Second, "").Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "CRZ YOGA Womens Comfort Pants", obs.Name)
		assert.Equal(t, "1299.99", obs.Price)
	})

	t.Run("missing fields are empty, not errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
		}))
		defer srv.Close()

		obs, err := NewClient(5*time.Second, "").Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Empty(t, obs.Name)
		assert.Empty(t, obs.Price)
	})

	t.Run("server error surfaces as fetch error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewClient(5*time.Second, "").Fetch(ctx, srv.URL)
		assert.Error(t, err)
	})

	t.Run("cancelled context aborts before the request", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewClient(5*time.Second, "").Fetch(cancelled, "http://unreachable.invalid")
		assert.Error(t, err)
	})
}

func TestNormalizePrice(t *testing.T) {
	assert.Equal(t, "19.99", normalizePrice(" $19.99 "))
	assert.Equal(t, "1299.99", normalizePrice("$1,299.99"))
	assert.Equal(t, "12.00", normalizePrice("12.00"))
}
