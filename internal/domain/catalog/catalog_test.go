package catalog

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/product-cart/internal/domain/cart"
)

const sample = `[
  {"name": "Waffle with Berries", "category": "Waffle", "price": 6.5,
   "image": {"thumbnail": "t1.jpg", "mobile": "m1.jpg", "tablet": "tb1.jpg", "desktop": "d1.jpg"}},
  {"id": "macaron", "name": "Macaron Mix of Five", "category": "Macaron", "price": 8,
   "image": {"desktop": "d2.jpg"}},
  {"id": 7, "name": "Classic Tiramisu", "category": "Tiramisu", "price": 5.5,
   "image": {"desktop": "d3.jpg"}}
]`

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	return l
}

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sample), quiet())
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	products := c.Products()
	assert.Equal(t, cart.ProductID("1"), products[0].ID)
	assert.Equal(t, cart.ProductID("macaron"), products[1].ID)
	assert.Equal(t, cart.ProductID("7"), products[2].ID)
	assert.Equal(t, "6.5", products[0].Price.String())
	assert.Equal(t, "m1.jpg", products[0].Image.Mobile)

	p, ok := c.Lookup("7")
	require.True(t, ok)
	assert.Equal(t, "Classic Tiramisu", p.Name)

	_, ok = c.Lookup("2")
	assert.False(t, ok)
}

func TestParseNumericIDForms(t *testing.T) {
	c, err := Parse(strings.NewReader(`[
	  {"id": 3.0, "name": "a", "price": 1, "image": {"desktop": "a.jpg"}},
	  {"id": null, "name": "b", "price": 1, "image": {"desktop": "b.jpg"}}
	]`), quiet())
	require.NoError(t, err)

	_, ok := c.Lookup("3")
	assert.True(t, ok)
	_, ok = c.Lookup("2")
	assert.True(t, ok, "null id falls back to position")
}

func TestParseCollisionKeepsFirst(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(&out)

	c, err := Parse(strings.NewReader(`[
	  {"name": "first", "price": 1, "image": {"desktop": "a.jpg"}},
	  {"id": "1", "name": "second", "price": 2, "image": {"desktop": "b.jpg"}}
	]`), log)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	p, ok := c.Lookup("1")
	require.True(t, ok)
	assert.Equal(t, "first", p.Name)
	assert.Contains(t, out.String(), "duplicate product id")
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr string
	}{
		"not an array": {
			input:   `{"name": "x"}`,
			wantErr: "failed to decode catalog",
		},
		"missing name": {
			input:   `[{"price": 1, "image": {"desktop": "a.jpg"}}]`,
			wantErr: "name is required",
		},
		"missing price": {
			input:   `[{"name": "a", "image": {"desktop": "a.jpg"}}]`,
			wantErr: "price is required",
		},
		"negative price": {
			input:   `[{"name": "a", "price": -1, "image": {"desktop": "a.jpg"}}]`,
			wantErr: "price must not be negative",
		},
		"missing desktop image": {
			input:   `[{"name": "a", "price": 1, "image": {}}]`,
			wantErr: "image.desktop is required",
		},
		"boolean id": {
			input:   `[{"id": true, "name": "a", "price": 1, "image": {"desktop": "a.jpg"}}]`,
			wantErr: "id must be a string or a number",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), quiet())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	c, err := Load(context.Background(), path, nil, quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, quiet())
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sample))
	}))
	defer srv.Close()

	c, err := Load(context.Background(), srv.URL+"/data.json", srv.Client(), quiet())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Load(context.Background(), srv.URL+"/nope.json", srv.Client(), quiet())
	require.Error(t, err)
	assert.Equal(t, "catalog not found (HTTP 404)", err.Error())
}
