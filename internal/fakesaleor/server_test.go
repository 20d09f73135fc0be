package fakesaleor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/go-saleor-catalog/internal/fakesaleor"
)

var fixedClock = fakesaleor.WithClock(func() time.Time {
	return time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
})

func exec(t *testing.T, query string, variables map[string]interface{}, v any) []string {
	t.Helper()
	s, err := fakesaleor.NewSchema(fakesaleor.Seed(), fixedClock)
	require.NoError(t, err)

	resp := s.Exec(context.Background(), query, "", variables)
	var messages []string
	for _, e := range resp.Errors {
		messages = append(messages, e.Message)
	}
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return messages
}

func TestSchema_products(t *testing.T) {
	var out struct {
		Products struct {
			Edges []struct {
				Node struct {
					ID           string `json:"id"`
					Name         string `json:"name"`
					Availability struct {
						Available bool `json:"available"`
					} `json:"availability"`
				} `json:"node"`
				Cursor string `json:"cursor"`
			} `json:"edges"`
			PageInfo struct {
				HasPreviousPage bool    `json:"hasPreviousPage"`
				HasNextPage     bool    `json:"hasNextPage"`
				EndCursor       *string `json:"endCursor"`
			} `json:"pageInfo"`
			TotalCount int `json:"totalCount"`
		} `json:"products"`
	}
	errs := exec(t, `{
		products(first: 2) {
			edges { node { id name availability { available } } cursor }
			pageInfo { hasPreviousPage hasNextPage endCursor }
			totalCount
		}
	}`, nil, &out)
	require.Empty(t, errs)

	require.Len(t, out.Products.Edges, 2)
	assert.Equal(t, fakesaleor.GlobalID("Product", 1), out.Products.Edges[0].Node.ID)
	assert.Equal(t, "Apple Juice", out.Products.Edges[0].Node.Name)
	assert.True(t, out.Products.Edges[0].Node.Availability.Available)
	assert.False(t, out.Products.PageInfo.HasPreviousPage)
	assert.True(t, out.Products.PageInfo.HasNextPage)
	require.NotNil(t, out.Products.PageInfo.EndCursor)
	assert.Equal(t, out.Products.Edges[1].Cursor, *out.Products.PageInfo.EndCursor)
	assert.Equal(t, 8, out.Products.TotalCount)
}

func TestSchema_product(t *testing.T) {
	var out struct {
		Product struct {
			ID              string `json:"id"`
			DescriptionJSON string `json:"descriptionJson"`
			AvailableOn     string `json:"availableOn"`
			IsAvailable     bool   `json:"isAvailable"`
			Margin          struct {
				Start int `json:"start"`
				Stop  int `json:"stop"`
			} `json:"margin"`
			Thumbnail struct {
				URL string `json:"url"`
			} `json:"thumbnail"`
			Attributes []struct {
				Attribute struct {
					InputType string `json:"inputType"`
				} `json:"attribute"`
				Values []struct {
					Name string `json:"name"`
				} `json:"values"`
			} `json:"attributes"`
		} `json:"product"`
	}
	errs := exec(t, `query($id: ID!) {
		product(id: $id) {
			id descriptionJson availableOn isAvailable
			margin { start stop }
			thumbnail(size: 48) { url }
			attributes { attribute { inputType } values { name } }
		}
	}`, map[string]interface{}{"id": fakesaleor.GlobalID("Product", 1)}, &out)
	require.Empty(t, errs)

	p := out.Product
	assert.Equal(t, fakesaleor.GlobalID("Product", 1), p.ID)
	assert.True(t, json.Valid([]byte(p.DescriptionJSON)))
	assert.Equal(t, "2019-01-01", p.AvailableOn)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, 40, p.Margin.Start)
	assert.Equal(t, 50, p.Margin.Stop)
	assert.Equal(t, "http://localhost:8000/media/products/apple-juice-1-thumbnail-48x48.jpg", p.Thumbnail.URL)
	require.Len(t, p.Attributes, 1)
	assert.Equal(t, "DROPDOWN", p.Attributes[0].Attribute.InputType)
	assert.Equal(t, "Apple", p.Attributes[0].Values[0].Name)
}

func TestSchema_productNotFound(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"unknown product", fakesaleor.GlobalID("Product", 999), "couldn't resolve to a node"},
		{"variant id", fakesaleor.GlobalID("ProductVariant", 1), "must receive a Product id"},
		{"not an id", "%%%", "couldn't resolve id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				Product *struct {
					ID string `json:"id"`
				} `json:"product"`
			}
			errs := exec(t, `query($id: ID!) { product(id: $id) { id } }`, map[string]interface{}{"id": tt.id}, &out)
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
			assert.Nil(t, out.Product)
		})
	}
}

func TestSchema_imageByID(t *testing.T) {
	cushion := fakesaleor.GlobalID("Product", 8)
	image := fakesaleor.GlobalID("ProductImage", 41)

	var out struct {
		Product struct {
			MainImage struct {
				ID  string `json:"id"`
				Alt string `json:"alt"`
			} `json:"mainImage"`
			Images struct {
				Edges []struct {
					Node struct {
						ID  string `json:"id"`
						URL string `json:"url"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					HasNextPage bool `json:"hasNextPage"`
				} `json:"pageInfo"`
			} `json:"images"`
		} `json:"product"`
	}
	errs := exec(t, `query($productId: ID!, $imageId: ID!) {
		product(id: $productId) {
			mainImage: imageById(id: $imageId) { id alt }
			images(first: 20) { edges { node { id url(size: 48) } } pageInfo { hasNextPage } }
		}
	}`, map[string]interface{}{"productId": cushion, "imageId": image}, &out)
	require.Empty(t, errs)

	assert.Equal(t, image, out.Product.MainImage.ID)
	assert.Equal(t, "Saleor Cushion #25", out.Product.MainImage.Alt)
	require.Len(t, out.Product.Images.Edges, 20)
	assert.True(t, out.Product.Images.PageInfo.HasNextPage)
	for _, e := range out.Product.Images.Edges {
		assert.NotEqual(t, image, e.Node.ID)
		assert.True(t, strings.HasSuffix(e.Node.URL, "-thumbnail-48x48.jpg"), e.Node.URL)
	}
}

func TestSchema_productVariant(t *testing.T) {
	var out struct {
		ProductVariant struct {
			SKU           string `json:"sku"`
			Name          string `json:"name"`
			Margin        int    `json:"margin"`
			StockQuantity int    `json:"stockQuantity"`
			PriceOverride *struct {
				Amount float64 `json:"amount"`
			} `json:"priceOverride"`
			Images struct {
				Edges []struct {
					Node struct {
						ID string `json:"id"`
					} `json:"node"`
				} `json:"edges"`
			} `json:"images"`
			Product struct {
				Name string `json:"name"`
			} `json:"product"`
		} `json:"productVariant"`
	}
	errs := exec(t, `query($id: ID!) {
		productVariant(id: $id) {
			sku name margin stockQuantity
			priceOverride { amount }
			images { edges { node { id } } }
			product { name }
		}
	}`, map[string]interface{}{"id": fakesaleor.GlobalID("ProductVariant", 1)}, &out)
	require.Empty(t, errs)

	v := out.ProductVariant
	assert.Equal(t, "APPLE-JUICE-1", v.SKU)
	assert.Equal(t, "0.5l", v.Name)
	assert.Equal(t, 50, v.Margin)
	assert.Equal(t, 45, v.StockQuantity)
	assert.Nil(t, v.PriceOverride)
	require.Len(t, v.Images.Edges, 1)
	assert.Equal(t, fakesaleor.GlobalID("ProductImage", 1), v.Images.Edges[0].Node.ID)
	assert.Equal(t, "Apple Juice", v.Product.Name)
}

func TestSchema_paginationErrors(t *testing.T) {
	errs := exec(t, `{ products(first: 1, last: 1) { totalCount } }`, nil, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "both first and last")
}

func TestHandler(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h, err := fakesaleor.Handler(
		fakesaleor.Seed(),
		fakesaleor.WithToken("staff-token"),
		fakesaleor.WithLogger(logger),
		fixedClock,
	)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	post := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+fakesaleor.Path, strings.NewReader(`{"query":"{ categories { totalCount } }"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", "req-1")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := post("")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post("staff-token")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Data struct {
			Categories struct {
				TotalCount int `json:"totalCount"`
			} `json:"categories"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 3, body.Data.Categories.TotalCount)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.InfoLevel, entries[1].Level)
	assert.Equal(t, "req-1", entries[1].Data["request_id"])
	assert.Equal(t, http.StatusOK, entries[1].Data["status"])
	assert.Equal(t, http.StatusUnauthorized, entries[0].Data["status"])
}

func TestListenAndServe_stopsOnCancel(t *testing.T) {
	h, err := fakesaleor.Handler(fakesaleor.Seed())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fakesaleor.ListenAndServe(ctx, "127.0.0.1:0", h) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
