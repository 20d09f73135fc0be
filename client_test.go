package graphql_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/llehouerou/go-saleor-catalog"
)

const productQuery = `query Product($id: ID!) { product(id: $id) { id name } }`

type productData struct {
	Product *struct {
		ID   graphql.ID `json:"id"`
		Name string     `json:"name"`
	} `json:"product"`
}

func TestClient_Exec_partialDataWithErrorResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{
			"data": {
				"product": null
			},
			"errors": [
				{
					"message": "Couldn't resolve to a node: UHJvZHVjdDo5OTk=",
					"path": ["product"],
					"locations": [
						{
							"line": 1,
							"column": 30
						}
					]
				}
			]
		}`)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	err := client.Exec(context.Background(), productQuery, &q, map[string]any{"id": "UHJvZHVjdDo5OTk="})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.Error(), "Message: Couldn't resolve to a node: UHJvZHVjdDo5OTk=, Locations: [{Line:1 Column:30}]"; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}
	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) {
		t.Fatal("the error type should be graphql.Errors")
	}
	if got, want := gqlErrs[0].PathString(), "product"; got != want {
		t.Errorf("got path %q, want %q", got, want)
	}
	if q.Product != nil {
		t.Errorf("got non-nil q.Product: %v, want: nil", *q.Product)
	}

	raw, err := client.ExecRaw(context.Background(), productQuery, map[string]any{"id": "UHJvZHVjdDo5OTk="})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		t.Fatal(err)
	}
	if got, want := compact.String(), `{"product":null}`; got != want {
		t.Errorf("got raw data %q, want %q", got, want)
	}
}

func TestClient_Exec_noDataWithErrorResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{
			"errors": [
				{
					"message": "Variable \"$id\" of required type \"ID!\" was not provided.",
					"locations": [
						{
							"line": 1,
							"column": 15
						}
					]
				}
			]
		}`)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	err := client.Exec(context.Background(), productQuery, &q, nil)
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if q.Product != nil {
		t.Errorf("got non-nil q.Product: %v", q.Product)
	}

	// test internal error data
	client = client.WithDebug(true)
	err = client.Exec(context.Background(), productQuery, &q, nil, graphql.OperationName("Product"))
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	gqlErr := err.(graphql.Errors)
	if got, want := gqlErr[0].Message, `Variable "$id" of required type "ID!" was not provided.`; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}

	internal := gqlErr[0].GetInternalExtensions()
	if internal == nil || internal.Request == nil {
		t.Fatal("expected request debug information")
	}
	if got, want := internal.Request.Body, `{"query":"query Product($id: ID!) { product(id: $id) { id name } }","operationName":"Product"}`+"\n"; got != want {
		t.Errorf("got request body: %v, want: %v", got, want)
	}
	if internal.Request.Headers.Get(graphql.RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestClient_Exec_errorStatusCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "important message", http.StatusInternalServerError)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	err := client.Exec(context.Background(), productQuery, &q, map[string]any{"id": "1"})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.Error(), `Message: 500 Internal Server Error; body: "important message\n", Locations: []`; got != want {
		t.Errorf("got error: %v, want: %v", got, want)
	}

	gqlErr := err.(graphql.Errors)
	if got, want := gqlErr[0].GetCode(), graphql.ErrRequestError; got != want {
		t.Errorf("got code: %v, want: %v", got, want)
	}
	if _, ok := gqlErr[0].Extensions["internal"]; ok {
		t.Errorf("expected empty internal error")
	}

	client = client.WithDebug(true)
	err = client.Exec(context.Background(), productQuery, &q, map[string]any{"id": "1"})
	gqlErr = err.(graphql.Errors)
	internal := gqlErr[0].GetInternalExtensions()
	if internal == nil || internal.Response == nil {
		t.Fatal("expected response debug information")
	}
	if got, want := internal.Response.Body, "important message\n"; got != want {
		t.Errorf("got response body %q, want %q", got, want)
	}
}

// Test that empty variables, whether a map or a struct without fields, are
// not sent at all.
func TestClient_Exec_emptyVariables(t *testing.T) {
	tests := []struct {
		name      string
		variables any
	}{
		{"nil", nil},
		{"empty map", map[string]any{}},
		{"empty struct", struct{}{}},
		{"pointer to empty struct", &struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
				body := mustRead(req.Body)
				if got, want := body, `{"query":"{shop{name}}"}`+"\n"; got != want {
					t.Errorf("got body: %v, want %v", got, want)
				}
				w.Header().Set("Content-Type", "application/json")
				mustWrite(w, `{"data": {"shop": {"name": "Saleor"}}}`)
			})
			client := graphql.NewClient(
				"/graphql",
				&http.Client{Transport: localRoundTripper{handler: mux}},
			)

			var q struct {
				Shop struct {
					Name string `json:"name"`
				} `json:"shop"`
			}
			err := client.Exec(context.Background(), "{shop{name}}", &q, tt.variables)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := q.Shop.Name, "Saleor"; got != want {
				t.Errorf("got q.Shop.Name: %q, want: %q", got, want)
			}
		})
	}
}

func TestClient_Exec_structVariables(t *testing.T) {
	type variables struct {
		ID    graphql.ID `json:"id"`
		First *int       `json:"first,omitempty"`
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		body := mustRead(req.Body)
		if got, want := body, `{"query":"`+productQuery+`","operationName":"Product","variables":{"id":"UHJvZHVjdDox"}}`+"\n"; got != want {
			t.Errorf("got body: %v, want %v", got, want)
		}
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"product": {"id": "UHJvZHVjdDox", "name": "Apple Juice"}}}`)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	err := client.Exec(
		context.Background(),
		productQuery,
		&q,
		variables{ID: "UHJvZHVjdDox"},
		graphql.OperationName("Product"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if q.Product == nil || q.Product.Name != "Apple Juice" {
		t.Errorf("got wrong q.Product: %v", q.Product)
	}
}

func TestClient_Exec_gzipResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		mustWrite(gw, `{"data": {"product": {"id": "UHJvZHVjdDox", "name": "Apple Juice"}}}`)
		if err := gw.Close(); err != nil {
			t.Error(err)
		}
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	if err := client.Exec(context.Background(), productQuery, &q, map[string]any{"id": "1"}); err != nil {
		t.Fatal(err)
	}
	if q.Product == nil || q.Product.ID != "UHJvZHVjdDox" {
		t.Errorf("got wrong q.Product: %v", q.Product)
	}
}

func TestClient_Exec_decodeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		mustWrite(w, `{"data": {"product": {"id": 12, "name": "Apple Juice"}}}`)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	var q productData
	err := client.Exec(context.Background(), productQuery, &q, map[string]any{"id": "1"})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.(graphql.Errors)[0].GetCode(), graphql.ErrGraphQLDecode; got != want {
		t.Errorf("got code %q, want %q", got, want)
	}
}

func TestClient_Exec_invalidJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		mustWrite(w, `<html>gateway timeout</html>`)
	})
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)

	err := client.Exec(context.Background(), productQuery, &productData{}, map[string]any{"id": "1"})
	if err == nil {
		t.Fatal("got error: nil, want: non-nil")
	}
	if got, want := err.(graphql.Errors)[0].GetCode(), graphql.ErrJsonDecode; got != want {
		t.Errorf("got code %q, want %q", got, want)
	}
}

func TestClient_logger(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		mustWrite(w, `{"data": {"product": null}}`)
	})

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	client := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	).WithLogger(logger)

	err := client.Exec(context.Background(), productQuery, &productData{}, map[string]any{"id": "1"}, graphql.OperationName("Product"))
	if err != nil {
		t.Fatal(err)
	}

	entry := hook.LastEntry()
	if entry == nil {
		t.Fatal("expected a log entry")
	}
	if got, want := entry.Data["operation"], "Product"; got != want {
		t.Errorf("got operation %v, want %v", got, want)
	}
	if got, want := entry.Data["status"], "ok"; got != want {
		t.Errorf("got status %v, want %v", got, want)
	}
	if entry.Data["request_id"] == "" {
		t.Error("expected a request id")
	}
}

func TestClient_buildRequest(t *testing.T) {
	t.Run("builds request with query, operation name and variables", func(t *testing.T) {
		client := graphql.NewClient("http://example.com/graphql", nil)
		variables := map[string]any{"id": "123"}

		req, reqBody, err := client.BuildRequest(context.Background(), productQuery, variables, graphql.OperationName("Product"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if req.Method != http.MethodPost {
			t.Errorf("expected method POST, got %s", req.Method)
		}
		if req.URL.String() != "http://example.com/graphql" {
			t.Errorf("expected URL http://example.com/graphql, got %s", req.URL.String())
		}
		if contentType := req.Header.Get("Content-Type"); contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var body struct {
			Query         string         `json:"query"`
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables,omitempty"`
		}
		if err := json.Unmarshal(reqBody, &body); err != nil {
			t.Fatalf("failed to unmarshal request body: %v", err)
		}
		if body.Query != productQuery {
			t.Errorf("expected query %q, got %q", productQuery, body.Query)
		}
		if body.OperationName != "Product" {
			t.Errorf("expected operation name Product, got %q", body.OperationName)
		}
		if body.Variables["id"] != "123" {
			t.Errorf("expected variables[id]=123, got %v", body.Variables["id"])
		}
	})

	t.Run("applies request modifier", func(t *testing.T) {
		client := graphql.NewClient("http://example.com/graphql", nil).
			WithRequestModifier(func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer token123")
			})

		req, _, err := client.BuildRequest(context.Background(), productQuery, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if auth := req.Header.Get("Authorization"); auth != "Bearer token123" {
			t.Errorf("expected Authorization header 'Bearer token123', got %q", auth)
		}
	})

	t.Run("rejects unknown options", func(t *testing.T) {
		client := graphql.NewClient("http://example.com/graphql", nil)
		_, _, err := client.BuildRequest(context.Background(), productQuery, nil, badOption{})
		if err == nil {
			t.Fatal("expected an error for an unknown option")
		}
	})
}

type badOption struct{}

func (badOption) Type() graphql.OptionType { return "bogus" }
func (badOption) String() string           { return "" }

// TestClient_ImmutablePattern tests that With* methods return new Client
// instances without modifying the original.
func TestClient_ImmutablePattern(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, req *http.Request) {
		seen = append(seen, req.Header.Get("Authorization"))
		mustWrite(w, `{"data": {"product": null}}`)
	})

	base := graphql.NewClient(
		"/graphql",
		&http.Client{Transport: localRoundTripper{handler: mux}},
	)
	authed := base.WithRequestModifier(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer staff")
	})
	if authed == base {
		t.Fatal("WithRequestModifier should return a new client")
	}

	for _, c := range []*graphql.Client{base, authed, base.WithDebug(true)} {
		if err := c.Exec(context.Background(), productQuery, &productData{}, map[string]any{"id": "1"}); err != nil {
			t.Fatal(err)
		}
	}
	if got, want := strings.Join(seen, "|"), "|Bearer staff|"; got != want {
		t.Errorf("got authorization headers %q, want %q", got, want)
	}
}

func TestClient_decodeResponse(t *testing.T) {
	client := graphql.NewClient("http://example.com/graphql", nil)

	rawData, errs := client.DecodeResponse(strings.NewReader(`{"data":{"product":{"name":"Bob"}},"errors":[{"message":"some field failed"}]}`))
	if len(errs) != 1 || errs[0].Message != "some field failed" {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !bytes.Contains(rawData, []byte(`"Bob"`)) {
		t.Errorf("expected partial data, got %s", rawData)
	}

	rawData, errs = client.DecodeResponse(strings.NewReader(`{"data":null,"errors":[{"message":"boom"}]}`))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if rawData != nil {
		t.Errorf("expected nil raw data, got %s", rawData)
	}

	_, errs = client.DecodeResponse(strings.NewReader(`{invalid json}`))
	if len(errs) != 1 || errs[0].GetCode() != graphql.ErrJsonDecode {
		t.Errorf("expected a %s error, got %v", graphql.ErrJsonDecode, errs)
	}
}

// TestError_GetCode tests the GetCode helper method.
func TestError_GetCode(t *testing.T) {
	tests := []struct {
		name       string
		extensions map[string]any
		want       string
	}{
		{"code present", map[string]any{"code": graphql.ErrRequestError}, graphql.ErrRequestError},
		{"nil extensions", nil, ""},
		{"code missing", map[string]any{"other": "value"}, ""},
		{"code of wrong type", map[string]any{"code": 123}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := graphql.Error{Message: "test error", Extensions: tt.extensions}
			if got := err.GetCode(); got != tt.want {
				t.Errorf("expected code %q, got %q", tt.want, got)
			}
		})
	}
}

func TestError_PathString(t *testing.T) {
	var e graphql.Error
	if err := json.Unmarshal([]byte(`{"message":"x","path":["product","images",3,"url"]}`), &e); err != nil {
		t.Fatal(err)
	}
	if got, want := e.PathString(), "product.images.3.url"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestError_GetInternalExtensions(t *testing.T) {
	if got := (graphql.Error{Message: "test error"}).GetInternalExtensions(); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}

	client := graphql.NewClient("http://example.com/graphql", nil).WithDebug(true)
	req := httptest.NewRequest(http.MethodPost, "http://example.com/graphql", nil)
	req.Header.Set("Content-Type", "application/json")
	resp := &http.Response{Header: http.Header{"X-Test": []string{"1"}}}

	decorated := client.NewRequestError(
		graphql.ErrRequestError,
		errors.New("boom"),
		req,
		resp,
		strings.NewReader("request body"),
		strings.NewReader("response body"),
	)
	internal := decorated.GetInternalExtensions()
	if internal == nil || internal.Request == nil || internal.Response == nil {
		t.Fatalf("expected request and response info, got %+v", internal)
	}
	if internal.Request.Body != "request body" {
		t.Errorf("got request body %q", internal.Request.Body)
	}
	if internal.Response.Body != "response body" {
		t.Errorf("got response body %q", internal.Response.Body)
	}

	plain := graphql.NewClient("http://example.com/graphql", nil).NewRequestError(
		graphql.ErrRequestError,
		errors.New("boom"),
		req,
		resp,
		strings.NewReader("request body"),
		strings.NewReader("response body"),
	)
	if plain.GetInternalExtensions() != nil {
		t.Error("expected no debug information without debug mode")
	}
}

// localRoundTripper is an http.RoundTripper that executes HTTP transactions
// by using handler directly, instead of going over an HTTP connection.
type localRoundTripper struct {
	handler http.Handler
}

func (l localRoundTripper) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	w := httptest.NewRecorder()
	l.handler.ServeHTTP(w, req)
	return w.Result(), nil
}

func mustRead(r io.Reader) string {
	b, err := io.ReadAll(r)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func mustWrite(w io.Writer, s string) {
	_, err := io.WriteString(w, s)
	if err != nil {
		panic(err)
	}
}
