package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/auth"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

func testConfig(t *testing.T, baseURL string) *Config {
	t.Helper()
	cfg, err := ParseConfig(domain.RegistrySettings{
		BaseURL:         baseURL,
		BaseID:          "appTest",
		Table:           "Documents",
		IdentifierField: "Name",
		MaxAttempts:     3,
	})
	require.NoError(t, err)
	return cfg
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(testConfig(t, srv.URL), auth.NewStaticTokenProvider("registry.token", "key123"))
	c.SetRetryDelay(time.Millisecond)
	return c
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_FetchRecords_Paginates(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/appTest/Documents", r.URL.Path)
		assert.Equal(t, "Bearer key123", r.Header.Get("Authorization"))
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))

		switch r.URL.Query().Get("offset") {
		case "":
			writeJSON(w, map[string]any{
				"records": []map[string]any{
					{"id": "rec1", "fields": map[string]any{"Name": "Ordinance #54-89"}},
					{"id": "rec2", "fields": map[string]any{"Name": "Resolution #259-2018", "File": "_resolutions/2018-Res-259.md"}},
				},
				"offset": "page2",
			})
		case "page2":
			writeJSON(w, map[string]any{
				"records": []map[string]any{
					{"id": "rec3", "fields": map[string]any{}},
				},
			})
		default:
			t.Errorf("unexpected offset %q", r.URL.Query().Get("offset"))
		}
	}))
	defer srv.Close()

	records, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "rec1", records[0].ID)
	assert.Equal(t, "Ordinance #54-89", records[0].Identifier)
	assert.Equal(t, "_resolutions/2018-Res-259.md", records[1].Fields["File"])
	// Records without the identifier field keep an empty identifier.
	assert.Equal(t, "rec3", records[2].ID)
	assert.Empty(t, records[2].Identifier)
}

func TestClient_FetchRecords_QueryParameters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Published", q.Get("view"))
		assert.Equal(t, "{Kind}='Ordinance'", q.Get("filterByFormula"))
		assert.Equal(t, "2", q.Get("maxRecords"))
		writeJSON(w, map[string]any{
			"records": []map[string]any{
				{"id": "rec1", "fields": map[string]any{"Name": "a"}},
				{"id": "rec2", "fields": map[string]any{"Name": "b"}},
			},
			"offset": "more",
		})
	}))
	defer srv.Close()

	records, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{
		MaxRecords: 2,
		View:       "Published",
		Formula:    "{Kind}='Ordinance'",
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestClient_FetchRecords_RetriesTransientErrors(t *testing.T) {
	tests := []struct {
		name    string
		failure func(w http.ResponseWriter)
	}{
		{"server error", func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadGateway) }},
		{"rate limited", func(w http.ResponseWriter) {
			w.Header().Set(HeaderRetryAfter, "0")
			w.WriteHeader(http.StatusTooManyRequests)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if atomic.AddInt32(&calls, 1) == 1 {
					tt.failure(w)
					return
				}
				writeJSON(w, map[string]any{"records": []map[string]any{{"id": "rec1", "fields": map[string]any{}}}})
			}))
			defer srv.Close()

			records, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})
			require.NoError(t, err)
			assert.Len(t, records, 1)
			assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_FetchRecords_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryFetch)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestClient_FetchRecords_ClientErrorsFailFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = fmt.Fprint(w, `{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Authentication required"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.ErrorIs(t, err, domain.ErrRegistryFetch)
	assert.Contains(t, err.Error(), "Authentication required")
}

func TestClient_FetchRecords_StringErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprint(w, `{"error":"NOT_FOUND"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "NOT_FOUND")
}

func TestClient_FetchRecords_InvalidJSONNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = fmt.Fprint(w, `{"records": [`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).FetchRecords(context.Background(), driven.RegistryQuery{})

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_FetchRecords_NoToken(t *testing.T) {
	c := NewClient(testConfig(t, "http://127.0.0.1:1"), auth.NewStaticTokenProvider("registry.token", ""))

	_, err := c.FetchRecords(context.Background(), driven.RegistryQuery{})

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.ErrorIs(t, err, domain.ErrRegistryFetch)
}

func TestClient_FetchRecords_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv).FetchRecords(ctx, driven.RegistryQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_CreateRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Fields map[string]any `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ordinance #60-1990", body.Fields["Name"])
		assert.Equal(t, "_ordinances/1990-Ord-60.md", body.Fields["File"])

		writeJSON(w, map[string]any{"id": "recNEW", "fields": body.Fields})
	}))
	defer srv.Close()

	id, err := newTestClient(t, srv).CreateRecord(context.Background(), map[string]any{
		"Name": "Ordinance #60-1990",
		"File": "_ordinances/1990-Ord-60.md",
	})
	require.NoError(t, err)
	assert.Equal(t, "recNEW", id)
}

func TestClient_CreateRecord_ServerErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateRecord(context.Background(), map[string]any{"Name": "x"})

	assert.ErrorIs(t, err, domain.ErrRegistryWrite)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_CreateRecord_RateLimitedIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set(HeaderRetryAfter, "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, map[string]any{"id": "recOK"})
	}))
	defer srv.Close()

	id, err := newTestClient(t, srv).CreateRecord(context.Background(), map[string]any{"Name": "x"})
	require.NoError(t, err)
	assert.Equal(t, "recOK", id)
}

func TestClient_CreateRecord_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"fields": map[string]any{}})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).CreateRecord(context.Background(), map[string]any{"Name": "x"})

	assert.ErrorIs(t, err, domain.ErrRegistryWrite)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_NewClientWithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, map[string]any{"records": []map[string]any{}})
	}))
	defer srv.Close()

	c := NewClientWithHTTPClient(testConfig(t, srv.URL), srv.Client())
	records, err := c.FetchRecords(context.Background(), driven.RegistryQuery{})

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := ParseConfig(domain.RegistrySettings{
			BaseURL: "https://api.example.com/v0/",
			BaseID:  "app1",
			Table:   "My Table",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/v0/app1/My%20Table", cfg.TableURL())
		assert.Equal(t, "Name", cfg.IdentifierField)
		assert.Equal(t, MaxRetries, cfg.MaxAttempts)
		assert.Equal(t, DefaultTimeout, cfg.Timeout)
	})

	t.Run("missing table", func(t *testing.T) {
		_, err := ParseConfig(domain.RegistrySettings{BaseURL: "https://x", BaseID: "app1"})
		assert.ErrorIs(t, err, domain.ErrNotConfigured)
	})
}
