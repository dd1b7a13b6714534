package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetToken("secret-token")

	_, err := client.ListNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListNotifications(context.Background())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`[]`))
		}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListNotifications(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListNotifications(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, "boom", statusErr.Body)
	assert.False(t, IsAuthError(err))
}

func TestListNotificationsParsesTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/notifications", r.URL.Path)
			w.Write([]byte(`[
				{"id":"n1","title":"hello","read":false,
				 "createdAt":"2026-08-30T09:15:00"},
				{"id":"n2","title":"older","read":true,
				 "createdAt":"2026-08-29T18:00:00.123456"}
			]`))
		}))
	defer server.Close()

	client := NewClient(server.URL)
	items, err := client.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "n1", items[0].ID)
	assert.False(t, items[0].Read)
	assert.Equal(t,
		time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC),
		items[0].CreatedAt.Time)
	assert.True(t, items[1].Read)
}

func TestMarkNotificationRead(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.MarkNotificationRead(context.Background(), "n1"))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/notifications/n1/read", gotPath)
}

func TestListLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/locations", r.URL.Path)
			w.Write([]byte(`[{"id":"l1","name":"District 1","city":"Ho Chi Minh City"}]`))
		}))
	defer server.Close()

	client := NewClient(server.URL)
	locations, err := client.ListLocations(context.Background())
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "District 1", locations[0].Name)
}

func TestLoginInstallsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/login", r.URL.Path)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "an@example.com", req["email"])

			json.NewEncoder(w).Encode(map[string]any{
				"token": "fresh-token",
				"user": map[string]string{
					"id":    "u1",
					"email": "an@example.com",
				},
			})
		}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Login(context.Background(), "an@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "fresh-token", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, "fresh-token", client.Token())
}
