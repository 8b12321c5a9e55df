package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientListNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/agent/notifications", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]Notification{
			{ID: "n1", Route: RouteIpexOffer, ExchangeRef: "EABC", Read: false},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL, Token: "secret"})
	notes, err := c.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, RouteIpexOffer, notes[0].Route)
}

func TestHTTPClientAuthClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL})
	_, err := c.ListNotifications(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestHTTPClientGenericFailureIsNotAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL})
	_, err := c.ListNotifications(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthExpired)
}

func TestHTTPClientDeleteNotification(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL})
	require.NoError(t, c.DeleteNotification(context.Background(), "n1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/agent/notifications/n1", gotPath)
}

func TestHTTPClientSubmitAgree(t *testing.T) {
	type submitBody struct {
		Message    json.RawMessage `json:"exn"`
		Signatures []string        `json:"sigs"`
		Recipients []string        `json:"recipients"`
	}

	var got submitBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agent/identifiers/wallet/ipex/agree/submit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{Endpoint: srv.URL})
	reply := &AgreeReply{
		Message:    json.RawMessage(`{"r":"/exn/ipex/agree"}`),
		Signatures: []string{"AA.."},
	}
	require.NoError(t, c.SubmitAgree(context.Background(), "wallet", reply, []string{"EISSUER"}))
	assert.Equal(t, []string{"AA.."}, got.Signatures)
	assert.Equal(t, []string{"EISSUER"}, got.Recipients)
}
