package nodeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsTravelAsQueryFields(t *testing.T) {
	var gotMethod, gotRequestType, gotRecipient, gotBody, gotClient string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotRequestType = r.URL.Query().Get("requestType")
		gotRecipient = r.URL.Query().Get("recipient")
		gotClient = r.Header.Get("X-Client-Id")
		buf := make([]byte, 16)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/nxt")
	_, err := client.Post(context.Background(), "sendMoney", Params{"recipient": "NXT-AAAA"})
	assert.NoError(t, err)

	assert.Equal(t, "POST", gotMethod)
	assert.Equal(t, "sendMoney", gotRequestType)
	assert.Equal(t, "NXT-AAAA", gotRecipient)
	assert.Equal(t, clientName, gotClient)
	assert.Empty(t, gotBody, "write parameters must not travel in the body")
}

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "getBalance", r.URL.Query().Get("requestType"))
		w.Write([]byte(`{"balanceNQT":"150000000"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/nxt")
	body, err := client.Get(context.Background(), "getBalance", nil)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"balanceNQT":"150000000"}`, string(body))
}

func TestNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "node overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/nxt")
	_, err := client.Get(context.Background(), "getBalance", nil)

	var terr *TransportError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "GET", terr.Verb)
	assert.Equal(t, "getBalance", terr.RequestType)
	assert.Contains(t, terr.Error(), "503")
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL + "/nxt")
	_, err := client.Post(context.Background(), "sendMessage", nil)

	var terr *TransportError
	assert.True(t, errors.As(err, &terr))
	assert.Equal(t, "POST", terr.Verb)
}
