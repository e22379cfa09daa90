package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prognocore.com/web/internal/forms"
)

type recorded struct {
	method string
	path   string
	key    string
	ctype  string
	body   map[string]any
}

func newAPI(t *testing.T, status int, calls *int32, last *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if last != nil {
			last.method = r.Method
			last.path = r.URL.Path
			last.key = r.Header.Get(idempotencyHeader)
			last.ctype = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&last.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitContactSuccess(t *testing.T) {
	t.Parallel()

	var calls int32
	var last recorded
	srv := newAPI(t, http.StatusOK, &calls, &last)
	c := NewClient(srv.URL + "/")

	status := c.Submit(context.Background(), EndpointContact, forms.Contact{
		Name: "Ada", Email: "ada@example.com", Company: "", Reason: forms.ReasonGeneral, Message: "hi",
	})
	require.Equal(t, forms.Success, status)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls))
	require.Equal(t, http.MethodPost, last.method)
	require.Equal(t, "/api/contact", last.path)
	require.Contains(t, last.ctype, "application/json")
	require.NotEmpty(t, last.key)
	require.Equal(t, map[string]any{
		"name": "Ada", "email": "ada@example.com", "company": "", "reason": "general-inquiry", "message": "hi",
	}, last.body)
}

func TestSubmitNewsletterBody(t *testing.T) {
	t.Parallel()

	var calls int32
	var last recorded
	srv := newAPI(t, http.StatusCreated, &calls, &last)
	status := NewClient(srv.URL).Submit(context.Background(), EndpointNewsletter, forms.Newsletter{Email: "a@b.co"})
	require.Equal(t, forms.Success, status)
	require.Equal(t, "/api/newsletter", last.path)
	require.Equal(t, map[string]any{"email": "a@b.co"}, last.body)
}

func TestSubmitNon2xxFailsWithoutRetry(t *testing.T) {
	t.Parallel()

	for _, code := range []int{http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		var calls int32
		srv := newAPI(t, code, &calls, nil)
		c := NewClient(srv.URL)
		require.Equal(t, forms.Failure, c.Submit(context.Background(), EndpointNewsletter, forms.Newsletter{Email: "a@b.co"}), code)
		require.EqualValues(t, 1, atomic.LoadInt32(&calls), "code %d must be attempted exactly once", code)

		err := c.Send(context.Background(), EndpointNewsletter, forms.Newsletter{Email: "a@b.co"})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, code, se.Code)
	}
}

func TestSubmitTransportErrorFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	require.Equal(t, forms.Failure, NewClient(url).Submit(context.Background(), EndpointContact, forms.Contact{}))
}

func TestSubmitTimeoutFails(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := NewClient(srv.URL, WithTimeout(50*time.Millisecond))
	require.Equal(t, forms.Failure, c.Submit(context.Background(), EndpointContact, forms.Contact{}))
}

func TestSubmitCancelledContextFails(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := newAPI(t, http.StatusOK, &calls, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, forms.Failure, NewClient(srv.URL).Submit(ctx, EndpointContact, forms.Contact{}))
}

func TestEmptyBaseURLFails(t *testing.T) {
	t.Parallel()

	c := NewClient("  ")
	require.Equal(t, forms.Failure, c.Submit(context.Background(), EndpointContact, forms.Contact{}))
	require.ErrorIs(t, c.Ping(context.Background()), ErrNoBaseURL)
}

func TestPing(t *testing.T) {
	t.Parallel()

	var calls int32
	var last recorded
	srv := newAPI(t, http.StatusOK, &calls, &last)
	require.NoError(t, NewClient(srv.URL).Ping(context.Background()))
	require.Equal(t, http.MethodGet, last.method)
	require.Equal(t, "/api/", last.path)

	down := newAPI(t, http.StatusBadGateway, &calls, nil)
	require.Error(t, NewClient(down.URL).Ping(context.Background()))
}
