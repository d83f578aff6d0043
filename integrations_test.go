package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntegrations(srv *httptest.Server) (*Integrations, *[]string, *[]string) {
	var opened, copied []string
	in := &Integrations{
		Client:            srv.Client(),
		PasteBase:         srv.URL,
		StackExchangeBase: srv.URL,
		OpenURL:           func(link string) error { opened = append(opened, link); return nil },
		CopyText:          func(text string) error { copied = append(copied, text); return nil },
	}
	return in, &opened, &copied
}

func TestPostPaste(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents", r.URL.Path)
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_ = json.NewEncoder(w).Encode(map[string]string{"key": "abc123"})
	}))
	defer srv.Close()
	in, _, _ := newTestIntegrations(srv)

	link, err := in.PostPaste(context.Background(), "print('hi')\n")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/abc123", link)
	assert.Equal(t, "print('hi')\n", body)
}

func TestPostPaste_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	in, _, _ := newTestIntegrations(srv)

	_, err := in.PostPaste(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "too busy")
}

func TestPostPaste_EmptyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	in, _, _ := newTestIntegrations(srv)

	_, err := in.PostPaste(context.Background(), "x")
	assert.ErrorContains(t, err, "empty key")
}

func TestSearchStackOverflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "stackoverflow.com", q.Get("site"))
		assert.Equal(t, "votes", q.Get("sort"))
		if q.Get("intitle") == "nothing at all" {
			_, _ = w.Write([]byte(`{"items": []}`))
			return
		}
		assert.Equal(t, "list index out of range", q.Get("intitle"))
		_, _ = w.Write([]byte(`{"items": [{"title": "IndexError", "link": "https://stackoverflow.com/q/1"}, {"link": "https://stackoverflow.com/q/2"}]}`))
	}))
	defer srv.Close()
	in, _, _ := newTestIntegrations(srv)

	link, err := in.SearchStackOverflow(context.Background(), "list index out of range")
	require.NoError(t, err)
	assert.Equal(t, "https://stackoverflow.com/q/1", link)

	_, err = in.SearchStackOverflow(context.Background(), "nothing at all")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchStackOverflow_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()
	in, _, _ := newTestIntegrations(srv)

	_, err := in.SearchStackOverflow(context.Background(), "q")
	assert.ErrorContains(t, err, "decode response")
}

func TestEditor_PostToPaste(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"key": "k"}`))
	}))
	defer srv.Close()
	in, opened, copied := newTestIntegrations(srv)

	e := newTestEditor(t, "x = 1")
	e.integrations = in
	e.postToPaste()

	want := srv.URL + "/k"
	assert.Equal(t, []string{want}, *opened)
	assert.Equal(t, []string{want}, *copied)
	assert.Equal(t, want, e.clipboard)
	assert.Contains(t, e.statusText, want)
}

func TestEditor_AskStackOverflow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("intitle") == "zzz" {
			_, _ = w.Write([]byte(`{"items": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"items": [{"link": "https://stackoverflow.com/q/9"}]}`))
	}))
	defer srv.Close()
	in, opened, _ := newTestIntegrations(srv)

	e := newTestEditor(t, "")
	e.integrations = in

	e.askStackOverflow()
	require.NotNil(t, e.prompt)
	e.prompt.Callback("how to sort a dict")
	assert.Equal(t, []string{"https://stackoverflow.com/q/9"}, *opened)

	e.askStackOverflow()
	e.prompt.Callback("zzz")
	assert.Equal(t, "I couldn't find any related posts to your problem.", e.errorMessage)
	assert.Len(t, *opened, 1)
}
