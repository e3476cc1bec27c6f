// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/md-assets/pkg/types"
)

func TestNewAssetRequest_Headers(t *testing.T) {
	var gotUA, gotCookie string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	cfg := types.LocalizeConfig{SessionToken: "tok123"}
	req, err := NewAssetRequest(context.Background(), ts.URL, cfg)
	require.NoError(t, err)

	resp, err := NewClient(types.HTTPConfig{Timeout: 5 * time.Second}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, types.DefaultUserAgent, gotUA)
	assert.Equal(t, "user_session=tok123; logged_in=yes", gotCookie)
}

func TestNewAssetRequest_NoTokenNoCookie(t *testing.T) {
	cfg := types.LocalizeConfig{HTTPConfig: types.HTTPConfig{UserAgent: "custom/1.0"}}
	req, err := NewAssetRequest(context.Background(), "https://github.com/x", cfg)
	require.NoError(t, err)

	assert.Empty(t, req.Header.Get("Cookie"))
	assert.Equal(t, "custom/1.0", req.Header.Get("User-Agent"))
}

func TestNewAssetRequest_BadURL(t *testing.T) {
	_, err := NewAssetRequest(context.Background(), "://bad", types.LocalizeConfig{})
	assert.Error(t, err)
}

func TestNewClient_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final.jpg", http.StatusFound)
	})
	mux.HandleFunc("/final.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := NewClient(types.HTTPConfig{}).Get(ts.URL + "/start")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/final.jpg", resp.Request.URL.Path)
}
