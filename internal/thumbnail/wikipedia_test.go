package thumbnail_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/msomdec/wikitrail/internal/thumbnail"
)

func TestClient_LookupFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest_v1/page/summary/Go" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Go","thumbnail":{"source":"https://upload.wikimedia.org/go.png","width":320}}`))
	}))
	defer srv.Close()

	client := thumbnail.NewClientWithBaseURL(srv.URL, time.Second)
	url, found := client.Lookup(context.Background(), "Go", "en")
	if !found {
		t.Fatal("expected thumbnail to be found")
	}
	if url != "https://upload.wikimedia.org/go.png" {
		t.Fatalf("unexpected url %s", url)
	}
}

func TestClient_LookupNoThumbnail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Obscure article"}`))
	}))
	defer srv.Close()

	client := thumbnail.NewClientWithBaseURL(srv.URL, time.Second)
	if _, found := client.Lookup(context.Background(), "Obscure article", "en"); found {
		t.Fatal("expected no thumbnail")
	}
}

func TestClient_LookupNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := thumbnail.NewClientWithBaseURL(srv.URL, time.Second)
	if _, found := client.Lookup(context.Background(), "Missing", "en"); found {
		t.Fatal("expected lookup miss on 404")
	}
}

func TestClient_LookupTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	client := thumbnail.NewClientWithBaseURL(srv.URL, 50*time.Millisecond)
	if _, found := client.Lookup(context.Background(), "Slow", "en"); found {
		t.Fatal("expected lookup miss on timeout")
	}
}

func TestClient_LookupServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := thumbnail.NewClientWithBaseURL(srv.URL, time.Second)
	if _, found := client.Lookup(context.Background(), "Down", "en"); found {
		t.Fatal("expected lookup miss when the provider is unreachable")
	}
}
