package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEndpointClient_Format(t *testing.T) {
	t.Parallel()

	var got FormatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(FormatResponse{FormattedContent: "<p>Clean.</p>"})
	}))
	defer srv.Close()

	c := NewEndpointClient(srv.URL, srv.Client())
	markup, err := c.Format(context.Background(), "dirty", ToneStory)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if markup != "<p>Clean.</p>" {
		t.Errorf("Format() = %q", markup)
	}
	if got.Content != "dirty" || got.Tone != ToneStory {
		t.Errorf("request = %+v", got)
	}
}

func TestEndpointClient_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"error":"GEMINI_API_KEY not configured"}`)
			},
			wantErr: ErrUpstream,
		},
		{
			name: "missing formattedContent",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `{}`)
			},
			wantErr: ErrEmptyResult,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, `not json`)
			},
			wantErr: ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewEndpointClient(srv.URL, srv.Client()).Format(context.Background(), "x", ToneProfessional)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Format() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEndpointClient_Configuration(t *testing.T) {
	t.Parallel()

	_, err := NewEndpointClient("", nil).Format(context.Background(), "x", ToneProfessional)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Format() error = %v, want ErrConfiguration", err)
	}
}

func TestEndpointClient_Transport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewEndpointClient(url, nil).Format(context.Background(), "x", ToneProfessional)
	if !errors.Is(err, ErrTransport) {
		t.Errorf("Format() error = %v, want ErrTransport", err)
	}
}
