package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadToS3PresignedURL(t *testing.T) {
	file := []byte("\x89PNG cover bytes")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT string
		var gotMethod string

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := UploadToS3PresignedURL(context.Background(), ts.Client(), ts.URL+"/covers/x?X-Amz-Signature=abc", file, "image/png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "image/png" {
			t.Fatalf("Content-Type = %q, want image/png", gotCT)
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
	})

	t.Run("default content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
		}))
		defer ts.Close()

		if err := UploadToS3PresignedURL(context.Background(), ts.Client(), ts.URL, file, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCT != "application/octet-stream" {
			t.Fatalf("Content-Type = %q", gotCT)
		}
	})

	t.Run("non-200 -> error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer ts.Close()

		err := UploadToS3PresignedURL(context.Background(), ts.Client(), ts.URL, file, "")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") || !strings.Contains(err.Error(), "SignatureDoesNotMatch") {
			t.Fatalf("error = %q, want status and body", err.Error())
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := UploadToS3PresignedURL(context.Background(), http.DefaultClient, ts.URL, file, "")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if strings.Contains(err.Error(), "upload failed") {
			t.Fatalf("got wrong kind of error: %v", err)
		}
	})
}

func TestDoJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"invalid token"}`))
				return
			}
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["v"]})
		case "/empty":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"book not found"}`))
		}
	}))
	defer ts.Close()

	ctx := context.Background()

	var out map[string]string
	if err := DoJSON(ctx, ts.Client(), http.MethodPost, ts.URL+"/ok", "tok", map[string]string{"v": "hi"}, &out); err != nil {
		t.Fatalf("DoJSON error: %v", err)
	}
	if out["echo"] != "hi" {
		t.Fatalf("unexpected out: %v", out)
	}

	if err := DoJSON(ctx, ts.Client(), http.MethodDelete, ts.URL+"/empty", "", nil, &out); err != nil {
		t.Fatalf("DoJSON 204 error: %v", err)
	}

	err := DoJSON(ctx, ts.Client(), http.MethodGet, ts.URL+"/missing", "", nil, &out)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "book not found" {
		t.Fatalf("expected APIError 404, got %v", err)
	}

	err = DoJSON(ctx, ts.Client(), http.MethodPost, ts.URL+"/ok", "", nil, &out)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected APIError 401, got %v", err)
	}
}
