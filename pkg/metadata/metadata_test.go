package metadata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ninja0404/pumpcurve-sdk/pkg/metadata"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("name"); got != "Example Token" {
			t.Errorf("name = %q", got)
		}
		if got := r.FormValue("symbol"); got != "EXMPL" {
			t.Errorf("symbol = %q", got)
		}
		if got := r.FormValue("twitter"); got != "https://x.com/example" {
			t.Errorf("twitter = %q", got)
		}
		// empty optional fields stay out of the form entirely
		if _, ok := r.MultipartForm.Value["telegram"]; ok {
			t.Error("telegram field present despite being empty")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			file.Close()
			if header.Filename != "logo.png" {
				t.Errorf("filename = %q", header.Filename)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"metadataUri":"https://ipfs.io/ipfs/QmExample"}`))
	}))
	defer srv.Close()

	u := metadata.NewUploader(metadata.WithEndpoint(srv.URL))
	uri, err := u.Upload(context.Background(), metadata.TokenMetadata{
		Name:        "Example Token",
		Symbol:      "EXMPL",
		Description: "an example",
		Twitter:     "https://x.com/example",
		Image:       []byte{0x89, 0x50, 0x4e, 0x47},
		ImageName:   "logo.png",
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if uri != "https://ipfs.io/ipfs/QmExample" {
		t.Fatalf("uri = %q", uri)
	}
}

func TestUploadRejectsMissingName(t *testing.T) {
	u := metadata.NewUploader()
	if _, err := u.Upload(context.Background(), metadata.TokenMetadata{Symbol: "EXMPL"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	u := metadata.NewUploader(metadata.WithEndpoint(srv.URL))
	if _, err := u.Upload(context.Background(), metadata.TokenMetadata{Name: "a", Symbol: "b"}); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestUploadMissingURIInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	u := metadata.NewUploader(metadata.WithEndpoint(srv.URL))
	if _, err := u.Upload(context.Background(), metadata.TokenMetadata{Name: "a", Symbol: "b"}); err == nil {
		t.Fatal("expected error on empty uri")
	}
}
