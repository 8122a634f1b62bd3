// Package metadata uploads token metadata to the launchpad's IPFS
// endpoint and returns the URI that the create instruction records
// on-chain.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ninja0404/pumpcurve-sdk/pkg/types"
)

// DefaultEndpoint is the public upload endpoint.
const DefaultEndpoint = "https://pump.fun/api/ipfs"

// TokenMetadata describes the off-chain portion of a token launch.
type TokenMetadata struct {
	Name        string
	Symbol      string
	Description string
	Twitter     string
	Telegram    string
	Website     string

	// Image is the raw image bytes; ImageName carries the filename hint.
	Image     []byte
	ImageName string
}

// Uploader posts token metadata and returns the resulting URI.
type Uploader struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// Option customizes an Uploader.
type Option func(*Uploader)

func WithEndpoint(endpoint string) Option {
	return func(u *Uploader) { u.endpoint = endpoint }
}

func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.http = c }
}

func WithLogger(log zerolog.Logger) Option {
	return func(u *Uploader) { u.log = log }
}

// NewUploader builds an Uploader with production defaults.
func NewUploader(opts ...Option) *Uploader {
	u := &Uploader{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

type uploadResponse struct {
	MetadataURI string `json:"metadataUri"`
}

// Upload posts the metadata and returns the URI to pass to create.
func (u *Uploader) Upload(ctx context.Context, meta TokenMetadata) (string, error) {
	if meta.Name == "" {
		return "", types.NewValidationError("name", "cannot be empty")
	}
	if meta.Symbol == "" {
		return "", types.NewValidationError("symbol", "cannot be empty")
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		"name":        meta.Name,
		"symbol":      meta.Symbol,
		"description": meta.Description,
		"twitter":     meta.Twitter,
		"telegram":    meta.Telegram,
		"website":     meta.Website,
		"showName":    "true",
	}
	for k, v := range fields {
		if v == "" && k != "name" && k != "symbol" && k != "showName" {
			continue
		}
		if err := form.WriteField(k, v); err != nil {
			return "", fmt.Errorf("write form field %s: %w", k, err)
		}
	}

	if len(meta.Image) > 0 {
		name := meta.ImageName
		if name == "" {
			name = "token.png"
		}
		part, err := form.CreateFormFile("file", name)
		if err != nil {
			return "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(meta.Image); err != nil {
			return "", fmt.Errorf("write image: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	res, err := u.http.Do(req)
	if err != nil {
		return "", types.RPCError{Op: "upload metadata", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("upload metadata: status %d: %s", res.StatusCode, payload)
	}

	var out uploadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.MetadataURI == "" {
		return "", fmt.Errorf("upload response missing metadata uri")
	}

	u.log.Debug().
		Str("symbol", meta.Symbol).
		Str("uri", out.MetadataURI).
		Msg("metadata uploaded")

	return out.MetadataURI, nil
}
