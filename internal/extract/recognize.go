package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cardfolio/cardfolio/internal/models"
)

// RecognizeTimeout caps a single recognition round trip. Recognition is
// the one remote call with an explicit deadline: the user is waiting on
// the scan screen and a hung recognizer must not hang them with it.
const RecognizeTimeout = 30 * time.Second

// Recognizer sends card images to a text-recognition service and turns
// the recognized text into a card draft.
type Recognizer struct {
	url  string
	http *http.Client
}

// NewRecognizer constructs a Recognizer for the given service URL. hc may
// be nil, in which case http.DefaultClient is used.
func NewRecognizer(url string, hc *http.Client) *Recognizer {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Recognizer{url: url, http: hc}
}

type recognizeResponse struct {
	Text string `json:"text"`
}

// Recognize uploads the image bytes and returns the recognized text.
func (r *Recognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RecognizeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("recognize: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out recognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("recognize: decode response: %w", err)
	}
	return out.Text, nil
}

// ScanFile reads an image from disk, recognizes it and extracts a card
// draft from the text. The draft carries the scanned tag and may be
// missing any field the heuristics could not place.
func (r *Recognizer) ScanFile(ctx context.Context, path string) (models.Card, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return models.Card{}, fmt.Errorf("read image: %w", err)
	}
	text, err := r.Recognize(ctx, image)
	if err != nil {
		return models.Card{}, err
	}
	return Extract(text), nil
}
