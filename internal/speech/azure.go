// Package speech renders narration text to spoken audio: Azure TTS
// synthesis, a two-tier audio cache, and local playback.
package speech

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/riftcast/riftcast/internal/logger"
)

// Synthesizer turns text into WAV bytes. Satisfied by AzureClient;
// split out so the renderer can be tested without credentials.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// AzureOption configures the Azure TTS client.
type AzureOption func(*AzureClient)

// WithHTTPTimeout sets the HTTP client timeout for TTS requests.
func WithHTTPTimeout(d time.Duration) AzureOption {
	return func(c *AzureClient) { c.http.Timeout = d }
}

// AzureClient synthesizes speech via Azure Cognitive Services.
type AzureClient struct {
	key    string
	region string
	voice  string
	http   *http.Client
	log    *logger.Logger
}

// NewAzureClient creates an Azure TTS client.
func NewAzureClient(key, region, voice string, log *logger.Logger, opts ...AzureOption) *AzureClient {
	c := &AzureClient{
		key:    key,
		region: region,
		voice:  voice,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Voice returns the configured voice name.
func (c *AzureClient) Voice() string { return c.voice }

// Synthesize converts text to WAV bytes.
func (c *AzureClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", c.region)
	c.log.Debug("azure tts: synthesizing %d chars with voice %s", len(text), c.voice)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(c.buildSSML(text)))
	if err != nil {
		return nil, fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", audioFormat)
	req.Header.Set("User-Agent", "riftcast/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech: tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech: azure tts error %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read audio: %w", err)
	}
	c.log.Debug("azure tts: got %d bytes of audio", len(audio))
	return audio, nil
}

// buildSSML wraps the text in synthesis markup. Generated lines can
// contain anything, so the text is XML-escaped.
func (c *AzureClient) buildSSML(text string) string {
	var escaped strings.Builder
	xml.EscapeText(&escaped, []byte(text))
	return fmt.Sprintf(
		`<speak version='1.0' xml:lang='en-US'><voice xml:lang='en-US' name='%s'>%s</voice></speak>`,
		c.voice, escaped.String(),
	)
}
