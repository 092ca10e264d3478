package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const elevenLabsAPIURL = "https://api.elevenlabs.io/v1/text-to-speech"

// SpeechClient turns text into audio bytes. A failed synthesis is an
// error here; the alerting path maps failures to empty audio instead of
// blocking the response.
type SpeechClient interface {
	Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error)
}

type elevenLabsClient struct {
	apiKey       string
	baseURL      string
	defaultVoice string
	httpClient   *http.Client
}

func NewElevenLabsClient(apiKey, defaultVoiceID string) SpeechClient {
	if defaultVoiceID == "" {
		defaultVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel
	}
	return &elevenLabsClient{
		apiKey:       apiKey,
		baseURL:      elevenLabsAPIURL,
		defaultVoice: defaultVoiceID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type ttsRequest struct {
	Text          string `json:"text"`
	ModelID       string `json:"model_id"`
	VoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
		Style           float64 `json:"style"`
		UseSpeakerBoost bool    `json:"use_speaker_boost"`
	} `json:"voice_settings"`
}

func (c *elevenLabsClient) Synthesize(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = c.defaultVoice
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, voiceID)

	reqBody := ttsRequest{
		Text:    text,
		ModelID: "eleven_multilingual_v2",
	}
	reqBody.VoiceSettings.Stability = 0.5
	reqBody.VoiceSettings.SimilarityBoost = 0.75
	reqBody.VoiceSettings.UseSpeakerBoost = true

	jsonBody, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("TTS API error: %s - %s", resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}
