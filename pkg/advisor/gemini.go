package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/juasmart/juasmart/pkg/common"
	"github.com/juasmart/juasmart/pkg/types"
)

const (
	defaultGeminiModel = "gemini-1.5-flash"
	defaultGeminiURL   = "https://generativelanguage.googleapis.com"

	// Low temperature keeps the numeric fields close to the deterministic
	// inputs instead of creative.
	geminiTemperature = 0.1
)

// Gemini calls the Google Generative Language REST API.
type Gemini struct {
	hc      *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewGemini returns a client for the given key and model. Exposed for tests;
// production wiring goes through Configured.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		hc:      common.HTTPClient(60 * time.Second),
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiURL,
	}
}

func (g *Gemini) enabled() bool {
	return g.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generate sends one system+user prompt pair and returns the first
// candidate's text.
func (g *Gemini) generate(ctx context.Context, system, user, mimeType string) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: user}}},
		},
	}
	reqBody.GenerationConfig.Temperature = geminiTemperature
	reqBody.GenerationConfig.ResponseMimeType = mimeType

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", types.ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: gemini returned status %d: %s", types.ErrRemoteService, resp.StatusCode, msg)
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("%w: gemini: %v", types.ErrResponseParse, err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", types.ErrResponseParse)
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// Generate implements Generator.
func (g *Gemini) Generate(ctx context.Context, req Request) (types.Recommendation, error) {
	system, err := systemPrompt(req)
	if err != nil {
		return types.Recommendation{}, err
	}
	user, err := userPrompt(req)
	if err != nil {
		return types.Recommendation{}, err
	}

	text, err := g.generate(ctx, system, user, "application/json")
	if err != nil {
		return types.Recommendation{}, err
	}

	var rec types.Recommendation
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return types.Recommendation{}, fmt.Errorf("%w: recommendation JSON: %v", types.ErrResponseParse, err)
	}
	if err := rec.CheckSchema(); err != nil {
		return types.Recommendation{}, err
	}
	return rec, nil
}

// Chat implements Generator.
func (g *Gemini) Chat(ctx context.Context, message string, cc ChatContext) (string, error) {
	if message == "" {
		return "", fmt.Errorf("empty chat message")
	}
	return g.generate(ctx, chatSystemPrompt, message+chatContextSuffix(cc), "")
}
