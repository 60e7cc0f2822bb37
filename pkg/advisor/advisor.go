// Package advisor is the LLM boundary: it turns an assessment context into a
// structured solar recommendation and powers the chat assistant.
package advisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/levenlabs/go-lflag"

	"github.com/juasmart/juasmart/pkg/types"
)

// Request carries everything the prompt builder needs for one
// recommendation.
type Request struct {
	County           string
	MonthlyKWH       float64
	SystemType       types.SystemType
	GHIKWHM2Day      float64
	TariffCategory   string
	EffectiveRateKSH float64

	Tariff      types.TariffSchedule
	Catalog     types.EquipmentCatalog
	Assumptions types.Assumptions

	// Existing, when set, pins the deterministic configuration: the model
	// must describe this system, not invent another one.
	Existing *types.ExistingConfig
}

// ChatContext is the optional user context appended to chat questions.
type ChatContext struct {
	County     string
	MonthlyKWH float64
}

// Generator produces recommendations and chat answers.
type Generator interface {
	// Generate returns a schema-checked recommendation for the request.
	Generate(ctx context.Context, req Request) (types.Recommendation, error)

	// Chat answers a free-form question as the solar assistant.
	Chat(ctx context.Context, message string, cc ChatContext) (string, error)
}

// Configured sets up the generator providers and returns a Map.
func Configured() *Map {
	m := NewMap()
	m.gemini = configuredGemini()
	return m
}

// Map manages generator providers.
type Map struct {
	mu         sync.Mutex
	gemini     *Gemini
	generators map[string]Generator
}

// NewMap creates a new generator Map.
func NewMap() *Map {
	return &Map{
		generators: make(map[string]Generator),
	}
}

// Provider returns the named generator, defaulting to gemini.
func (m *Map) Provider(name string) (Generator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		name = "gemini"
	}
	if g, ok := m.generators[name]; ok {
		return g, nil
	}

	switch name {
	case "gemini":
		if m.gemini == nil || !m.gemini.enabled() {
			return nil, fmt.Errorf("gemini provider not configured")
		}
		return m.gemini, nil
	default:
		return nil, fmt.Errorf("unknown generator provider: %s", name)
	}
}

// SetGenerator sets a mock generator for testing.
func (m *Map) SetGenerator(name string, g Generator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generators[name] = g
}

func configuredGemini() *Gemini {
	apiKey := lflag.String("gemini-api-key", "", "Google Gemini API key (empty disables AI features)")
	model := lflag.String("gemini-model", defaultGeminiModel, "Gemini model name")
	baseURL := lflag.String("gemini-url", defaultGeminiURL, "Gemini API base URL")

	g := NewGemini("", "")
	lflag.Do(func() {
		g.apiKey = *apiKey
		g.model = *model
		g.baseURL = *baseURL
	})
	return g
}
