package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juasmart/juasmart/pkg/types"
)

func testRequest() Request {
	return Request{
		County:           "Nairobi",
		MonthlyKWH:       300,
		SystemType:       types.SystemHybrid,
		GHIKWHM2Day:      5.2,
		TariffCategory:   "Ordinary 2",
		EffectiveRateKSH: 28.0,
		Tariff: types.TariffSchedule{
			Tiers: []types.TariffTier{
				{Name: "Lifeline", MinKWH: 0, MaxKWH: 30, BaseRateKSHPerKWH: 12.23},
			},
			PassThroughKSHPerKWH: 5.5,
			VATRate:              0.16,
		},
		Catalog: types.EquipmentCatalog{
			Inverters: []types.InverterModel{{Brand: "Growatt", Model: "SPF 3000TL", CapacityKW: 3, PriceKSH: 75000}},
		},
		Assumptions: types.Assumptions{
			SystemLossesFraction:      0.15,
			DegradationRatePerYear:    0.008,
			InstallCostPerWattRange:   [2]float64{55, 150},
			GridEmissionFactorTPerMWH: 0.4087,
		},
	}
}

func validRecommendationJSON() string {
	rec := types.Recommendation{
		ExecutiveSummary: "A 3 kW hybrid system for a Nairobi household.",
		Location:         types.LocationAnalysis{County: "Nairobi", GHIKWHM2Day: 5.2},
		Sizing: types.SystemSizing{
			RequiredSystemSizeKW: 3,
			PanelCount:           7,
			PanelWattageW:        450,
			InverterSizeKW:       3.6,
		},
		Financial: types.FinancialFigures{UpfrontCostKSH: 270000, PaybackPeriodYears: 7},
	}
	data, _ := json.Marshal(rec)
	return string(data)
}

func geminiServer(t *testing.T, reply string, check func(r geminiRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if check != nil {
			check(req)
		}

		resp := geminiResponse{}
		resp.Candidates = append(resp.Candidates, struct {
			Content geminiContent `json:"content"`
		}{Content: geminiContent{Parts: []geminiPart{{Text: reply}}}})
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGeminiGenerate(t *testing.T) {
	server := geminiServer(t, validRecommendationJSON(), func(r geminiRequest) {
		require.NotNil(t, r.SystemInstruction)
		system := r.SystemInstruction.Parts[0].Text
		assert.Contains(t, system, "Kenyan solar energy systems expert")
		assert.Contains(t, system, "GHI: 5.2")
		assert.Contains(t, system, "Ordinary 2")
		assert.InDelta(t, 0.1, r.GenerationConfig.Temperature, 0.0001)
		assert.Equal(t, "application/json", r.GenerationConfig.ResponseMimeType)

		user := r.Contents[0].Parts[0].Text
		assert.Contains(t, user, "SPF 3000TL")
	})
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	rec, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 7, rec.Sizing.PanelCount)
}

func TestGeminiGenerateExistingConfigPinned(t *testing.T) {
	server := geminiServer(t, validRecommendationJSON(), func(r geminiRequest) {
		user := r.Contents[0].Parts[0].Text
		assert.Contains(t, user, "CRITICAL INSTRUCTION")
		assert.Contains(t, user, "DO NOT propose a different system size")
		assert.Contains(t, user, `"panel_count": 7`)
	})
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	req := testRequest()
	req.Existing = &types.ExistingConfig{
		SystemKW:      3,
		PanelCount:    7,
		PanelWattageW: 450,
		InverterKW:    3.6,
		SolarCostKSH:  250000,
	}
	_, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
}

func TestGeminiGenerateBadJSON(t *testing.T) {
	server := geminiServer(t, "this is not json", nil)
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	_, err := g.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, types.ErrResponseParse)
}

func TestGeminiGenerateSchemaViolation(t *testing.T) {
	// parses as JSON but misses required fields
	server := geminiServer(t, `{"executive_summary": "hi"}`, nil)
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	_, err := g.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, types.ErrResponseParse)
}

func TestGeminiServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	_, err := g.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, types.ErrRemoteService)
	assert.NotErrorIs(t, err, types.ErrResponseParse)
}

func TestGeminiChat(t *testing.T) {
	server := geminiServer(t, "Panels need cleaning twice a year in dusty areas.", func(r geminiRequest) {
		assert.Contains(t, r.SystemInstruction.Parts[0].Text, "Jua Smart")
		assert.Empty(t, r.GenerationConfig.ResponseMimeType)
		user := r.Contents[0].Parts[0].Text
		assert.True(t, strings.HasPrefix(user, "How often should I clean my panels?"))
		assert.Contains(t, user, "Machakos")
		assert.Contains(t, user, "250 kWh")
	})
	defer server.Close()

	g := NewGemini("test-key", "")
	g.baseURL = server.URL

	answer, err := g.Chat(context.Background(), "How often should I clean my panels?",
		ChatContext{County: "Machakos", MonthlyKWH: 250})
	require.NoError(t, err)
	assert.Contains(t, answer, "cleaning")
}

func TestGeminiChatEmptyMessage(t *testing.T) {
	g := NewGemini("test-key", "")
	_, err := g.Chat(context.Background(), "", ChatContext{})
	assert.Error(t, err)
}

func TestMapProvider(t *testing.T) {
	m := NewMap()

	// no gemini configured
	_, err := m.Provider("")
	assert.Error(t, err)

	m.gemini = NewGemini("key", "")
	g, err := m.Provider("gemini")
	require.NoError(t, err)
	assert.NotNil(t, g)

	_, err = m.Provider("oracle")
	assert.Error(t, err)
}

func TestMapSetGeneratorOverrides(t *testing.T) {
	m := NewMap()
	fake := NewGemini("key", "")
	m.SetGenerator("gemini", fake)

	g, err := m.Provider("gemini")
	require.NoError(t, err)
	assert.Same(t, fake, g)
}

func TestChatContextSuffix(t *testing.T) {
	assert.Empty(t, chatContextSuffix(ChatContext{}))
	assert.Contains(t, chatContextSuffix(ChatContext{County: "Kilifi"}), "Kilifi")
	assert.Contains(t, chatContextSuffix(ChatContext{MonthlyKWH: 100}), "Kenya")
}
