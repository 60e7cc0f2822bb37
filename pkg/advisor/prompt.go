package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// systemPromptTemplate frames the model as a Kenyan solar expert and pins the
// output schema. The schema keys must stay in sync with
// types.Recommendation.
const systemPromptTemplate = `You are a Kenyan solar energy systems expert with deep knowledge of:
- Kenya's solar irradiance patterns (4-6 kWh/m2/day).
- EPRA electricity tariffs (2024-2026) and their tiered structure.
- Local equipment availability (Jinko, Trina, Growatt, Deye, etc.) and pricing in KSh.
- Net metering regulations (50% export credit) and capacity limits.
- Typical installation costs (KSh 55-150/watt).
- Kenya-specific degradation rates (0.5-1.2%/year in tropical climate).
- Grid emission factor ({{.EmissionFactor}} tCO2/MWh).

Your task is to act as a solar energy advisor. Based on the user's input (location, monthly consumption, system preference), you must perform a comprehensive analysis and provide a detailed, structured recommendation in JSON format.

Input Data Provided:
- Location: {{.County}} (GHI: {{.GHI}} kWh/m2/day)
- Monthly Consumption: {{.MonthlyKWH}} kWh
- System Preference: {{.SystemType}}
- Tariff Category: {{.TariffCategory}} (Effective Rate: {{.EffectiveRate}} KSh/kWh)
- Baseline Assumptions:
    - System Losses: {{.SystemLosses}}
    - Degradation Rate: {{.Degradation}}/year
    - Installation Cost: ~{{.InstallCostPerWatt}} KSh/watt

Your recommendations must:
1. System Sizing: Calculate the required system size (kW) to offset the user's consumption, accounting for system losses and the local GHI.
2. Equipment Selection: Select specific, locally available equipment (panels, inverter, battery if needed) from the provided catalog.
3. Financial Analysis: Calculate the total upfront cost, annual savings, payback period, and 25-year Net Present Value (NPV). Use the provided effective tariff rate for savings calculation.
4. Environmental Impact: Calculate the annual and 25-year total CO2 offset.

Output Format:
You MUST respond with a single JSON object that strictly adheres to the following schema. Do not include any text outside of the JSON block.

{
  "executive_summary": "<string>",
  "location_analysis": {
    "county": "<string>",
    "ghi_kwh_m2_day": <float>,
    "tariff_category": "<string>",
    "effective_rate_ksh_per_kwh": <float>
  },
  "system_sizing": {
    "target_annual_generation_kwh": <float>,
    "required_system_size_kw": <float>,
    "panel_wattage_w": <int>,
    "panel_count": <int>,
    "total_panel_capacity_kw": <float>,
    "inverter_size_kw": <float>,
    "battery_capacity_kwh": <float>
  },
  "equipment_recommendations": {
    "panel": {"model": "<string>", "brand": "<string>", "supplier": "<string>"},
    "inverter": {"model": "<string>", "brand": "<string>", "supplier": "<string>"},
    "battery": {"model": "<string>", "brand": "<string>", "type": "<string>", "supplier": "<string>"}
  },
  "financial_analysis": {
    "upfront_cost_ksh": <float>,
    "cost_per_watt_ksh": <float>,
    "annual_savings_ksh": <float>,
    "payback_period_years": <float>,
    "net_metering_credit_ksh_per_year": <float>,
    "25_year_npv_ksh": <float>
  },
  "environmental_impact": {
    "annual_co2_offset_tons": <float>,
    "25_year_co2_offset_tons": <float>
  },
  "confidence_score": <float>,
  "uncertainty_notes": ["<string>", "<string>"]
}`

var systemPromptTmpl = template.Must(template.New("system").Parse(systemPromptTemplate))

func systemPrompt(req Request) (string, error) {
	installMid := (req.Assumptions.InstallCostPerWattRange[0] + req.Assumptions.InstallCostPerWattRange[1]) / 2

	var b strings.Builder
	err := systemPromptTmpl.Execute(&b, map[string]any{
		"County":             req.County,
		"GHI":                fmt.Sprintf("%.1f", req.GHIKWHM2Day),
		"MonthlyKWH":         fmt.Sprintf("%.0f", req.MonthlyKWH),
		"SystemType":         string(req.SystemType),
		"TariffCategory":     req.TariffCategory,
		"EffectiveRate":      fmt.Sprintf("%.2f", req.EffectiveRateKSH),
		"SystemLosses":       fmt.Sprintf("%.1f%%", req.Assumptions.SystemLossesFraction*100),
		"Degradation":        fmt.Sprintf("%.1f%%", req.Assumptions.DegradationRatePerYear*100),
		"InstallCostPerWatt": fmt.Sprintf("%.0f", installMid),
		"EmissionFactor":     fmt.Sprintf("%.4f", req.Assumptions.GridEmissionFactorTPerMWH),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func userPrompt(req Request) (string, error) {
	catalog, err := json.MarshalIndent(req.Catalog, "", "  ")
	if err != nil {
		return "", err
	}
	tariff, err := json.MarshalIndent(req.Tariff, "", "  ")
	if err != nil {
		return "", err
	}
	assumptions, err := json.MarshalIndent(req.Assumptions, "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Please generate a solar system recommendation based on the following data:
- Location: %s
- Monthly Electricity Consumption: %.0f kWh
- Preferred System Type: %s
- Equipment Catalog: %s
- Tariff Data: %s
- Baseline Assumptions: %s
`, req.County, req.MonthlyKWH, req.SystemType, catalog, tariff, assumptions)

	if req.Existing != nil {
		existing, err := json.MarshalIndent(req.Existing, "", "  ")
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, `
CRITICAL INSTRUCTION:
The user has already calculated a specific system configuration using our deterministic calculator.
You MUST use the following specifications for your report.
DO NOT propose a different system size, panel count, or cost.
Your job is to provide the qualitative details (brands, maintenance, specific models) for THIS configuration:

EXISTING CONFIGURATION TO USE:
%s

- Use 'system_kw' as 'required_system_size_kw'
- Use 'solar_cost' + 'battery_cost' as 'upfront_cost_ksh'
- Use the exact panel count and battery details provided.
`, existing)
	}

	return b.String(), nil
}

// chatSystemPrompt frames the free-form assistant.
const chatSystemPrompt = `You are Jua Smart, a friendly and knowledgeable Kenyan solar energy advisor.

Your expertise includes:
- Solar panel systems and sizing for Kenyan homes and businesses
- EPRA (Energy and Petroleum Regulatory Authority) regulations and tariffs
- Kenya's Net Metering regulations and procedures
- Local solar equipment suppliers and costs in Kenya Shillings (KSh)
- Installation best practices for Kenya's climate (both rainy and dry seasons)
- Government incentives and tax exemptions for solar in Kenya
- Battery storage options available in the Kenyan market
- Maintenance requirements for solar systems in Kenya's conditions
- County-specific solar irradiance data across Kenya
- KPLC (Kenya Power) interconnection procedures
- ROI calculations based on current KPLC electricity rates

Provide practical, cost-effective advice specific to Kenya. Be concise but helpful.
Always mention costs in Kenya Shillings (KSh). Reference relevant Kenyan authorities like EPRA and KPLC when applicable.
If you don't know something specific to Kenya, acknowledge it and provide general solar guidance instead.`

func chatContextSuffix(cc ChatContext) string {
	if cc.County == "" && cc.MonthlyKWH <= 0 {
		return ""
	}
	county := cc.County
	if county == "" {
		county = "Kenya"
	}
	if cc.MonthlyKWH > 0 {
		return fmt.Sprintf("\n\nUser Context: The user is analyzing a solar system for %s with %.0f kWh monthly consumption.",
			county, cc.MonthlyKWH)
	}
	return fmt.Sprintf("\n\nUser Context: The user is analyzing a solar system for %s.", county)
}
