package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-jewel-backoffice/internal/billing"
	"go-jewel-backoffice/internal/database"
	"go-jewel-backoffice/internal/filters"
	"go-jewel-backoffice/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

const modelName = "gemini-2.0-flash-001"

// maxToolRounds bounds how many times the model may call back into the shop data
const maxToolRounds = 4

var ErrUnknownTool = errors.New("unknown tool")

// Tools are read-only views of the shop the assistant may query.
var Tools = []*genai.Tool{
	{
		FunctionDeclarations: []*genai.FunctionDeclaration{
			{
				Name:        "check_inventory",
				Description: "List stocked jewellery items with SKU, category, purity, weight and stock count. Optionally filter by a search word.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"query": {Type: genai.TypeString, Description: "Word to match against SKU, name, category or purity"},
					},
				},
			},
			{
				Name:        "get_sales_report",
				Description: "Get billed revenue, tax and old gold credit for a date range.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
						"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
					},
					Required: []string{"start_date", "end_date"},
				},
			},
			{
				Name:        "get_latest_gold_rate",
				Description: "Get the latest board rate per gram for a gold purity such as 24K, 22K or 18K.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"purity": {Type: genai.TypeString, Description: "Purity, defaults to 22K"},
					},
				},
			},
		},
	},
}

func systemPrompt(userMessage string) string {
	today := time.Now().Format(billing.DateLayout)
	return fmt.Sprintf(`SYSTEM: Today is %s. You are the back office assistant of a jewellery shop.

	RULES:
	1. STOCK: For any question about items, weight, purity or stock, call 'check_inventory' and answer from its JSON.
	2. SALES: For revenue, tax or exchange totals, call 'get_sales_report'. Use YYYY-MM-DD dates.
	3. RATES: For today's gold price, call 'get_latest_gold_rate'.
	4. You cannot change anything. If asked to, say the change must be made in the app.
	Amounts are in rupees.

	USER: %s`, today, userMessage)
}

// RunAgent answers one admin question, letting the model call Tools as needed.
func RunAgent(ctx context.Context, userMessage string, apiKey string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.Tools = Tools

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt(userMessage)))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		calls := functionCalls(resp)
		if len(calls) == 0 {
			break
		}
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result, err := ExecuteTool(call.Name, call.Args)
			if err != nil {
				result = map[string]interface{}{"error": err.Error()}
			}
			parts = append(parts, genai.FunctionResponse{Name: call.Name, Response: result})
		}
		if resp, err = session.SendMessage(ctx, parts...); err != nil {
			return "", err
		}
	}

	return printResponse(resp), nil
}

// ExecuteTool runs one tool call against the database.
func ExecuteTool(name string, args map[string]interface{}) (map[string]interface{}, error) {
	switch name {
	case "check_inventory":
		return checkInventory(stringArg(args, "query"))
	case "get_sales_report":
		return salesReport(stringArg(args, "start_date"), stringArg(args, "end_date"))
	case "get_latest_gold_rate":
		purity := stringArg(args, "purity")
		if purity == "" {
			purity = "22K"
		}
		return latestGoldRate(purity)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

type inventoryRow struct {
	ID       uint    `json:"id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Purity   string  `json:"purity"`
	Weight   float64 `json:"weight"`
	Stock    int     `json:"stock"`
}

func checkInventory(query string) (map[string]interface{}, error) {
	var items []models.Item
	if err := database.DB.Preload("Category").Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	rows := make([]inventoryRow, 0, len(items))
	for _, it := range items {
		cat := ""
		if it.Category != nil {
			cat = it.Category.Name
		}
		if !filters.MatchesText(query, it.SKU, it.Name, cat, it.Purity) {
			continue
		}
		rows = append(rows, inventoryRow{
			ID:       it.ID,
			SKU:      it.SKU,
			Name:     it.Name,
			Category: cat,
			Purity:   it.Purity,
			Weight:   it.Weight,
			Stock:    it.StockQuantity,
		})
	}
	return map[string]interface{}{"inventory": rows, "count": len(rows)}, nil
}

func salesReport(startStr, endStr string) (map[string]interface{}, error) {
	start, err1 := billing.ParseDate(startStr)
	end, err2 := billing.ParseDate(endStr)
	if err1 != nil || err2 != nil {
		return nil, errors.New("dates must be in YYYY-MM-DD format")
	}

	report, err := database.GetSalesReport(start, filters.EndOfDay(end))
	if err != nil {
		return nil, fmt.Errorf("calculating sales: %w", err)
	}
	return map[string]interface{}{
		"revenue":         report.TotalRevenue,
		"tax":             report.TotalTax,
		"exchange_credit": report.ExchangeCredit,
		"bill_count":      report.TotalCount,
	}, nil
}

func latestGoldRate(purity string) (map[string]interface{}, error) {
	rate, err := database.LatestGoldRate(purity)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]interface{}{"purity": purity, "status": "no rate recorded"}, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"purity":         rate.Purity,
		"rate_per_gram":  rate.RatePerGram,
		"effective_date": rate.EffectiveDate.Format(billing.DateLayout),
	}, nil
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var calls []genai.FunctionCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if fc, ok := part.(genai.FunctionCall); ok {
			calls = append(calls, fc)
		}
	}
	return calls
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I could not come up with an answer."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
