package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/threadline/shopapi/pkg/mongo"
)

const salesSummarySystemPrompt = `You are a business analyst for an e-commerce storefront.
Summarize the daily sales data you are given. Focus on:
- Overall revenue and order volume trends
- Notable spikes or slow days
- One or two concrete recommendations
Keep the summary to 2-3 short paragraphs of executive-level language.`

// SalesSummary is the dashboard's optional AI-written report.
type SalesSummary struct {
	Sales       []mongo.DailySales `json:"sales"`
	AIInsights  string             `json:"ai_insights,omitempty"`
	AIEnabled   bool               `json:"ai_enabled"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// GenerateSalesSummary fetches the last n days of sales and, when the AI
// service is configured, asks it for a narrative summary. Raw data is always
// returned; AI failure degrades to data-only.
func GenerateSalesSummary(ctx context.Context, days int) (*SalesSummary, error) {
	sales, err := mongo.GetSalesByDay(ctx, days)
	if err != nil {
		return nil, err
	}

	summary := &SalesSummary{
		Sales:       sales,
		AIEnabled:   IsEnabled(),
		GeneratedAt: time.Now(),
	}

	if IsEnabled() && len(sales) > 0 {
		insights, err := generateCompletion(ctx, salesSummarySystemPrompt, formatSalesPrompt(sales))
		if err == nil {
			summary.AIInsights = insights
		}
	}
	return summary, nil
}

func formatSalesPrompt(sales []mongo.DailySales) string {
	var b strings.Builder
	b.WriteString("Daily sales (day, orders, revenue):\n")
	for _, day := range sales {
		fmt.Fprintf(&b, "%s: %d orders, %.2f revenue\n", day.Day, day.Orders, day.Revenue)
	}
	return b.String()
}
