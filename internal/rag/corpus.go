package rag

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
)

// SeedCorpus returns the built-in fundamentals knowledge base. The entries
// mix general financial reference material with per-ticker documents so the
// retriever has something useful for any symbol.
func SeedCorpus() []Document {
	return []Document{
		{
			ID: "kb-financial-statements",
			Metadata: map[string]string{
				"ticker":   "GENERAL",
				"doc_type": "financial_concepts",
				"date":     "2024-01-01",
				"source":   "finance_knowledge_base",
				"title":    "Financial Statement Analysis Fundamentals",
			},
			Content: `Financial Statement Analysis Fundamentals

1. Balance Sheet Analysis:
   - Current Ratio: Current Assets / Current Liabilities (ideal: > 1.5)
   - Quick Ratio: (Current Assets - Inventory) / Current Liabilities (ideal: > 1.0)
   - Debt-to-Equity Ratio: Total Debt / Total Equity (ideal: < 0.5 for conservative companies)
   - Working Capital: Current Assets - Current Liabilities (positive is good)

2. Income Statement Analysis:
   - Gross Profit Margin: (Revenue - COGS) / Revenue (higher is better)
   - Operating Margin: Operating Income / Revenue (shows operational efficiency)
   - Net Profit Margin: Net Income / Revenue (overall profitability)
   - Earnings Per Share (EPS): Net Income / Shares Outstanding

3. Cash Flow Statement Analysis:
   - Operating Cash Flow: should be positive and growing
   - Free Cash Flow: Operating Cash Flow - Capital Expenditures
   - Cash Flow from Operations / Net Income: should be > 1.0

4. Key Valuation Metrics:
   - P/E Ratio: Stock Price / EPS (compare to industry average)
   - P/B Ratio: Market Cap / Book Value
   - EV/EBITDA: Enterprise Value / EBITDA (lower may indicate better value)

5. Red Flags:
   - Declining revenue growth, increasing debt, negative free cash flow,
     receivables growing faster than revenue, frequent restatements.`,
		},
		{
			ID: "kb-earnings-quality",
			Metadata: map[string]string{
				"ticker":   "GENERAL",
				"doc_type": "financial_concepts",
				"date":     "2024-01-01",
				"source":   "finance_knowledge_base",
				"title":    "Earnings Quality Indicators",
			},
			Content: `Earnings Quality Indicators

High-quality earnings signs: consistent revenue growth over multiple
quarters, operating cash flow exceeding net income, stable or improving
gross margins, receivables growth in line with revenue, low reliance on
one-time gains.

Warning signs: net income growing while operating cash flow declines,
aggressive revenue recognition, inventory buildup without sales growth,
frequent non-GAAP adjustments, accounting method changes that boost
earnings.

Key ratios: CFO / Net Income consistently > 1.0; stable or decreasing
days sales outstanding; low accruals ratio.`,
		},
		{
			ID: "kb-tech-benchmarks",
			Metadata: map[string]string{
				"ticker":   "GENERAL",
				"doc_type": "sector_analysis",
				"date":     "2024-01-01",
				"source":   "finance_knowledge_base",
				"title":    "Technology Sector Financial Benchmarks",
			},
			Content: `Technology Sector Financial Benchmarks

Software companies: gross margins typically 70-90%, R&D spend 15-25% of
revenue, rule of 40 (revenue growth % + FCF margin %) above 40 considered
healthy for SaaS. Hardware companies: gross margins 30-45%, inventory
turnover critical. Semiconductor companies: highly cyclical; watch book-to-
bill ratios and capex cycles. Cloud infrastructure: capex heavy but
operating leverage improves with scale.`,
		},
		{
			ID: "kb-msft-earnings",
			Metadata: map[string]string{
				"ticker":   "MSFT",
				"doc_type": "earnings",
				"date":     "2024-10-30",
				"source":   "earnings_transcript",
				"title":    "MSFT Q1 FY2025 Earnings Call Summary",
			},
			Content: `Microsoft Q1 FY2025 earnings summary. Revenue $65.6B, up 16%
year-over-year. Intelligent Cloud segment revenue $24.1B with Azure growth
of 33%, of which roughly 12 points attributed to AI services. Productivity
and Business Processes revenue $28.3B, up 12%. Operating income $30.6B.
Management guided continued heavy capital expenditure on AI data center
capacity, with capex expected to increase sequentially. Commercial bookings
grew 30% driven by large Azure commitments.`,
		},
		{
			ID: "kb-msft-filing",
			Metadata: map[string]string{
				"ticker":   "MSFT",
				"doc_type": "sec_filing",
				"date":     "2024-07-30",
				"source":   "sec_filing",
				"title":    "MSFT 10-K FY2024 Highlights",
			},
			Content: `Microsoft 10-K FY2024 highlights. Total revenue $245.1B, up 16%.
Net income $88.1B. Cash and short-term investments of $75.5B against
long-term debt of $42.7B. Risk factors emphasize intense competition in
cloud services, regulatory scrutiny of AI products and acquisitions, and
concentration of data center supply chains. Segment reporting shows Azure
and other cloud services as the primary growth engine, with gaming revenue
reflecting the Activision Blizzard acquisition.`,
		},
		{
			ID: "kb-aapl-earnings",
			Metadata: map[string]string{
				"ticker":   "AAPL",
				"doc_type": "earnings",
				"date":     "2024-11-01",
				"source":   "earnings_transcript",
				"title":    "AAPL Q4 FY2024 Earnings Call Summary",
			},
			Content: `Apple Q4 FY2024 earnings summary. Revenue $94.9B, up 6%
year-over-year, with iPhone revenue of $46.2B. Services revenue reached a
record $25.0B, up 12%, now the key margin driver at roughly 74% gross
margin versus 37% for products. Greater China revenue remained a soft spot.
Management highlighted Apple Intelligence rollout as the catalyst for the
upgrade cycle.`,
		},
		{
			ID: "kb-nvda-earnings",
			Metadata: map[string]string{
				"ticker":   "NVDA",
				"doc_type": "earnings",
				"date":     "2024-11-20",
				"source":   "earnings_transcript",
				"title":    "NVDA Q3 FY2025 Earnings Call Summary",
			},
			Content: `NVIDIA Q3 FY2025 earnings summary. Revenue $35.1B, up 94%
year-over-year, driven by data center revenue of $30.8B. Gross margin 74.6%.
Management noted Blackwell demand exceeding supply for several quarters and
guided Q4 revenue of $37.5B. Key risks: customer concentration among
hyperscalers, export controls on advanced accelerators, and the sheer
scale of forward expectations embedded in the valuation.`,
		},
		{
			ID: "kb-macro-rates",
			Metadata: map[string]string{
				"ticker":   "GENERAL",
				"doc_type": "macro_analysis",
				"date":     "2024-01-01",
				"source":   "finance_knowledge_base",
				"title":    "Interest Rates and Equity Valuation",
			},
			Content: `Interest Rates and Equity Valuation

Higher discount rates compress the present value of long-duration cash
flows, hitting growth stocks hardest. Watch the 10-year treasury yield as
the baseline discount rate. Rate-cut cycles historically favor small caps
and unprofitable growth; rate-hike cycles favor value, energy and
financials. Equity risk premium below 3% relative to treasuries has
historically preceded weak forward returns.`,
		},
	}
}

// Populate embeds the given documents and inserts them into the store in
// order. Used at startup and by the kb seed command.
func Populate(ctx context.Context, store *MemoryStore, embedder embedding.Embedder, docs []Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embed corpus: got %d vectors for %d documents", len(vectors), len(docs))
	}

	for i, doc := range docs {
		if err := store.Insert(doc, vectors[i]); err != nil {
			return fmt.Errorf("insert document %q: %w", doc.ID, err)
		}
	}
	return nil
}
