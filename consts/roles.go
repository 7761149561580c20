package consts

// Pipeline stages, in execution order.
const (
	StageAnalysts = "analysts"
	StageDebate   = "debate"
	StageTrading  = "trading"
	StageRisk     = "risk"
	StageJudge    = "judge"
)

// Analyst names. These are the keys of the analyst report map.
const (
	MarketAnalyst       = "market_analyst"
	NewsAnalyst         = "news_analyst"
	SocialMediaAnalyst  = "social_media_analyst"
	FundamentalsAnalyst = "fundamentals_analyst"
)

// Debate roles.
const (
	BullResearcher  = "bull_researcher"
	BearResearcher  = "bear_researcher"
	ResearchManager = "research_manager"
)

// Trading role.
const (
	Trader = "trader"
)

// Risk triage roles, in cyclic speaking order.
const (
	RiskyAnalyst   = "risky_analyst"
	NeutralAnalyst = "neutral_analyst"
	SafeAnalyst    = "safe_analyst"
	RiskJudge      = "risk_judge"
)
