package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	ResultsDir string `json:"results_dir"`
	DataDir    string `json:"data_dir"`
	RAGOutDir  string `json:"rag_out_dir"`
	RunDBPath  string `json:"run_db_path"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	LLMAPIKey   string `json:"llm_api_key"`
	BackendURL  string `json:"backend_url"`

	EmbedModel   string `json:"embed_model"`
	EmbedAPIKey  string `json:"embed_api_key"`
	EmbedBaseURL string `json:"embed_base_url"`

	MaxDebateRounds int `json:"max_debate_rounds"`
	MaxRiskRounds   int `json:"max_risk_rounds"`
	RAGTopK         int `json:"rag_top_k"`

	FinnhubAPIKey string `json:"finnhub_api_key"`
	OnlineTools   bool   `json:"online_tools"`
	Debug         bool   `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir: currentDir,
		ResultsDir: filepath.Join(currentDir, "results"),
		DataDir:    filepath.Join(currentDir, "data"),
		RAGOutDir:  filepath.Join(currentDir, "rag_outputs", "fundamentals"),
		RunDBPath:  filepath.Join(currentDir, "data", "runs.db"),

		LLMProvider: "deepseek",
		LLMModel:    "deepseek-chat",
		BackendURL:  "https://api.deepseek.com/v1",

		EmbedModel:   "text-embedding-3-small",
		EmbedBaseURL: "https://api.openai.com/v1",

		MaxDebateRounds: 1,
		MaxRiskRounds:   1,
		RAGTopK:         5,

		OnlineTools: true,
		Debug:       false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("RAG_OUT_DIR"); val != "" {
		c.RAGOutDir = val
	}
	if val := os.Getenv("RUN_DB_PATH"); val != "" {
		c.RunDBPath = val
	}
	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("LLM_API_KEY"); val != "" {
		c.LLMAPIKey = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("EMBED_MODEL"); val != "" {
		c.EmbedModel = val
	}
	if val := os.Getenv("EMBED_API_KEY"); val != "" {
		c.EmbedAPIKey = val
	}
	if c.EmbedAPIKey == "" {
		c.EmbedAPIKey = c.LLMAPIKey
	}
	if val := os.Getenv("EMBED_BASE_URL"); val != "" {
		c.EmbedBaseURL = val
	}
	if val := os.Getenv("MAX_DEBATE_ROUNDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxDebateRounds = n
		}
	}
	if val := os.Getenv("MAX_RISK_ROUNDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.MaxRiskRounds = n
		}
	}
	if val := os.Getenv("RAG_TOP_K"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.RAGTopK = n
		}
	}
	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = b
		}
	}
	if val := os.Getenv("DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
		}
	}
}

func (c *Config) Validate() error {
	if c.MaxDebateRounds < 0 {
		return fmt.Errorf("max debate rounds must be >= 0, got %d", c.MaxDebateRounds)
	}
	if c.MaxRiskRounds < 0 {
		return fmt.Errorf("max risk rounds must be >= 0, got %d", c.MaxRiskRounds)
	}
	if c.RAGTopK <= 0 {
		return fmt.Errorf("rag top-k must be > 0, got %d", c.RAGTopK)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ResultsDir, c.DataDir, c.RAGOutDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
