package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/aara-health/aara/internal/agent"
	"github.com/aara-health/aara/internal/api"
	"github.com/aara-health/aara/internal/genai"
	"github.com/aara-health/aara/internal/products"
	"github.com/aara-health/aara/internal/rules"
	"github.com/aara-health/aara/internal/search"
	"github.com/aara-health/aara/internal/tools"
	"github.com/aara-health/aara/internal/util"
	"github.com/joho/godotenv"
	"github.com/openai/openai-go"
)

// Default configuration constants.
const (
	DefaultRulesDir    = "rules"
	DefaultPromptsDir  = "prompts"
	DefaultProductFile = "config/products.yaml"
	DefaultAPIAddr     = ":8080"
)

// Config holds environment configuration.
type Config struct {
	RulesDir       string
	PromptsDir     string
	ProductFile    string
	OpenAIKey      string
	Model          string
	TavilyKey      string
	APIAddr        string
	VerifyDisabled bool
}

func main() {
	initializeLogger()

	config := loadEnvironmentConfig()
	flags := parseCommandLineFlags(config)

	genaiClient, err := genai.NewClient(
		genai.WithAPIKey(*flags.openaiKey),
		genai.WithModel(openai.ChatModel(*flags.model)),
	)
	if err != nil {
		slog.Error("Failed to create GenAI client", "error", err)
		os.Exit(1)
	}

	rulesProvider := rules.NewProvider(*flags.rulesDir)
	triage := rules.NewEngine(rulesProvider)
	templates := agent.NewTemplateStore(*flags.promptsDir)
	catalog := products.LoadCatalog(*flags.productFile)

	registry := tools.NewRegistry()
	registry.Register(tools.NewSkincareTool())
	registry.Register(tools.NewHealthAdviceTool())
	registry.Register(tools.NewSearchTool(search.NewClient(*flags.tavilyKey)))
	registry.Register(tools.NewProductSuggestionTool(catalog))

	orchestrator := agent.NewOrchestrator(
		agent.NewReasoner(genaiClient),
		triage,
		registry,
		agent.NewSynthesizer(genaiClient, templates),
		agent.NewVerifier(genaiClient, templates, *flags.verifyDisabled),
	)

	slog.Info("Bootstrapping Aara with configured modules",
		"rules_dir", *flags.rulesDir,
		"prompts_dir", *flags.promptsDir,
		"product_file", *flags.productFile,
		"api_addr", *flags.apiAddr,
		"verify_disabled", *flags.verifyDisabled)

	server := api.NewServer(*flags.apiAddr, orchestrator, rulesProvider)
	if err := server.Run(); err != nil {
		slog.Error("Aara failed to run", "error", err)
		os.Exit(1)
	}
}

// initializeLogger sets up structured logging. AARA_DEBUG raises the level
// to debug.
func initializeLogger() {
	level := slog.LevelInfo
	if util.ParseBoolEnv("AARA_DEBUG", false) {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and a
// .env file when present.
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	return Config{
		RulesDir:       util.GetenvDefault("AARA_RULES_DIR", DefaultRulesDir),
		PromptsDir:     util.GetenvDefault("AARA_PROMPTS_DIR", DefaultPromptsDir),
		ProductFile:    util.GetenvDefault("AARA_PRODUCT_FILE", DefaultProductFile),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:          util.GetenvDefault("AARA_MODEL", string(openai.ChatModelGPT4o)),
		TavilyKey:      os.Getenv("TAVILY_API_KEY"),
		APIAddr:        util.GetenvDefault("API_ADDR", DefaultAPIAddr),
		VerifyDisabled: util.ParseBoolEnv("AARA_VERIFY_DISABLED", false),
	}
}

// Flags holds command line flag values.
type Flags struct {
	rulesDir       *string
	promptsDir     *string
	productFile    *string
	openaiKey      *string
	model          *string
	tavilyKey      *string
	apiAddr        *string
	verifyDisabled *bool
}

// parseCommandLineFlags defines flags that override environment values.
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		rulesDir:       flag.String("rules-dir", config.RulesDir, "Directory containing the rule documents"),
		promptsDir:     flag.String("prompts-dir", config.PromptsDir, "Directory containing prompt templates"),
		productFile:    flag.String("product-file", config.ProductFile, "Path to the product catalog YAML"),
		openaiKey:      flag.String("openai-key", config.OpenAIKey, "OpenAI API key"),
		model:          flag.String("model", config.Model, "Completion model name"),
		tavilyKey:      flag.String("tavily-key", config.TavilyKey, "Tavily search API key"),
		apiAddr:        flag.String("api-addr", config.APIAddr, "API server listen address"),
		verifyDisabled: flag.Bool("no-verify", config.VerifyDisabled, "Disable the response verifier"),
	}
	flag.Parse()
	return flags
}
