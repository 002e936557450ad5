package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"example.com/roi-estimator/backend/internal/estimator"
)

type Config struct {
	Env      string
	Server   ServerConfig
	CMS      CMSConfig
	Cache    CacheConfig
	Estimate EstimateConfig
	Webhook  WebhookConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

type CMSConfig struct {
	Provider    string
	Token       string
	BaseURL     string
	SpaceID     string
	Environment string
	Version     string
	Timeout     time.Duration
	PerPage     int
}

type CacheConfig struct {
	Backend       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type EstimateConfig struct {
	Currency           string
	RateLimitPerMinute int
	RateLimitBurst     int
	Factors            estimator.Factors
}

type WebhookConfig struct {
	Secret string
}

// Load загружает конфигурацию приложения из окружения и .env.
func Load() (Config, error) {
	cfg := Config{}

	if err := loadEnv(); err != nil {
		return cfg, err
	}

	cfg.Env = getEnv("APP_ENV", "local")

	serverPort, err := parseIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return cfg, err
	}

	readTimeout, err := parseDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return cfg, err
	}

	writeTimeout, err := parseDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	idleTimeout, err := parseDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return cfg, err
	}

	cfg.Server = ServerConfig{
		Host:         getEnv("SERVER_HOST", "0.0.0.0"),
		Port:         serverPort,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		CORSOrigins:  parseCSVEnv("SERVER_CORS_ORIGINS"),
	}

	cmsTimeout, err := parseDurationEnv("CMS_TIMEOUT", 10*time.Second)
	if err != nil {
		return cfg, err
	}

	cmsPerPage, err := parseIntEnv("CMS_PER_PAGE", 100)
	if err != nil {
		return cfg, err
	}

	cmsProvider := strings.ToLower(getEnv("CMS_PROVIDER", "storyblok"))
	defaultBaseURL := "https://api.storyblok.com"
	if cmsProvider == "contentful" {
		defaultBaseURL = "https://cdn.contentful.com"
	}

	cmsToken := getEnv("CMS_TOKEN", "")
	if cmsToken == "" {
		if cmsProvider == "contentful" {
			cmsToken = getEnv("CONTENTFUL_TOKEN", "")
		} else {
			cmsToken = getEnv("STORYBLOK_TOKEN", "")
		}
	}

	cfg.CMS = CMSConfig{
		Provider:    cmsProvider,
		Token:       cmsToken,
		BaseURL:     getEnv("CMS_BASE_URL", defaultBaseURL),
		SpaceID:     getEnv("CMS_SPACE_ID", ""),
		Environment: getEnv("CMS_ENVIRONMENT", "master"),
		Version:     getEnv("CMS_VERSION", "published"),
		Timeout:     cmsTimeout,
		PerPage:     cmsPerPage,
	}

	redisDB, err := parseNonNegativeIntEnv("REDIS_DB", 0)
	if err != nil {
		return cfg, err
	}

	cacheTTL, err := parseDurationEnv("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return cfg, err
	}

	cfg.Cache = CacheConfig{
		Backend:       strings.ToLower(getEnv("CACHE_BACKEND", "memory")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		TTL:           cacheTTL,
	}

	rateLimitPerMinute, err := parseIntEnv("ESTIMATE_RATE_LIMIT_PER_MINUTE", 60)
	if err != nil {
		return cfg, err
	}

	rateLimitBurst, err := parseIntEnv("ESTIMATE_RATE_LIMIT_BURST", 10)
	if err != nil {
		return cfg, err
	}

	factors, err := loadFactors()
	if err != nil {
		return cfg, err
	}

	cfg.Estimate = EstimateConfig{
		Currency:           strings.ToUpper(getEnv("ESTIMATE_CURRENCY", "EUR")),
		RateLimitPerMinute: rateLimitPerMinute,
		RateLimitBurst:     rateLimitBurst,
		Factors:            factors,
	}

	cfg.Webhook = WebhookConfig{
		Secret: getEnv("WEBHOOK_SECRET", ""),
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// loadFactors читает коэффициенты улучшений, начиная с отраслевых значений по умолчанию.
func loadFactors() (estimator.Factors, error) {
	factors := estimator.DefaultFactors()

	spaceUtilization, err := parseFloatEnv("FACTOR_SPACE_UTILIZATION", factors.SpaceUtilization)
	if err != nil {
		return factors, err
	}

	reactiveReduction, err := parseFloatEnv("FACTOR_REACTIVE_MAINTENANCE_REDUCTION", factors.ReactiveMaintenanceReduction)
	if err != nil {
		return factors, err
	}

	externalOptimization, err := parseFloatEnv("FACTOR_EXTERNAL_MAINTENANCE_OPTIMIZATION", factors.ExternalMaintenanceOptimization)
	if err != nil {
		return factors, err
	}

	manualWorkReduction, err := parseFloatEnv("FACTOR_MANUAL_WORK_REDUCTION", factors.ManualWorkReduction)
	if err != nil {
		return factors, err
	}

	energySaving, err := parseFloatEnv("FACTOR_ENERGY_SAVING", factors.EnergySaving)
	if err != nil {
		return factors, err
	}

	assetLossReduction, err := parseFloatEnv("FACTOR_ASSET_LOSS_REDUCTION", factors.AssetLossReduction)
	if err != nil {
		return factors, err
	}

	factors.SpaceUtilization = spaceUtilization
	factors.ReactiveMaintenanceReduction = reactiveReduction
	factors.ExternalMaintenanceOptimization = externalOptimization
	factors.ManualWorkReduction = manualWorkReduction
	factors.EnergySaving = energySaving
	factors.AssetLossReduction = assetLossReduction

	return factors, nil
}

func (c Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("SERVER_PORT must be greater than 0")
	}

	switch c.CMS.Provider {
	case "storyblok", "contentful":
	default:
		return fmt.Errorf("CMS_PROVIDER must be storyblok or contentful")
	}

	if c.CMS.Provider == "contentful" && c.CMS.SpaceID == "" {
		return fmt.Errorf("CMS_SPACE_ID is required for contentful")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("CACHE_BACKEND must be memory or redis")
	}

	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required for redis cache")
	}

	if c.Estimate.Currency == "" {
		return fmt.Errorf("ESTIMATE_CURRENCY is required")
	}

	if c.Estimate.RateLimitPerMinute <= 0 {
		return fmt.Errorf("ESTIMATE_RATE_LIMIT_PER_MINUTE must be greater than 0")
	}

	if c.Estimate.RateLimitBurst <= 0 {
		return fmt.Errorf("ESTIMATE_RATE_LIMIT_BURST must be greater than 0")
	}

	if violations := estimator.ValidateFactors(c.Estimate.Factors); len(violations) > 0 {
		return fmt.Errorf("improvement factors: %w", violations)
	}

	if c.Webhook.Secret == "" {
		return fmt.Errorf("WEBHOOK_SECRET is required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseNonNegativeIntEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	if parsed < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}

	return parsed, nil
}

func parseFloatEnv(key string, fallback float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return parsed, nil
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}

	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}

	return parsed, nil
}

func parseCSVEnv(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func loadEnv() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}
