package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stagepass/stagepass/cmd"
	"github.com/stagepass/stagepass/config"
	"go.uber.org/zap"
)

var (
	Version   = "?"
	BuildTime = "?"
	GitCommit = "-"
	GitRef    = "-"
)

func main() {
	//version info
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("stagepass %s, built %s from %s (%s)", Version, BuildTime, GitCommit, GitRef)
		return
	}
	logger := bootstrap()
	defer func() {
		_ = logger.Sync()
	}()
	cmd.TopLevelLogger = logger
	cmd.Execute()
}

func bootstrap() *zap.Logger {
	if _, err := os.Stat(".env"); err == nil {
		err := godotenv.Load()
		if err != nil {
			log.Fatal("Error loading .env file")
		}
	}
	cfg := zap.NewProductionConfig()
	if r := os.Getenv("DEBUG_LOG"); r == "true" {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatal(err)
	}
	cobra.OnInitialize(func() { initConfig(logger) })
	return logger
}

func setDefaults() {
	viper.SetDefault("smtp.enable", false)
	viper.SetDefault("behaviour.name", "stagepass")
	viper.SetDefault("behaviour.default-token-expiry", "720h")
	viper.SetDefault("behaviour.validate-rate-limit", 60)
	viper.SetDefault("jwt.exp", "900s")
	viper.SetDefault("storage.root", "data/objects")
	viper.SetDefault("storage.presign-expiry", "15m")
	viper.SetDefault("conversion.enable", false)
}

func initConfig(logger *zap.Logger) {
	bind := func(from string, to string) {
		err := viper.BindEnv(to, from)
		if err != nil {
			logger.Error("unable to bindenv", zap.String("from", from), zap.String(to, to), zap.Error(err))
		}
	}
	setDefaults()
	bind("PORT", "server.port")
	bind("ADDRESS", "server.address")

	bind("SPS_PORT", "server.port")
	bind("SPS_ADDRESS", "server.address")

	bind("SPS_SMTP_ENABLE", "smtp.enable")
	bind("SPS_SMTP_HOST", "smtp.host")
	bind("SPS_SMTP_PORT", "smtp.port")
	bind("SPS_SMTP_USERNAME", "smtp.username")
	bind("SPS_SMTP_PASSWORD", "smtp.password")
	bind("SPS_SMTP_DISPLAYNAME", "smtp.display-name")
	bind("SPS_SMTP_ADDRESS", "smtp.address")

	bind("SPS_DATABASE_TYPE", "database.type")
	bind("SPS_DATABASE_DSN", "database.dsn")

	bind("SPS_FRONTEND_BASE_URL", "frontend.base-url")

	bind("SPS_STORAGE_ROOT", "storage.root")
	bind("SPS_STORAGE_PUBLIC_URL", "storage.public-url")
	bind("SPS_STORAGE_SIGNING_KEY", "storage.signing-key")
	bind("SPS_STORAGE_PRESIGN_EXPIRY", "storage.presign-expiry")

	bind("SPS_CONVERSION_ENABLE", "conversion.enable")
	bind("SPS_CONVERSION_ENDPOINT", "conversion.endpoint")
	bind("SPS_CONVERSION_API_KEY", "conversion.api-key")
	bind("SPS_CONVERSION_WEBHOOK_SECRET", "conversion.webhook-secret")

	bind("SPS_BEHAVIOUR_NAME", "behaviour.name")
	bind("SPS_BEHAVIOUR_DEFAULT_TOKEN_EXPIRY", "behaviour.default-token-expiry")
	bind("SPS_BEHAVIOUR_VALIDATE_RATE_LIMIT", "behaviour.validate-rate-limit")

	bind("SPS_JWT_AUDIENCE", "jwt.aud")
	bind("SPS_JWT_ISSUER", "jwt.iss")
	bind("SPS_JWT_ALG", "jwt.alg")
	bind("SPS_JWT_EXP", "jwt.exp")

	bind("SPS_JWT_HMAC_SIGNING_KEY", "jwt.hmac-signing-key")
	bind("SPS_JWT_HMAC_SIGNING_KEY_FILE", "jwt.hmac-signing-key-file")

	bind("SPS_JWT_RSA_PRIVATE_KEY", "jwt.rsa-private-key")
	bind("SPS_JWT_RSA_PRIVATE_KEY_FILE", "jwt.rsa-private-key-file")

	bind("SPS_JWT_RSA_PUBLIC_KEY", "jwt.rsa-public-key")
	bind("SPS_JWT_RSA_PUBLIC_KEY_FILE", "jwt.rsa-public-key-file")

	bind("SPS_MANAGE_ENDPOINT_CORS_ALLOWED_ORIGINS", "manage-endpoint.cors.allowed-origins")
	bind("SPS_MANAGE_ENDPOINT_CORS_ALLOWED_METHODS", "manage-endpoint.cors.allowed-methods")
	bind("SPS_MANAGE_ENDPOINT_CORS_ALLOW_CREDENTIALS", "manage-endpoint.cors.allow-credentials")

	if cmd.ConfigFileLocation != "" {
		logger.Debug("Using supplied config file", zap.String("file", cmd.ConfigFileLocation))
		viper.SetConfigFile(cmd.ConfigFileLocation)
	} else {
		path, err := os.Getwd()
		if err != nil {
			logger.Warn("Unable to get current working dir", zap.Error(err))
		}
		cobra.CheckErr(err)
		viper.AddConfigPath(path)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		logger.Debug("Looking for default config file")
	}
	//precedence: environment overwrites yml
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Debug("No confg file loaded")
	} else {
		logger.Debug("Config file loaded", zap.String("file", viper.ConfigFileUsed()))
	}

	conf := &config.Configuration{}
	err := viper.Unmarshal(conf)
	if err != nil {
		logger.Fatal("Unable to unmarshall config", zap.Error(err))
	}
	logger.Debug("Config loaded", zap.Any("config", conf))
	logger.Debug("Validating final config")
	if err = conf.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	cmd.LoadedConfig = conf
}
