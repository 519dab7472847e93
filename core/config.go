package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		PasswordResetTimeoutDelta time.Duration
	}

	DatabaseConfig struct {
		URI            string
		Name           string
		ConnectTimeout time.Duration
	}

	// ModelConfig locates the artifacts produced by the offline training job.
	ModelConfig struct {
		ClassifierPath string
		EncodersPath   string
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string // DEV (default), TEST, QA, PROD
		Build            string
		AppName          string
		SecretKey        string
		WorkDir          string
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		AdvisoryEmail    mail.Address // recipient of high-risk advisories
		SendgridAPIKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Model    ModelConfig
	}
)

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing precedence).
func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "Anvesha")
	conf.SetDefault("secretKey", "+x0b)t$vh^q5y=d#!u4=5mr8&2=0_dhrn^zu1(51*gu*-y&$pw")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("advisoryEmail", "advisory@localhost")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.debugHost", "localhost:4000")
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("server.passwordResetTimeoutDelta", 3*24*time.Hour)
	conf.SetDefault("database.uri", "mongodb://localhost:27017")
	conf.SetDefault("database.name", "anvesha")
	conf.SetDefault("database.connectTimeout", 10*time.Second)
	conf.SetDefault("model.classifierPath", "assets/model/dropout_risk_model.json")
	conf.SetDefault("model.encodersPath", "assets/model/label_encoders.json")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load config/.env.<env> if it exists
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         env == "TEST",
		Env:              env,
		Build:            conf.GetString("build"),
		AppName:          conf.GetString("appName"),
		SecretKey:        conf.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		AdvisoryEmail:    mail.Address{Address: conf.GetString("advisoryEmail")},
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			Address:                   conf.GetString("server.address"),
			DebugHost:                 conf.GetString("server.debugHost"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
			PasswordResetTimeoutDelta: conf.GetDuration("server.passwordResetTimeoutDelta"),
		},
		Database: DatabaseConfig{
			URI:            conf.GetString("database.uri"),
			Name:           conf.GetString("database.name"),
			ConnectTimeout: conf.GetDuration("database.connectTimeout"),
		},
		Model: ModelConfig{
			ClassifierPath: filepath.Join(wd, conf.GetString("model.classifierPath")),
			EncodersPath:   filepath.Join(wd, conf.GetString("model.encodersPath")),
		},
	}
}
