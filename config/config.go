// config/config.go
package config

import (
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"` // e.g., "24h"
}

type SignerConfig struct {
	TokenPIN string `mapstructure:"tokenPIN"` // PIN del token simulado
	// Identidades de certificador sembradas en el token al arrancar.
	SeedCertifiers []SeedCertifier `mapstructure:"seedCertifiers"`
}

type SeedCertifier struct {
	Name string `mapstructure:"name"`
	RUT  string `mapstructure:"rut"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type RateLimitConfig struct {
	LoginPerMinute    int `mapstructure:"loginPerMinute"`
	DocumentPerMinute int `mapstructure:"documentPerMinute"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Signer    SignerConfig    `mapstructure:"signer"`
	S3        S3Config        `mapstructure:"s3"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// LoadConfig reads config.yaml from path and lets environment variables
// override individual keys.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("signer.tokenPIN", "SIGNER_TOKEN_PIN")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("ratelimit.loginPerMinute", "RATELIMIT_LOGIN_PER_MINUTE")
	viper.BindEnv("ratelimit.documentPerMinute", "RATELIMIT_DOCUMENT_PER_MINUTE")

	// If the file is missing, Viper falls back to environment variables only.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	// Defaults sensatos para desarrollo.
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.JWT.Expiration == "" {
		config.JWT.Expiration = "24h"
	}
	if config.Signer.TokenPIN == "" {
		config.Signer.TokenPIN = "1234"
	}
	if config.RateLimit.LoginPerMinute == 0 {
		config.RateLimit.LoginPerMinute = 10
	}
	if config.RateLimit.DocumentPerMinute == 0 {
		config.RateLimit.DocumentPerMinute = 30
	}

	return
}
