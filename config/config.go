package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	AWS      AWSConfig      `mapstructure:"aws"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	S3Bucket string `mapstructure:"s3_bucket"`
}

type FirebaseConfig struct {
	// CredentialsFile is optional; when empty the SDK falls back to
	// application default credentials.
	CredentialsFile string `mapstructure:"credentials_file"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads config.yaml from path with BUMBLECHAT_* env overrides.
func LoadConfig(path string) (*Config, error) {
	viper.Reset()
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BUMBLECHAT")
	viper.AutomaticEnv()

	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("aws.region", "AWS_REGION")
	viper.BindEnv("aws.s3_bucket", "S3_BUCKET_NAME")
	viper.BindEnv("firebase.credentials_file", "GOOGLE_APPLICATION_CREDENTIALS")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("cors.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional, env vars alone are enough to run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
