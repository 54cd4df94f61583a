package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		// Port the HTTP API listens on
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	}

	// Backend selects where raw property records come from: the local
	// ORM-backed store ("database") or the remote listings API ("api")
	Backend string `env:"PROPERTY_BACKEND" envDefault:"database"`

	Database struct {
		Path string `env:"DB_PATH" envDefault:"database/inmuebles.db"`
	}

	API struct {
		BaseURL string `env:"INMUEBLES_API_BASE_URL" envDefault:"https://vg.g210512.com/api/v1"`
		Key     string `env:"INMUEBLES_API_KEY"`
	}

	Storage struct {
		// Presigning service endpoint; signing is skipped when empty
		SignerEndpoint string `env:"S3_SIGNER_ENDPOINT"`
		Bucket         string `env:"S3_PUBLIC_BUCKET"`

		// Lifetime of generated signed URLs in seconds
		SignExpiry int `env:"S3_SIGN_EXPIRY" envDefault:"3600"`
	}

	Mapbox struct {
		// Access token for tile requests; the map degrades to an
		// unavailable state without one
		Token string `env:"MAPBOX_ACCESS_TOKEN"`
		Style string `env:"MAPBOX_STYLE_ID" envDefault:"alfgow/cmgnbz7aw000u01ry7bnx7rzp"`
	}

	Backfill struct {
		// Maximum number of rows per slug-update batch
		BatchSize int `env:"BACKFILL_BATCH_SIZE" envDefault:"100"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BACKFILL_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BACKFILL_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
