package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.JWTSecret = "development-secret-do-not-use-in-production"
	cfg.ServerHost = "127.0.0.1"
}

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}

func loadProductionConfig(cfg *Config) {
	cfg.ServerHost = "0.0.0.0"
}

// NewForTest returns a config suitable for package tests: in-memory database
// and a fixed signing secret. Callers set UploadDir to a temp directory.
func NewForTest() *Config {
	cfg := &Config{}
	loadTestConfig(cfg)
	cfg.Environment = "test"
	cfg.UploadRateLimit = 1000
	return cfg
}
