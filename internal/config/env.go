package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Env is the process-level configuration, read from the environment after
// optional .env files are loaded.
type Env struct {
	ConfigDir    string // GALLERY_CONFIG_DIR
	Profile      string // GALLERY_PROFILE
	HTTPAddr     string // GALLERY_HTTP_ADDR
	GRPCAddr     string // GALLERY_GRPC_ADDR
	StartBalance int64  // GALLERY_START_BALANCE; 0 keeps the tuning value
}

// LoadEnv loads the given .env files (".env" when none are named) without
// overriding variables already set, then reads the GALLERY_* variables.
// Missing .env files are ignored.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Env{}, errors.Wrapf(err, "load %s", f)
		}
	}

	env := Env{
		ConfigDir: getenv("GALLERY_CONFIG_DIR", "configs"),
		Profile:   os.Getenv("GALLERY_PROFILE"),
		HTTPAddr:  getenv("GALLERY_HTTP_ADDR", ":8080"),
		GRPCAddr:  getenv("GALLERY_GRPC_ADDR", ":9090"),
	}
	if v := os.Getenv("GALLERY_START_BALANCE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return Env{}, errors.Errorf("GALLERY_START_BALANCE: invalid value %q", v)
		}
		env.StartBalance = n
	}
	return env, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Apply lays the process-level overrides over a tuning.
func (e Env) Apply(s Settings) Settings {
	if e.StartBalance > 0 {
		s.StartBalance = e.StartBalance
	}
	return s
}
