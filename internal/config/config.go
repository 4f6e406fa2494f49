package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable: strings for identifiers, secrets and
// origins. Optional subsystems (Redis, the message broker) read their
// own variables with defaults and are not represented here.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	MongoURI     string // MongoDB connection string
	MongoDB      string // database name holding the marketplace collections
	ClientOrigin string // client application origin for CORS and redirect URLs
	JWTSecret    string // secret used to verify identity-provider tokens
	StripeSecret string // payment gateway secret key
	StripeAPIURL string // gateway API base URL (override for tests; empty means production)
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),               // environment (dev/test/prod)
		Port:         must("APP_PORT"),              // port to bind the HTTP server
		MongoURI:     must("MONGO_URI"),             // Mongo connection string
		MongoDB:      getenv("MONGO_DB", "booksDB"), // database name
		ClientOrigin: must("CLIENT_ORIGIN"),         // allowed client origin
		JWTSecret:    must("JWT_SECRET"),            // identity token secret
		StripeSecret: must("STRIPE_SECRET_KEY"),     // gateway secret key
		StripeAPIURL: os.Getenv("STRIPE_API_URL"),   // empty selects the production API
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an optional variable or a default.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
