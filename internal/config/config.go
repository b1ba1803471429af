package config

import "os"

type Config struct {
	Port        string
	RedisURL    string
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	c.GroqModel = getenv("GROQ_MODEL", "openai/gpt-oss-20b")
	c.GroqBaseURL = os.Getenv("GROQ_BASE_URL")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
