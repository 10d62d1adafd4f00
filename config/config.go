package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/badoux/checkmail"

	"sjsage522/slotwatcher/pkg/errors"
)

const defaultEndpoints = "MA17=https://rdvma17.apps.paris.fr/rdvma17/jsp/site/Portal.jsp?page=appointment&view=getViewAppointmentCalendar&id_form=38," +
	"MA18=https://rdvma18.apps.paris.fr/rdvma18/jsp/site/Portal.jsp?page=appointment&view=getViewAppointmentCalendar&id_form=44"

// Endpoint binds a short label to a booking page URL
type Endpoint struct {
	Label string
	URL   string
}

// Config represents the application configuration
type Config struct {
	// Polling
	Endpoints    []Endpoint
	PollInterval time.Duration
	JitterMin    time.Duration
	JitterMax    time.Duration

	// Fetching
	FetchTimeout   time.Duration
	UserAgent      string
	AcceptLanguage string
	RequestSpacing time.Duration
	RateLimitBlock time.Duration

	// Memcache configuration, empty means in-process cache
	MemcacheAddr string

	// Redis configuration, empty address disables publishing
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Notifications
	DesktopNotify   bool
	SendGridAPIKey  string
	NotifyEmailFrom string
	NotifyEmailTo   string

	// Observability
	MetricsAddr string

	// Run log and viewer
	LogPath     string
	ViewerAddr  string
	ViewerTitle string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		Endpoints:            ParseEndpoints(getEnv("ENDPOINTS", defaultEndpoints)),
		PollInterval:         seconds(getEnv("POLL_INTERVAL_SECONDS", "60"), 60),
		JitterMin:            seconds(getEnv("JITTER_MIN_SECONDS", "-5"), -5),
		JitterMax:            seconds(getEnv("JITTER_MAX_SECONDS", "8"), 8),
		FetchTimeout:         seconds(getEnv("FETCH_TIMEOUT_SECONDS", "20"), 20),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0"),
		AcceptLanguage:       getEnv("ACCEPT_LANGUAGE", "fr-FR,fr;q=0.9"),
		RequestSpacing:       time.Duration(atoi(getEnv("REQUEST_SPACING_MS", "0"), 0)) * time.Millisecond,
		RateLimitBlock:       seconds(getEnv("RATE_LIMIT_BLOCK_SECONDS", "0"), 0),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              atoi(getEnv("REDIS_DB", "0"), 0),
		RedisStream:          getEnv("REDIS_STREAM", "slots"),
		RedisStreamCount:     atoi(getEnv("REDIS_STREAM_COUNT", "1"), 1),
		RedisStreamMaxLength: atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"), 500),
		DesktopNotify:        getEnv("DESKTOP_NOTIFY", "true") == "true",
		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		NotifyEmailFrom:      getEnv("NOTIFY_EMAIL_FROM", "slotwatcher@localhost"),
		NotifyEmailTo:        os.Getenv("NOTIFY_EMAIL_TO"),
		MetricsAddr:          os.Getenv("METRICS_ADDR"),
		LogPath:              getEnv("SLOT_LOG_PATH", "./slots.log"),
		ViewerAddr:           getEnv("VIEWER_ADDR", ":8080"),
		ViewerTitle:          getEnv("VIEWER_TITLE", "Slot Monitoring Logs"),
		Environment:          getEnv("SLOTWATCHER_ENVIRONMENT", "development"),
	}
}

// Validate checks the values the poller cannot run without
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.NewConfiguration("at least one endpoint is required (ENDPOINTS=LABEL=URL,...)", nil)
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		if seen[ep.Label] {
			return errors.NewConfiguration(fmt.Sprintf("duplicate endpoint label %q", ep.Label), nil)
		}
		seen[ep.Label] = true

		u, err := url.Parse(ep.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.NewConfiguration(fmt.Sprintf("endpoint %s has an invalid URL %q", ep.Label, ep.URL), err)
		}
	}
	if c.PollInterval <= 0 {
		return errors.NewConfiguration("POLL_INTERVAL_SECONDS must be positive", nil)
	}
	if c.JitterMin > c.JitterMax {
		return errors.NewConfiguration("JITTER_MIN_SECONDS must not exceed JITTER_MAX_SECONDS", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be positive", nil)
	}
	if c.EmailEnabled() {
		if err := checkmail.ValidateFormat(c.NotifyEmailFrom); err != nil {
			return errors.NewConfiguration("NOTIFY_EMAIL_FROM is not a valid address", err)
		}
		for _, to := range c.EmailRecipients() {
			if err := checkmail.ValidateFormat(to); err != nil {
				return errors.NewConfiguration(fmt.Sprintf("NOTIFY_EMAIL_TO contains an invalid address %q", to), err)
			}
		}
	}
	return nil
}

// EmailEnabled reports whether SendGrid notifications are configured
func (c *Config) EmailEnabled() bool {
	return c.SendGridAPIKey != "" && c.NotifyEmailTo != ""
}

// EmailRecipients splits NOTIFY_EMAIL_TO on commas
func (c *Config) EmailRecipients() []string {
	var out []string
	for _, addr := range strings.Split(c.NotifyEmailTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// Labels returns the endpoint labels in configured order
func (c *Config) Labels() []string {
	labels := make([]string, 0, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		labels = append(labels, ep.Label)
	}
	return labels
}

// ParseEndpoints parses "LABEL=URL,LABEL=URL". Entries without a label or
// URL are skipped. Only the first '=' separates label and URL, URLs keep
// their own query strings.
func ParseEndpoints(raw string) []Endpoint {
	var endpoints []Endpoint
	for _, part := range strings.Split(raw, ",") {
		label, u, ok := strings.Cut(strings.TrimSpace(part), "=")
		label, u = strings.TrimSpace(label), strings.TrimSpace(u)
		if !ok || label == "" || u == "" {
			continue
		}
		endpoints = append(endpoints, Endpoint{Label: label, URL: u})
	}
	return endpoints
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func seconds(s string, fallback int) time.Duration {
	return time.Duration(atoi(s, fallback)) * time.Second
}
