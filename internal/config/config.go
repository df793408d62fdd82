// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cafe-bestellbot/internal/notify"
	"cafe-bestellbot/internal/schedule"
)

// Config aggregates every setting the service needs.
type Config struct {
	Server  ServerConfig
	Cafe    CafeConfig
	Session SessionConfig
	Twilio  notify.TwilioConfig
}

// Load reads all configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	cafe, err := loadCafeConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:  server,
		Cafe:    cafe,
		Session: session,
		Twilio:  loadTwilioConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3000"
	}

	if strings.Contains(port, ":") {
		// Allow ":3000" or "127.0.0.1:3000" directly.
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// CafeConfig describes the café and its pickup rules.
type CafeConfig struct {
	Name        string
	Timezone    string
	OpenDays    map[time.Weekday]bool
	WindowStart schedule.Clock
	WindowEnd   schedule.Clock
	LeadTime    time.Duration
	PayPalLink  string
}

// Policy builds the business-hours policy from the configuration.
func (c CafeConfig) Policy() (schedule.Policy, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return schedule.Policy{}, fmt.Errorf("invalid CAFE_TIMEZONE %q: %w", c.Timezone, err)
	}
	return schedule.Policy{
		Location:    loc,
		OpenDays:    c.OpenDays,
		WindowStart: c.WindowStart,
		WindowEnd:   c.WindowEnd,
		LeadTime:    c.LeadTime,
	}, nil
}

func loadCafeConfig() (CafeConfig, error) {
	openDays, err := parseOpenDays(getEnvOrDefault("OPEN_DAYS", "Mon,Tue,Wed,Thu,Fri,Sat"))
	if err != nil {
		return CafeConfig{}, err
	}

	windowStart, err := schedule.ParseClock(getEnvOrDefault("PICKUP_WINDOW_START", "07:00"))
	if err != nil {
		return CafeConfig{}, fmt.Errorf("invalid PICKUP_WINDOW_START: %w", err)
	}
	windowEnd, err := schedule.ParseClock(getEnvOrDefault("PICKUP_WINDOW_END", "15:00"))
	if err != nil {
		return CafeConfig{}, fmt.Errorf("invalid PICKUP_WINDOW_END: %w", err)
	}

	lead, err := parseMinutesEnv("LEAD_MINUTES", 30)
	if err != nil {
		return CafeConfig{}, err
	}

	return CafeConfig{
		Name:        getEnvOrDefault("CAFE_NAME", "Café Morgenstern"),
		Timezone:    getEnvOrDefault("CAFE_TIMEZONE", "Europe/Berlin"),
		OpenDays:    openDays,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		LeadTime:    lead,
		PayPalLink:  strings.TrimSpace(os.Getenv("PAYPAL_LINK")),
	}, nil
}

// SessionConfig controls the idle-session sweep.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

func loadSessionConfig() (SessionConfig, error) {
	ttl, err := parseMinutesEnv("SESSION_TTL_MINUTES", 60)
	if err != nil {
		return SessionConfig{}, err
	}
	interval, err := parseMinutesEnv("SWEEP_INTERVAL_MINUTES", 5)
	if err != nil {
		return SessionConfig{}, err
	}
	return SessionConfig{TTL: ttl, SweepInterval: interval}, nil
}

func loadTwilioConfig() notify.TwilioConfig {
	return notify.TwilioConfig{
		AccountSID: strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		AuthToken:  strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		From:       strings.TrimSpace(os.Getenv("TWILIO_WHATSAPP_FROM")),
		To:         strings.TrimSpace(os.Getenv("OWNER_WHATSAPP_TO")),
	}
}

var weekdayByName = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

func parseOpenDays(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		day, ok := weekdayByName[name]
		if !ok {
			return nil, fmt.Errorf("invalid OPEN_DAYS entry %q, want Mon..Sun", part)
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("OPEN_DAYS must name at least one weekday")
	}
	return days, nil
}

func parseMinutesEnv(key string, defaultMinutes int) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return time.Duration(defaultMinutes) * time.Minute, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("invalid %s value %q", key, raw)
	}
	return time.Duration(val) * time.Minute, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
