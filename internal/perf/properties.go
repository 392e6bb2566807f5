package perf

import (
	"fmt"
	"strings"
	"time"

	"github.com/magiconair/properties"
)

// Property keys read outside the Kafka client settings
const (
	PropDriver = "perf.driver"

	DriverKafka = "kafka"
	DriverMQTT  = "mqtt"
	DriverRedis = "redis"
)

// LoadProperties reads a Java-style producer.config file
func LoadProperties(path string) (*properties.Properties, error) {
	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to load producer config %s: %w", path, err)
	}
	return p, nil
}

// driverOf returns the normalized sink driver, kafka when unset
func driverOf(p *properties.Properties) string {
	d := strings.ToLower(strings.TrimSpace(p.GetString(PropDriver, DriverKafka)))
	if d == "" {
		return DriverKafka
	}
	return d
}

// getMillis reads a millisecond property as a duration
func getMillis(p *properties.Properties, key string, def time.Duration) time.Duration {
	ms := p.GetInt(key, int(def/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// getList reads a comma separated property, trimming blanks
func getList(p *properties.Properties, key, def string) []string {
	var out []string
	for _, s := range strings.Split(p.GetString(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
