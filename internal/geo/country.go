// Package geo resolves IPs to country codes from a local GeoLite2 database.
// The database is optional; without it every lookup degrades to "N/A".
package geo

import (
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"
)

var (
	mu        sync.RWMutex
	countryDB *geoip2.Reader
)

// Open loads the GeoLite2 country database from disk. A missing or broken
// file is logged and tolerated.
func Open(path string) {
	if path == "" {
		return
	}

	db, err := geoip2.Open(path)
	if err != nil {
		log.Warn("GeoLite country database unavailable", "path", path, "error", err)
		return
	}

	mu.Lock()
	if countryDB != nil {
		countryDB.Close()
	}
	countryDB = db
	mu.Unlock()

	log.Debug("GeoLite country database loaded", "path", path)
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	if countryDB != nil {
		countryDB.Close()
		countryDB = nil
	}
}

// CountryCode returns the ISO country code for an IP, or "N/A" when the
// database is absent, the input is not an IP, or the IP is unknown.
func CountryCode(ipAddress string) string {
	mu.RLock()
	db := countryDB
	mu.RUnlock()

	if db == nil {
		return "N/A"
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return "N/A"
	}

	record, err := db.Country(ip)
	if err != nil || record.Country.IsoCode == "" {
		return "N/A"
	}
	return record.Country.IsoCode
}
