package calendar

import (
	"strings"
	"sync"
	"time"
)

// sourceZone describes where a currency's economic data is officially
// released: the IANA zone plus the short display name used in output.
type sourceZone struct {
	iana    string
	display string
}

// currencyZones maps currency codes to their canonical release timezone.
// EUR maps to Frankfurt because the ECB releases from there, not to any
// basket average.
var currencyZones = map[string]sourceZone{
	"USD": {"America/New_York", "US/Eastern"},
	"GBP": {"Europe/London", "UK/London"},
	"EUR": {"Europe/Berlin", "EU/Frankfurt"},
	"JPY": {"Asia/Tokyo", "Asia/Tokyo"},
	"AUD": {"Australia/Sydney", "AU/Sydney"},
	"NZD": {"Pacific/Auckland", "NZ/Auckland"},
	"CAD": {"America/Toronto", "CA/Toronto"},
	"CHF": {"Europe/Zurich", "CH/Zurich"},
	"CNY": {"Asia/Shanghai", "CN/Shanghai"},
	"HKD": {"Asia/Hong_Kong", "HK/HongKong"},
	"SGD": {"Asia/Singapore", "SG/Singapore"},
	"SEK": {"Europe/Stockholm", "SE/Stockholm"},
	"NOK": {"Europe/Oslo", "NO/Oslo"},
	"MXN": {"America/Mexico_City", "MX/Mexico"},
	"ZAR": {"Africa/Johannesburg", "ZA/Joburg"},
	"INR": {"Asia/Kolkata", "IN/Mumbai"},
}

var (
	zoneCacheMu sync.Mutex
	zoneCache   = map[string]*time.Location{}
)

// SourceTimezone resolves the release timezone and its display name for
// a currency code. Unmapped currencies, and mapped zones missing from
// the host tzdata, fall back to UTC.
func SourceTimezone(currency string) (*time.Location, string) {
	zone, ok := currencyZones[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return time.UTC, "UTC"
	}

	loc, err := loadLocation(zone.iana)
	if err != nil {
		return time.UTC, "UTC"
	}
	return loc, zone.display
}

func loadLocation(name string) (*time.Location, error) {
	zoneCacheMu.Lock()
	defer zoneCacheMu.Unlock()

	if loc, ok := zoneCache[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	zoneCache[name] = loc
	return loc, nil
}
