package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// botMarkers are matched as case-insensitive substrings of the User-Agent.
var botMarkers = []string{"bot", "spider", "crawler", "headless", "lighthouse"}

// IsBotUserAgent reports whether a User-Agent looks automated. Bot traffic
// never increments view counts, even when tracking is requested.
func IsBotUserAgent(ua string) bool {
	lower := strings.ToLower(ua)
	for _, marker := range botMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// AnonymizeIP masks the host part of an address (last octet for IPv4, the
// lower 80 bits for IPv6) and hashes the result. Raw addresses are never
// persisted.
func AnonymizeIP(ip string) string {
	masked := maskIP(ip)
	sum := sha256.Sum256([]byte(masked))
	return hex.EncodeToString(sum[:])
}

func maskIP(ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return ""
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(48, 128)).String()
}

func clientIP(c *fiber.Ctx) string {
	return c.IP()
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTimePtr decodes an RFC3339 timestamp; malformed or empty input
// degrades to nil so a bad timestamp never errors a whole payload.
func parseTimePtr(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
