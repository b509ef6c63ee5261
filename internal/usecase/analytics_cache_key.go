package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// analyticsKeyPattern matches every key produced by analyticsCacheKey.
const analyticsKeyPattern = "analytics:*"

type analyticsCacheKeyInput struct {
	Report    string `json:"report"`
	Specialty string `json:"specialty"`
	Limit     int    `json:"limit"`
}

func normalizeKeyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func analyticsCacheKey(report, specialty string, limit int) string {
	in := analyticsCacheKeyInput{
		Report:    report,
		Specialty: normalizeKeyValue(specialty),
		Limit:     limit,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "analytics:" + report + ":" + hex.EncodeToString(sum[:])
}
