package schedule

import (
	"fmt"
	"strings"
)

// DeepLink returns a provider-specific playback URL for a catalog id,
// or empty string when the provider has no known URL scheme.
func DeepLink(providerName string, catalogID int64) string {
	if providerName == "" {
		return ""
	}
	key := strings.ReplaceAll(strings.ToLower(providerName), " ", "_")
	key = strings.ReplaceAll(key, "+", "")

	switch {
	case strings.Contains(key, "netflix"):
		return fmt.Sprintf("https://www.netflix.com/title/%d", catalogID)
	case strings.Contains(key, "disney"):
		return fmt.Sprintf("https://www.disneyplus.com/video/%d", catalogID)
	case strings.Contains(key, "max"), strings.Contains(key, "hbo"):
		return fmt.Sprintf("https://play.max.com/movie/%d", catalogID)
	case strings.Contains(key, "prime"), strings.Contains(key, "amazon"):
		return fmt.Sprintf("https://www.primevideo.com/detail/%d", catalogID)
	}
	return ""
}
