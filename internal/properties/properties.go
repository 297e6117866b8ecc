package properties

import (
	"os"
	"strconv"
)

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}
func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

// Default thresholds for classifying the total NDVI change of a
// reporting window. Domain constants, overridable per deployment.
const (
	DefaultImprovementThreshold = 50.0
	DefaultDeclineThreshold     = -50.0
)

func ImprovementThreshold() float64 {
	return thresholdFromEnv("IMPROVEMENT_THRESHOLD", DefaultImprovementThreshold)
}

func DeclineThreshold() float64 {
	return thresholdFromEnv("DECLINE_THRESHOLD", DefaultDeclineThreshold)
}

func thresholdFromEnv(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
