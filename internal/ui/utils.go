package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verdant-watch/ndvi-monitor-poc/internal/properties"
)

// Colors for consistent UI
const (
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorReset  = "\033[0m"
)

// PrintWarning displays a warning message with consistent formatting
func PrintWarning(message string) {
	fmt.Printf("%s\nWarning:%s\n", ColorYellow, ColorReset)
	fmt.Printf("%s%s%s\n", ColorYellow, message, ColorReset)
}

// PrintError displays an error message with consistent formatting
func PrintError(message string) {
	fmt.Printf("\n%sError: %s%s\n", ColorRed, message, ColorReset)
}

// PrintSuccess displays a success message with consistent formatting
func PrintSuccess(message string) {
	fmt.Printf("\n%s%s%s\n", ColorGreen, message, ColorReset)
}

// PrintInfo displays an info message with consistent formatting
func PrintInfo(message string) {
	fmt.Printf("%s%s%s", ColorBlue, message, ColorReset)
}

// ReadString reads a string from stdin with trimming
func ReadString(prompt string) string {
	reader := bufio.NewReader(os.Stdin)
	PrintInfo(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// ReadStringDefault reads a string from stdin, falling back to a
// default when the user just presses enter
func ReadStringDefault(prompt, fallback string) string {
	input := ReadString(fmt.Sprintf("%s [%s]: ", prompt, fallback))
	if input == "" {
		return fallback
	}
	return input
}

// ReadOptionalDate reads a date from stdin, zero when left empty
func ReadOptionalDate(prompt string) (time.Time, error) {
	input := ReadString(prompt)
	if input == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Please use YYYY-MM-DD", input)
	}
	return date, nil
}

// ReadPositiveFloat reads a positive number from stdin
func ReadPositiveFloat(prompt string, fallback float64) (float64, error) {
	input := ReadString(fmt.Sprintf("%s [%v]: ", prompt, fallback))
	if input == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(input, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid number: %s. Please enter a positive number", input)
	}
	return value, nil
}

// ReadRegions reads a comma-separated region filter, empty means all
func ReadRegions(prompt string) []string {
	input := ReadString(prompt)
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	regions := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			regions = append(regions, trimmed)
		}
	}
	return regions
}

// DefaultStorePath is where the CLI looks for the store unless told
// otherwise
func DefaultStorePath() string {
	return properties.RootPath() + "/data/store"
}
