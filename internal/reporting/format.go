package reporting

import "fmt"

// formatEstimate formats an estimate for display with two decimal
// places, matching how the estimates table presents means
func formatEstimate(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
