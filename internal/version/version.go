// ABOUTME: Version information for the pmf-go player
// ABOUTME: Reported in startup logs and telemetry resources
package version

const (
	// Version is the software version
	Version = "0.3.0"

	// Product is the product name
	Product = "pmf-go player"

	// Manufacturer identifies who built this player
	Manufacturer = "Profoundic"
)
