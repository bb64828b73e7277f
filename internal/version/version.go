// ABOUTME: Build version information
// ABOUTME: Product identity reported in request headers and the UI
package version

const (
	// Version is the release version
	Version = "0.3.0"
	// Product is the product name
	Product = "QuickSupport Agent"
	// Manufacturer identifies the publisher
	Manufacturer = "QuickSupport"
)

// UserAgent returns the HTTP User-Agent for outgoing requests
func UserAgent() string {
	return "quicksupport-go/" + Version
}
