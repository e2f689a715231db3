// ABOUTME: Build and product identification
// ABOUTME: Version and Commit are overridden at link time with -ldflags -X
package version

import "fmt"

const (
	Product      = "U Jokes"
	Manufacturer = "ujokes"
)

var (
	Version = "dev"
	Commit  = "none"
)

// String formats the version for `ujokes version`
func String() string {
	return fmt.Sprintf("%s %s (%s)", Product, Version, Commit)
}
