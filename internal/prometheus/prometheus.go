// Package prometheus defines the metrics exported by the first-boot services.
package prometheus

const (
	Namespace = "runtipios"

	PortalSubsystem = "portal"
	StatusSubsystem = "status"
)
