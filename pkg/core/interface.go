// pkg/core/interface.go
package core

import "context"

// DeviceBridge defines the operations a Builder needs from a connected device
type DeviceBridge interface {
	// Verify checks that the bridge tool works and exactly one compatible
	// device is reachable
	Verify(ctx context.Context) error

	// Push copies the libraries and the binary into the remote working
	// directory and marks the binary executable
	Push(ctx context.Context, libraries []string, binary string) error

	// Run launches the pushed binary and blocks until it exits, returning
	// its exit status
	Run(ctx context.Context) (int, error)

	// Clean removes the remote working directory; absent is not an error
	Clean(ctx context.Context) error
}

// BridgeFactory constructs a fresh DeviceBridge for one deploy or undeploy
type BridgeFactory func(cfg *Config, artifact *Artifact) DeviceBridge
