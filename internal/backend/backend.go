// ABOUTME: Output backend selection for the host player
// ABOUTME: The build tag picks the interrupt DAC or the audio shield block stream
package backend

import (
	"io"

	"github.com/Profoundic/pmf-go/pkg/audio/output"
)

// Backend is the output driver chosen at build time together with the host
// sink that makes it audible.
type Backend struct {
	// Name identifies the backend in logs and metrics
	Name string

	// Driver is handed to the player
	Driver output.Driver

	sink io.Closer
}

// Close releases the host sink
func (b *Backend) Close() error {
	if b.sink == nil {
		return nil
	}
	return b.sink.Close()
}
