// =============================================================================
// Itinerary Processor - Main Entry Point
// =============================================================================
//
// USAGE:
//   itinerary process       - Process every spreadsheet in the input directory
//   itinerary list          - List saved itineraries
//   itinerary show <id>     - Print a saved itinerary
//   itinerary version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parsing, itinerary assembly, storage and export
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/itinerary-processor/cmd"
)

func main() {
	cmd.Execute()
}
