package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
	"github.com/ginjaninja78/itinerary-processor/internal/xmlwriter"
)

// writeXML renders the itinerary and writes it to outputPath.
func writeXML(it *itinerary.ItineraryData, outputPath string) error {
	doc, err := xmlwriter.Generate(it)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, doc, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// SchemaFileName is the XSD written next to XML exports.
const SchemaFileName = "itinerary.xsd"

// writeSchema writes the XML schema into outputDir unless it is already
// there. It returns the path written, or "" when the file existed.
func writeSchema(outputDir string) (string, error) {
	path := filepath.Join(outputDir, SchemaFileName)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to create schema file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(xmlwriter.GenerateXSD()); err != nil {
		return "", fmt.Errorf("failed to write schema file: %w", err)
	}
	return path, nil
}
