// =============================================================================
// Itinerary Processor - XML Writer Module
// =============================================================================
//
// This module renders a processed itinerary as an XML document. It is a
// read-only consumer of the aggregate: it never changes days, items or meals.
//
// XML STRUCTURE:
//
//   <itinerary title="European Vacation" days="2" items="3">
//     <day key="1" n="1" city="Paris" date="2025-05-01"
//          displayDate="Thu, May 1, 2025" duration="3.5 hours" meals="Lunch">
//       <item n="1" timing="09:00" displayTime="09:00" category="Sightseeing"
//             icon="camera">Eiffel Tower visit</item>
//       <item n="2" timing="12:30" ...>Lunch at Café</item>
//     </day>
//     <day key="2" n="2" city="Rome" ...>
//       <item n="3" ...>Colosseum</item>          <!-- global numbering -->
//     </day>
//   </itinerary>
//
// Days appear in display order (numeric day keys first, then lexical).
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"

	"github.com/ginjaninja78/itinerary-processor/internal/format"
	"github.com/ginjaninja78/itinerary-processor/internal/itinerary"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// Encoding is the encoding for the XML declaration.
	// Default: "UTF-8"
	Encoding string

	// RootAttributes are additional attributes for the root element.
	// Example: {"xmlns": "http://example.com/itinerary"}
	RootAttributes map[string]string

	// ItemNumberingGlobal numbers items 1, 2, 3... across all days.
	// If false, numbering restarts at 1 for each day.
	// Default: true
	ItemNumberingGlobal bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		Encoding:              "UTF-8",
		RootAttributes:        make(map[string]string),
		ItemNumberingGlobal:   true,
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders an itinerary with the default options.
func Generate(it *itinerary.ItineraryData) ([]byte, error) {
	return GenerateWithOptions(it, DefaultGenerateOptions())
}

// GenerateWithOptions renders an itinerary as XML.
//
// GENERATION PROCESS:
//   1. Create the root element with the title and totals
//   2. For each day in display order, add a day element with its derived
//      facts (formatted date, duration, meals)
//   3. For each item, add an item element with its display time and icon
//   4. Write the tree with indentation
func GenerateWithOptions(it *itinerary.ItineraryData, options GenerateOptions) ([]byte, error) {
	if it == nil {
		return nil, fmt.Errorf("failed to generate XML: no itinerary")
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		encoding := options.Encoding
		if encoding == "" {
			encoding = "UTF-8"
		}
		fmt.Fprintf(&buffer, "<?xml version=\"1.0\" encoding=\"%s\"?>\n", encoding)
	}

	if err := writeElement(&buffer, buildDocument(it, options), options.Indent, 0); err != nil {
		return nil, fmt.Errorf("failed to write XML: %w", err)
	}

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// Element is a generic XML element.
type Element struct {
	Name       string
	Attributes []xml.Attr
	Value      string
	Children   []Element
}

// attr is shorthand for a plain attribute.
func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// buildDocument constructs the element tree.
func buildDocument(it *itinerary.ItineraryData, options GenerateOptions) Element {
	root := Element{
		Name: "itinerary",
		Attributes: []xml.Attr{
			attr("title", it.Title),
			attr("days", strconv.Itoa(len(it.Days))),
			attr("items", strconv.Itoa(it.ItemCount())),
		},
	}

	// Root attributes are sorted so output is stable.
	keys := make([]string, 0, len(options.RootAttributes))
	for k := range options.RootAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		root.Attributes = append(root.Attributes, attr(k, options.RootAttributes[k]))
	}

	itemIndex := 1
	for n, day := range it.OrderedDays() {
		root.Children = append(root.Children, buildDayElement(day, n+1, options, &itemIndex))
	}

	return root
}

// buildDayElement constructs a day element.
//
// STRUCTURE:
//   <day key="1" n="1" city="Paris" date="..." displayDate="..." duration="..." meals="...">
//     <item .../>
//   </day>
func buildDayElement(day *itinerary.DayData, n int, options GenerateOptions, itemIndex *int) Element {
	element := Element{
		Name: "day",
		Attributes: []xml.Attr{
			attr("key", day.Day),
			attr("n", strconv.Itoa(n)),
			attr("city", day.City),
			attr("date", day.Date),
			attr("displayDate", format.FormatDate(day.Date)),
			attr("duration", day.Duration()),
			attr("meals", format.FormatMeals(day.AllMeals.List())),
		},
	}

	if !options.ItemNumberingGlobal {
		*itemIndex = 1
	}

	for _, item := range day.Items {
		element.Children = append(element.Children, Element{
			Name: "item",
			Attributes: []xml.Attr{
				attr("n", strconv.Itoa(*itemIndex)),
				attr("timing", item.Timing),
				attr("displayTime", format.FormatTime(item.Timing)),
				attr("category", item.Category),
				attr("icon", string(format.CategoryIcon(item.Category))),
			},
			Value: item.Description,
		})
		(*itemIndex)++
	}

	return element
}

// =============================================================================
// XML WRITING
// =============================================================================

// writeElement writes an element and its children with indentation.
// Elements without value or children are self-closing.
func writeElement(buffer *bytes.Buffer, element Element, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(element.Name)

	for _, a := range element.Attributes {
		fmt.Fprintf(buffer, " %s=\"", a.Name.Local)
		if err := xml.EscapeText(buffer, []byte(a.Value)); err != nil {
			return err
		}
		buffer.WriteString("\"")
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return nil
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		if err := xml.EscapeText(buffer, []byte(element.Value)); err != nil {
			return err
		}
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</")
	buffer.WriteString(element.Name)
	buffer.WriteString(">\n")
	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD returns an XSD describing the documents Generate produces.
func GenerateXSD() []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="itinerary">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="day" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="title" type="xs:string" use="required"/>
      <xs:attribute name="days" type="xs:nonNegativeInteger" use="required"/>
      <xs:attribute name="items" type="xs:nonNegativeInteger" use="required"/>
      <xs:anyAttribute processContents="lax"/>
    </xs:complexType>
  </xs:element>

  <xs:element name="day">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="item" minOccurs="1" maxOccurs="unbounded"/>
      </xs:sequence>
      <xs:attribute name="key" type="xs:string" use="required"/>
      <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
      <xs:attribute name="city" type="xs:string" use="required"/>
      <xs:attribute name="date" type="xs:string" use="required"/>
      <xs:attribute name="displayDate" type="xs:string" use="required"/>
      <xs:attribute name="duration" type="xs:string" use="required"/>
      <xs:attribute name="meals" type="xs:string" use="required"/>
    </xs:complexType>
  </xs:element>

  <xs:element name="item">
    <xs:complexType>
      <xs:simpleContent>
        <xs:extension base="xs:string">
          <xs:attribute name="n" type="xs:positiveInteger" use="required"/>
          <xs:attribute name="timing" type="xs:string" use="required"/>
          <xs:attribute name="displayTime" type="xs:string" use="required"/>
          <xs:attribute name="category" type="xs:string" use="required"/>
          <xs:attribute name="icon" type="xs:string" use="required"/>
        </xs:extension>
      </xs:simpleContent>
    </xs:complexType>
  </xs:element>
</xs:schema>
`)
}
