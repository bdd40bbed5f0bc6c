package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/invoice-po-lookup/internal/types"
)

// =============================================================================
// XML EXPORT
// =============================================================================
//
// STRUCTURE:
//   <?xml version="1.0" encoding="UTF-8"?>
//   <records>
//     <record n="1">
//       <Invoice>INV-001</Invoice>
//       <Subsidiary>US</Subsidiary>
//       <Name/>
//       ...
//     </record>
//   </records>
//
// Element names are the canonical column names. Empty cells are written as
// self-closing elements so every record has the same shape.

const (
	xmlRootElement   = "records"
	xmlRecordElement = "record"
	xmlIndexAttr     = "n"
	xmlIndent        = "  "
)

// WriteXML writes rows as an indented XML document.
func WriteXML(w io.Writer, rows []types.Record) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(xml.Header)
	bw.WriteString("<" + xmlRootElement + ">\n")

	for i, r := range rows {
		fmt.Fprintf(bw, "%s<%s %s=\"%s\">\n", xmlIndent, xmlRecordElement, xmlIndexAttr, strconv.Itoa(i+1))
		for _, col := range types.DisplayColumns {
			if err := writeElement(bw, col, r.Cell(col), 2); err != nil {
				return err
			}
		}
		fmt.Fprintf(bw, "%s</%s>\n", xmlIndent, xmlRecordElement)
	}

	bw.WriteString("</" + xmlRootElement + ">\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// writeElement writes one indented leaf element.
func writeElement(bw *bufio.Writer, name, value string, level int) error {
	for i := 0; i < level; i++ {
		bw.WriteString(xmlIndent)
	}

	if value == "" {
		bw.WriteString("<" + name + "/>\n")
		return nil
	}

	bw.WriteString("<" + name + ">")
	if err := xml.EscapeText(bw, []byte(value)); err != nil {
		return fmt.Errorf("failed to escape %s: %w", name, err)
	}
	bw.WriteString("</" + name + ">\n")
	return nil
}
