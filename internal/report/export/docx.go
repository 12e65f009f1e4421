package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
)

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	documentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body></w:document>`
)

// WriteDOCX writes the report as a WordprocessingML document with the same
// sections as the pdf. Header rows carry a fixed background shading.
func WriteDOCX(w io.Writer, r model.ProjectReport) error {
	doc := documentXML(r)

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", doc},
	}
	for _, p := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: r.GeneratedAt})
		if err != nil {
			return fmt.Errorf("docx part %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.body); err != nil {
			return fmt.Errorf("docx part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func documentXML(r model.ProjectReport) []byte {
	var b bytes.Buffer
	b.WriteString(documentOpen)
	paragraph(&b, "Project report", true, 32)
	for _, line := range report.SummaryLines(r) {
		paragraph(&b, line, false, 0)
	}
	for _, section := range report.Sections(r) {
		paragraph(&b, section.Title, true, 26)
		if len(section.Rows) == 0 {
			paragraph(&b, section.Empty, false, 0)
			continue
		}
		table(&b, section)
		paragraph(&b, "", false, 0)
	}
	b.WriteString(documentClose)
	return b.Bytes()
}

func paragraph(b *bytes.Buffer, text string, bold bool, size int) {
	b.WriteString("<w:p>")
	run(b, text, bold, size)
	b.WriteString("</w:p>")
}

func run(b *bytes.Buffer, text string, bold bool, size int) {
	b.WriteString("<w:r>")
	if bold || size > 0 {
		b.WriteString("<w:rPr>")
		if bold {
			b.WriteString("<w:b/>")
		}
		if size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/>`, size)
		}
		b.WriteString("</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r>")
}

func table(b *bytes.Buffer, t model.Table) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, side)
	}
	b.WriteString(`</w:tblBorders></w:tblPr>`)

	b.WriteString(`<w:tr><w:trPr><w:tblHeader/></w:trPr>`)
	for _, h := range t.Header {
		b.WriteString(`<w:tc><w:tcPr>`)
		fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, headerFill)
		b.WriteString(`</w:tcPr><w:p>`)
		run(b, h, true, 0)
		b.WriteString(`</w:p></w:tc>`)
	}
	b.WriteString(`</w:tr>`)

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		for _, v := range row {
			b.WriteString(`<w:tc><w:p>`)
			run(b, v, false, 0)
			b.WriteString(`</w:p></w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}
