package parser_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/scatterdiff/internal/dataset"
	"github.com/KaramelBytes/scatterdiff/internal/parser"
)

// writeXLSX assembles a minimal workbook with the given worksheets.
func writeXLSX(t *testing.T, shared []string, sheets map[string]string, order []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "book.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	add := func(name, body string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	var wb, rels strings.Builder
	wb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>`)
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, name := range order {
		n := string(rune('1' + i))
		wb.WriteString(`<sheet name="` + name + `" sheetId="` + n + `" r:id="rId` + n + `"/>`)
		rels.WriteString(`<Relationship Id="rId` + n + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet` + n + `.xml"/>`)
		add("xl/worksheets/sheet"+n+".xml", `<?xml version="1.0" encoding="UTF-8"?><worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`+sheets[name]+`</sheetData></worksheet>`)
	}
	wb.WriteString(`</sheets></workbook>`)
	rels.WriteString(`</Relationships>`)
	add("xl/workbook.xml", wb.String())
	add("xl/_rels/workbook.xml.rels", rels.String())
	var sst strings.Builder
	sst.WriteString(`<?xml version="1.0" encoding="UTF-8"?><sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">`)
	for _, s := range shared {
		sst.WriteString(`<si><t>` + s + `</t></si>`)
	}
	sst.WriteString(`</sst>`)
	add("xl/sharedStrings.xml", sst.String())
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadXLSX(t *testing.T) {
	shared := []string{"Label", "mpg", "A", "B"}
	first := `<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>` +
		`<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>21.5</v></c></row>` +
		`<row r="3"><c r="A3" t="s"><v>3</v></c></row>`
	second := `<row r="1"><c r="A1" t="inlineStr"><is><t>Label</t></is></c><c r="C1" t="inlineStr"><is><t>hp</t></is></c></row>` +
		`<row r="2"><c r="A2" t="inlineStr"><is><t>Z</t></is></c><c r="C2"><v>110</v></c></row>`
	p := writeXLSX(t, shared, map[string]string{"cars": first, "engines": second}, []string{"cars", "engines"})

	d, err := parser.LoadFile(p, parser.DefaultOptions())
	if err != nil {
		t.Fatalf("load first sheet: %v", err)
	}
	if d.Len() != 2 {
		t.Fatalf("len = %d", d.Len())
	}
	a, ok := d.Lookup(dataset.String("A"))
	if !ok {
		t.Fatalf("row A missing")
	}
	if v, _ := a.Value("mpg"); !v.Equal(dataset.Number(21.5)) {
		t.Fatalf("A.mpg = %v", v)
	}
	b, _ := d.Lookup(dataset.String("B"))
	if _, ok := b.Value("mpg"); ok {
		t.Fatalf("B.mpg should be missing")
	}

	opt := parser.DefaultOptions()
	opt.SheetName = "Engines"
	d, err = parser.LoadFile(p, opt)
	if err != nil {
		t.Fatalf("load named sheet: %v", err)
	}
	z, ok := d.Lookup(dataset.String("Z"))
	if !ok {
		t.Fatalf("row Z missing")
	}
	// Column B is empty in the header, so hp lands in the third column.
	if v, _ := z.Value("hp"); !v.Equal(dataset.Number(110)) {
		t.Fatalf("Z.hp = %v", v)
	}

	opt.SheetName = "nope"
	if _, err := parser.LoadFile(p, opt); err == nil || !strings.Contains(err.Error(), "available: cars, engines") {
		t.Fatalf("expected sheet-not-found error listing sheets, got %v", err)
	}
}
