package export

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/jameela786/pubmed-papers/internal/model"
)

const sheetName = "Papers"

// SaveXLSX writes the filtered papers to an XLSX workbook at path.
func SaveXLSX(papers []model.Paper, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range Columns {
		header.AddCell().SetString(col)
	}
	for _, p := range papers {
		if len(p.NonAcademicAuthors()) == 0 {
			continue
		}
		row := sheet.AddRow()
		for _, val := range Row(p) {
			row.AddCell().SetString(val)
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

// Save writes papers to path, picking the format from the extension.
// ".xlsx" produces a workbook; anything else produces CSV.
func Save(papers []model.Paper, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return SaveXLSX(papers, path)
	}
	return SaveCSV(papers, path)
}
