package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/jameela786/pubmed-papers/internal/model"
)

// WriteCSV writes the filtered papers as CSV with the fixed column header.
func WriteCSV(w io.Writer, papers []model.Paper) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, p := range papers {
		if len(p.NonAcademicAuthors()) == 0 {
			continue
		}
		if err := writer.Write(Row(p)); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", p.PubmedID)
		}
	}

	writer.Flush()
	return eris.Wrap(writer.Error(), "export: flush csv")
}

// SaveCSV writes the filtered papers to a CSV file at path.
func SaveCSV(papers []model.Paper, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return WriteCSV(f, papers)
}
