package fileio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	in := "Descrizione,Prezzo,Tracking\nCavo USB-C 2m,\"5,59\",TRK-42\nCuffie Bluetooth,,\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "ordini.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Cavo USB-C 2m", rows[0]["Descrizione"])
	assert.Equal(t, "5,59", rows[0]["Prezzo"])
	assert.Equal(t, "TRK-42", rows[0]["Tracking"])
	assert.Equal(t, "", rows[1]["Tracking"])
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	in := "Descrizione;Prezzo;Tracking\nCavo USB-C 2m;5,59;TRK-42\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "ordini.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Cavo USB-C 2m", rows[0]["Descrizione"])
	assert.Equal(t, "5,59", rows[0]["Prezzo"])
}

func TestReadCSVHeaderRowOffset(t *testing.T) {
	in := "Report ordini,,\nDescrizione,Prezzo,Tracking\nZaino 30L,29.99,TRK-7\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "ordini.csv", 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Zaino 30L", rows[0]["Descrizione"])
}

func TestReadCSVBlankHeadersGetPlaceholders(t *testing.T) {
	in := "Descrizione,,Tracking\nCavo,ignorato,TRK-1\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "ordini.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ignorato", rows[0]["Column 2"])
}

func TestReadCSVSkipsEmptyRows(t *testing.T) {
	in := "Descrizione,Prezzo\nCavo,5.59\n,\n , \nZaino,29.99\n"
	rows, err := ReadAnyMaps(strings.NewReader(in), "ordini.csv", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Zaino", rows[1]["Descrizione"])
}

func TestReadJSON(t *testing.T) {
	in := `[
		{"id": 7, "description": "Cavo USB-C 2m", "price": 5.59, "quantity": 2,
		 "is_delivered": true, "tracking_number": null,
		 "created_at": "2026-01-01 10:00:00"},
		{"description": "Cuffie Bluetooth", "price": "29,99"}
	]`
	rows, err := ReadAnyMaps(strings.NewReader(in), "export.json", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Cavo USB-C 2m", rows[0]["description"])
	assert.Equal(t, "5.59", rows[0]["price"], "numbers keep their literal form")
	assert.Equal(t, "2", rows[0]["quantity"])
	assert.Equal(t, "true", rows[0]["is_delivered"])
	assert.Equal(t, "", rows[0]["tracking_number"])
	assert.NotContains(t, rows[0], "id", "bookkeeping keys are dropped")
	assert.NotContains(t, rows[0], "created_at")
	assert.Equal(t, "29,99", rows[1]["price"])
}

func TestReadJSONRejectsNonArray(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader(`{"description": "x"}`), "export.json", 1)
	require.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Descrizione", "Prezzo", "Q.tà"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Cavo USB-C 2m", "5,59", 2}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"Cuffie Bluetooth", "", ""}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadAnyMaps(buf, "ordini.xlsx", 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Cavo USB-C 2m", rows[0]["Descrizione"])
	assert.Equal(t, "5,59", rows[0]["Prezzo"])
	assert.Equal(t, "2", rows[0]["Q.tà"])
	assert.Equal(t, "Cuffie Bluetooth", rows[1]["Descrizione"])
}

func TestReadUnsupportedExtension(t *testing.T) {
	_, err := ReadAnyMaps(strings.NewReader("x"), "ordini.pdf", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file")
}
