package ratesheet_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"rate_desk/internal/domain"
	"rate_desk/internal/shared"
	"rate_desk/internal/storage/ratesheet"
)

const sampleCSV = ` City Code ,Hotel , Rate,From,To,Room,Type,Plan,Sr Net Cost,Dr Net Cost,Eb Net Cost,Days,Contract Remarks,Sp Noting
DEL,Taj,TAJ-STD,2025-04-01,2025-09-30,Deluxe,Double,CP,9000,9500,2500,3.0,"Early check-in on request
Late checkout paid",Peak surcharge
DEL,Oberoi,OB-01,2025-04-01,2025-09-30,Premier,Twin,MAP,12000,12800,3000,2,,
BOM,Trident,TR-9,2025-05-01,2025-10-31,Superior,Double,EP,7000,7400,,1,,
,Orphan,X,,,,,,,,,,,
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func mustLoader(t *testing.T, charset string, delim rune) *ratesheet.Loader {
	t.Helper()
	l, err := ratesheet.New(charset, delim)
	require.NoError(t, err)
	return l
}

func TestLoad_CSV_TrimsHeadersAndKeepsOrder(t *testing.T) {
	p := writeFile(t, "rates.csv", []byte(sampleCSV))

	tbl, err := mustLoader(t, "utf-8", 0).Load(p)
	require.NoError(t, err)

	assert.Equal(t, p, tbl.Source)
	assert.Equal(t, "City Code", tbl.Columns[0])
	assert.Equal(t, "Hotel", tbl.Columns[1])
	assert.Equal(t, "Rate", tbl.Columns[2])
	require.Len(t, tbl.Rows, 3, "row without a city code is skipped")

	taj := tbl.Rows[0]
	assert.Equal(t, "DEL", taj.CityCode)
	assert.Equal(t, "Taj", taj.Hotel)
	assert.Equal(t, "TAJ-STD", taj.Rate)
	assert.Equal(t, "3.0", taj.Days, "loader does not coerce values")
	assert.Equal(t, "Early check-in on request\nLate checkout paid", taj.ContractRemarks)
	assert.Equal(t, "Trident", tbl.Rows[2].Hotel)
	assert.Empty(t, tbl.Rows[2].EbNetCost)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := mustLoader(t, "", 0).Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDataUnavailable), "got %v", err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_Directory(t *testing.T) {
	_, err := mustLoader(t, "", 0).Load(t.TempDir())
	assert.ErrorIs(t, err, domain.ErrDataUnavailable)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	p := writeFile(t, "rates.csv", []byte("City Code,Rate\nDEL,R1\n"))

	_, err := mustLoader(t, "", 0).Load(p)
	var se *domain.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.ColHotel, se.Column)
	assert.Contains(t, err.Error(), `"Hotel"`)
}

func TestLoad_EmptyFileIsSchemaError(t *testing.T) {
	p := writeFile(t, "rates.csv", nil)

	_, err := mustLoader(t, "", 0).Load(p)
	var se *domain.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, domain.ColCityCode, se.Column)
}

func TestLoad_OptionalColumnsMayBeAbsent(t *testing.T) {
	p := writeFile(t, "rates.csv", []byte("Hotel,City Code\nTaj,DEL\n"))

	tbl, err := mustLoader(t, "", 0).Load(p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "DEL", tbl.Rows[0].CityCode)
	assert.False(t, tbl.HasColumn(domain.ColPlan))
	assert.Empty(t, tbl.Rows[0].Plan)
}

func TestLoad_Windows1252(t *testing.T) {
	// 0x80 is the euro sign, 0xF4 o-circumflex and 0xE8 e-grave in windows-1252.
	data := []byte("City Code,Hotel,Sr Net Cost\nCDG,H\xf4tel Lumi\xe8re,\x80120\n")
	p := writeFile(t, "rates.csv", data)

	tbl, err := mustLoader(t, "windows-1252", 0).Load(p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Hôtel Lumière", tbl.Rows[0].Hotel)
	assert.Equal(t, "€120", tbl.Rows[0].SrNetCost)
}

func TestLoad_UTF8WithoutBOMUnderDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	t.Setenv("RATES_ENCODING", "")
	t.Setenv("RATES_DELIMITER", "")
	cfg := shared.Load()

	p := writeFile(t, "rates.csv", []byte("City Code,Hotel,Sr Net Cost,Contract Remarks\nDEL,Taj,₹9000,Café breakfast\n"))
	tbl, err := mustLoader(t, cfg.RatesEncoding, cfg.RatesDelimiter).Load(p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "₹9000", tbl.Rows[0].SrNetCost)
	assert.Equal(t, "Café breakfast", tbl.Rows[0].ContractRemarks)
}

func TestLoad_UTF8ConfiguredFallsBackForLegacyBytes(t *testing.T) {
	p := writeFile(t, "rates.csv", []byte("City Code,Hotel,Sr Net Cost\nCDG,H\xf4tel Lumi\xe8re,\x80120\n"))

	tbl, err := mustLoader(t, "utf-8", 0).Load(p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Hôtel Lumière", tbl.Rows[0].Hotel)
	assert.Equal(t, "€120", tbl.Rows[0].SrNetCost)
}

func TestLoad_LegacyConfiguredStillReadsUTF8(t *testing.T) {
	p := writeFile(t, "rates.csv", []byte("City Code,Hotel,Sr Net Cost\nGOI,Taj Exotica,₹8500\n"))

	tbl, err := mustLoader(t, "windows-1252", 0).Load(p)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "Taj Exotica", tbl.Rows[0].Hotel)
	assert.Equal(t, "₹8500", tbl.Rows[0].SrNetCost)
}

func TestLoad_UTF8BOMAndSemicolon(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("City Code;Hotel;Sr Net Cost\nGOI;Taj Exotica;₹8,500\n")...)
	p := writeFile(t, "rates.csv", data)

	tbl, err := mustLoader(t, "utf-8", ';').Load(p)
	require.NoError(t, err)
	assert.Equal(t, "City Code", tbl.Columns[0])
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "₹8,500", tbl.Rows[0].SrNetCost)
}

func TestNew_UnknownEncoding(t *testing.T) {
	_, err := ratesheet.New("klingon-8", 0)
	assert.Error(t, err)
}

func TestLoad_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"City Code ", " Hotel", "Days"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"JAI", "Rambagh Palace", "2"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"JAI", "Samode Haveli", "1"}))
	p := filepath.Join(t.TempDir(), "rates.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	tbl, err := mustLoader(t, "", 0).Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"City Code", "Hotel", "Days"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "Samode Haveli", tbl.Rows[1].Hotel)
	assert.Equal(t, "1", tbl.Rows[1].Days)
}
