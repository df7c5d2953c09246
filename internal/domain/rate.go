package domain

import "strings"

// Column headers of a contracted rate sheet, as staff type them.
const (
	ColCityCode        = "City Code"
	ColHotel           = "Hotel"
	ColRate            = "Rate"
	ColFrom            = "From"
	ColTo              = "To"
	ColRoom            = "Room"
	ColType            = "Type"
	ColPlan            = "Plan"
	ColSrNetCost       = "Sr Net Cost"
	ColDrNetCost       = "Dr Net Cost"
	ColEbNetCost       = "Eb Net Cost"
	ColDays            = "Days"
	ColContractRemarks = "Contract Remarks"
	ColSpNoting        = "Sp Noting"
)

// RequiredColumns are the filter keys; a sheet without them cannot be used at all.
var RequiredColumns = []string{ColCityCode, ColHotel}

// KnownColumns in display order.
var KnownColumns = []string{
	ColCityCode, ColHotel, ColRate, ColFrom, ColTo, ColRoom, ColType, ColPlan,
	ColSrNetCost, ColDrNetCost, ColEbNetCost, ColDays, ColContractRemarks, ColSpNoting,
}

// ColumnKey normalizes a header for lookups: trimmed, lower-case, inner whitespace collapsed.
func ColumnKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// RateRow is one contracted rate entry. Every value is kept as text; an empty
// string means the cell (or the whole column) was absent.
type RateRow struct {
	CityCode        string `json:"city_code"`
	Hotel           string `json:"hotel"`
	Rate            string `json:"rate"`
	From            string `json:"from"`
	To              string `json:"to"`
	Room            string `json:"room"`
	Type            string `json:"type"`
	Plan            string `json:"plan"`
	SrNetCost       string `json:"sr_net_cost"`
	DrNetCost       string `json:"dr_net_cost"`
	EbNetCost       string `json:"eb_net_cost"`
	Days            string `json:"days"`
	ContractRemarks string `json:"contract_remarks"`
	SpNoting        string `json:"sp_noting"`
}

// Get returns the value stored under a known column header.
func (r RateRow) Get(column string) string {
	switch ColumnKey(column) {
	case "city code":
		return r.CityCode
	case "hotel":
		return r.Hotel
	case "rate":
		return r.Rate
	case "from":
		return r.From
	case "to":
		return r.To
	case "room":
		return r.Room
	case "type":
		return r.Type
	case "plan":
		return r.Plan
	case "sr net cost":
		return r.SrNetCost
	case "dr net cost":
		return r.DrNetCost
	case "eb net cost":
		return r.EbNetCost
	case "days":
		return r.Days
	case "contract remarks":
		return r.ContractRemarks
	case "sp noting":
		return r.SpNoting
	}
	return ""
}

// Set stores v under a known column header. Unknown headers are ignored.
func (r *RateRow) Set(column, v string) {
	switch ColumnKey(column) {
	case "city code":
		r.CityCode = v
	case "hotel":
		r.Hotel = v
	case "rate":
		r.Rate = v
	case "from":
		r.From = v
	case "to":
		r.To = v
	case "room":
		r.Room = v
	case "type":
		r.Type = v
	case "plan":
		r.Plan = v
	case "sr net cost":
		r.SrNetCost = v
	case "dr net cost":
		r.DrNetCost = v
	case "eb net cost":
		r.EbNetCost = v
	case "days":
		r.Days = v
	case "contract remarks":
		r.ContractRemarks = v
	case "sp noting":
		r.SpNoting = v
	}
}

// RateTable is a whole rate sheet held in memory for one pass.
type RateTable struct {
	Source  string   // path the table was read from
	Columns []string // trimmed headers, original order
	Rows    []RateRow
}

// HasColumn reports whether the sheet carried the given header.
func (t RateTable) HasColumn(name string) bool {
	key := ColumnKey(name)
	for _, c := range t.Columns {
		if ColumnKey(c) == key {
			return true
		}
	}
	return false
}

// Selection is the (city, hotel) pair picked in the cascading dropdowns.
type Selection struct {
	City  string `schema:"city" json:"city"`
	Hotel string `schema:"hotel" json:"hotel"`
}
