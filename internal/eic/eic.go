// Package eic holds the Energy Identification Codes the client accepts as
// domain parameters. The Transparency Platform rejects queries whose domain
// is not a known area code, so validating here turns a guaranteed server-side
// rejection into an immediate client-side error.
package eic

// areas maps EIC area codes to a human-readable description. The set covers
// the bidding zones, control areas and countries the platform documents as
// valid in/out domains.
var areas = map[string]string{
	"10YAT-APG------L": "Austria, APG CA / BZN",
	"10YBE----------2": "Belgium, Elia CA / BZN",
	"10YCA-BULGARIA-R": "Bulgaria, ESO CA / BZN",
	"10YHR-HEP------M": "Croatia, HOPS CA / BZN",
	"10YCZ-CEPS-----N": "Czech Republic, CEPS CA / BZN",
	"10Y1001A1001A65H": "Denmark",
	"10YDK-1--------W": "DK1 BZN",
	"10YDK-2--------M": "DK2 BZN",
	"10Y1001A1001A39I": "Estonia, Elering CA / BZN",
	"10YFI-1--------U": "Finland, Fingrid CA / BZN",
	"10YFR-RTE------C": "France, RTE CA / BZN",
	"10Y1001A1001A83F": "Germany",
	"10Y1001A1001A82H": "DE-LU BZN",
	"10YGR-HTSO-----Y": "Greece, IPTO CA / BZN",
	"10YHU-MAVIR----U": "Hungary, MAVIR CA / BZN",
	"10Y1001A1001A59C": "Ireland, EirGrid CA",
	"10Y1001A1001A59B": "SEM BZN",
	"10YIT-GRTN-----B": "Italy, Terna CA",
	"10Y1001A1001A73I": "IT-North BZN",
	"10Y1001A1001A70O": "IT-Centre-North BZN",
	"10Y1001A1001A71M": "IT-Centre-South BZN",
	"10Y1001A1001A788": "IT-South BZN",
	"10Y1001A1001A75E": "IT-Sicily BZN",
	"10Y1001A1001A74G": "IT-Sardinia BZN",
	"10YLV-1001A00074": "Latvia, AST CA / BZN",
	"10YLT-1001A0008Q": "Lithuania, Litgrid CA / BZN",
	"10YLU-CEGEDEL-NQ": "Luxembourg, CREOS CA",
	"10YNL----------L": "Netherlands, TenneT NL CA / BZN",
	"10YNO-0--------C": "Norway, Stattnet CA",
	"10YNO-1--------2": "NO1 BZN",
	"10YNO-2--------T": "NO2 BZN",
	"10YNO-3--------J": "NO3 BZN",
	"10YNO-4--------9": "NO4 BZN",
	"10Y1001A1001A48H": "NO5 BZN",
	"10YPL-AREA-----S": "Poland, PSE SA CA / BZN",
	"10YPT-REN------W": "Portugal, REN CA / BZN",
	"10YRO-TEL------P": "Romania, Transelectrica CA / BZN",
	"10YCS-SERBIATSOV": "Serbia, EMS CA / BZN",
	"10YSK-SEPS-----K": "Slovakia, SEPS CA / BZN",
	"10YSI-ELES-----O": "Slovenia, ELES CA / BZN",
	"10YES-REE------0": "Spain, REE CA / BZN",
	"10YSE-1--------K": "Sweden, SvK CA",
	"10Y1001A1001A44P": "SE1 BZN",
	"10Y1001A1001A45N": "SE2 BZN",
	"10Y1001A1001A46L": "SE3 BZN",
	"10Y1001A1001A47J": "SE4 BZN",
	"10YCH-SWISSGRIDZ": "Switzerland, Swissgrid CA / BZN",
	"10Y1001C--00003F": "Ukraine, IPS CA / BZN",
	"10YGB----------A": "United Kingdom, National Grid CA / BZN",
	"10YCB-GERMANY--8": "CWE Germany aggregation",
	"10Y1001A1001A51S": "Belarus CA / BZN",
	"10YMK-MEPSO----8": "North Macedonia, MEPSO CA / BZN",
	"10YAL-KESH-----5": "Albania, OST CA / BZN",
	"10YBA-JPCC-----D": "Bosnia Herzegovina, NOS BiH CA / BZN",
	"10YCS-CG-TSO---S": "Montenegro, CGES CA / BZN",
	"10YTR-TEIAS----W": "Turkey, TEIAS CA / BZN",
	"10YDOM-REGION-1V": "CORE region",
}

// Known reports whether code is a recognized EIC area code.
func Known(code string) bool {
	_, ok := areas[code]
	return ok
}

// Description returns the human-readable area name for code.
func Description(code string) (string, bool) {
	desc, ok := areas[code]
	return desc, ok
}
