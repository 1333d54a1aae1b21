// Package i18n holds the display strings of the recommendation form and
// result view, and picks a catalog from Accept-Language.
//
// Sentence patterns use {name} for plain substitutions and {{name}} for
// emphasized ones.
package i18n

import (
	"golang.org/x/text/language"
)

// Catalog is one locale's strings.
type Catalog struct {
	Tag language.Tag

	// Page chrome and form.
	Title              string
	Subtitle           string
	WorkpieceField     string
	ToolField          string
	ToolDefault        string
	OperationField     string
	OperationDefault   string
	OperationNames     map[string]string
	Submit             string
	Busy               string
	ThemeToggle        string
	ResultHeading      string
	TableHeading       string
	NarrativeHeading   string
	RawHeading         string
	KeyColumn          string
	ValueColumn        string
	OptionsUnavailable string

	// Explanation panel.
	LabelWorkpiece  string
	LabelOperation  string
	LabelChosenTool string
	ErrorMarker     string

	// Table panel.
	SummaryChosen string
	EmptyCell     string

	// Narrative panel.
	General          string
	None             string
	IntroChosen      string
	IntroOptions     string
	OperationHeading string
	OperationLabels  map[string]string
	ToolHeading      string
	ToolLabels       map[string]string
	// Advisories phrase geometry values as advice; %s is the value.
	Advisories map[string]string
	NotesLabel string

	// Alerts.
	AlertValidation  string
	AlertNetwork     string // %s is the cause
	AlertInvalidBody string
	AlertTooLarge    string
	AlertGeneric     string
}

// Indonesian is the default catalog.
var Indonesian = &Catalog{
	Tag: language.Indonesian,

	Title:              "Rekomendasi Pahat",
	Subtitle:           "Pilih material benda kerja, material pahat, dan jenis operasi.",
	WorkpieceField:     "Material benda kerja",
	ToolField:          "Material pahat",
	ToolDefault:        "(Biarkan sistem memilih)",
	OperationField:     "Operasi",
	OperationDefault:   "(Tidak ditentukan)",
	OperationNames:     map[string]string{"roughing": "Roughing", "finishing": "Finishing"},
	Submit:             "Dapatkan Rekomendasi",
	Busy:               "Memproses...",
	ThemeToggle:        "Ganti tema",
	ResultHeading:      "Hasil",
	TableHeading:       "Ringkasan",
	NarrativeHeading:   "Penjelasan",
	RawHeading:         "JSON",
	KeyColumn:          "Kolom",
	ValueColumn:        "Nilai",
	OptionsUnavailable: "Daftar pilihan tidak dapat dimuat.",

	LabelWorkpiece:  "Material",
	LabelOperation:  "Operation",
	LabelChosenTool: "Rekomendasi utama (dipilih sistem)",
	ErrorMarker:     "Terjadi kesalahan:",

	SummaryChosen: "Rekomendasi utama:",
	EmptyCell:     "—",

	General:          "umum",
	None:             "tidak ada",
	IntroChosen:      "Untuk bahan {{workpiece}} saat {{operation}}, rekomendasi utama adalah {{tool}}.",
	IntroOptions:     "Untuk bahan {{workpiece}} saat {{operation}}, ada beberapa pilihan pahat: {options}.",
	OperationHeading: "Detail Operasi: %s",
	OperationLabels: map[string]string{
		"recommended_tools":  "Pahat yang direkomendasikan",
		"geometry":           "Geometri pahat",
		"cutting_params":     "Parameter pemotongan",
		"coolant":            "Pendingin",
		"chip_control":       "Kontrol chip",
		"preferred_coatings": "Coating yang disarankan",
	},
	ToolHeading: "Pahat: %s",
	ToolLabels: map[string]string{
		"rake":           "Sudut rake",
		"clearance":      "Sudut clearance",
		"nose_radius":    "Jari-jari ujung (nose radius)",
		"edge_condition": "Kondisi tepi",
		"remarks":        "Catatan",
	},
	Advisories: map[string]string{
		"rake":        "Gunakan sudut sekitar %s",
		"clearance":   "Sisihkan sudut sekitar %s",
		"nose_radius": "Bentuk ujung sekitar %s",
	},
	NotesLabel: "Catatan umum:",

	AlertValidation:  "Pilih material benda kerja terlebih dahulu.",
	AlertNetwork:     "Gagal terhubung ke server: %s",
	AlertInvalidBody: "Response bukan JSON yang valid",
	AlertTooLarge:    "Response dari server terlalu besar",
	AlertGeneric:     "Terjadi kesalahan. Cek log untuk detail.",
}

// English is the secondary catalog.
var English = &Catalog{
	Tag: language.English,

	Title:              "Tool Recommendation",
	Subtitle:           "Choose the workpiece material, tool material and operation.",
	WorkpieceField:     "Workpiece material",
	ToolField:          "Tool material",
	ToolDefault:        "(Let the system choose)",
	OperationField:     "Operation",
	OperationDefault:   "(Unspecified)",
	OperationNames:     map[string]string{"roughing": "Roughing", "finishing": "Finishing"},
	Submit:             "Get Recommendation",
	Busy:               "Processing...",
	ThemeToggle:        "Toggle theme",
	ResultHeading:      "Result",
	TableHeading:       "Summary",
	NarrativeHeading:   "Explanation",
	RawHeading:         "JSON",
	KeyColumn:          "Field",
	ValueColumn:        "Value",
	OptionsUnavailable: "The option lists could not be loaded.",

	LabelWorkpiece:  "Material",
	LabelOperation:  "Operation",
	LabelChosenTool: "Main recommendation (chosen by the system)",
	ErrorMarker:     "An error occurred:",

	SummaryChosen: "Main recommendation:",
	EmptyCell:     "—",

	General:          "general",
	None:             "none",
	IntroChosen:      "For {{workpiece}} during {{operation}}, the main recommendation is {{tool}}.",
	IntroOptions:     "For {{workpiece}} during {{operation}}, there are several tool options: {options}.",
	OperationHeading: "Operation details: %s",
	OperationLabels: map[string]string{
		"recommended_tools":  "Recommended tools",
		"geometry":           "Tool geometry",
		"cutting_params":     "Cutting parameters",
		"coolant":            "Coolant",
		"chip_control":       "Chip control",
		"preferred_coatings": "Preferred coatings",
	},
	ToolHeading: "Tool: %s",
	ToolLabels: map[string]string{
		"rake":           "Rake angle",
		"clearance":      "Clearance angle",
		"nose_radius":    "Nose radius",
		"edge_condition": "Edge condition",
		"remarks":        "Remarks",
	},
	Advisories: map[string]string{
		"rake":        "Use an angle of about %s",
		"clearance":   "Leave a clearance of about %s",
		"nose_radius": "Shape the tip to about %s",
	},
	NotesLabel: "General notes:",

	AlertValidation:  "Choose a workpiece material first.",
	AlertNetwork:     "Could not reach the server: %s",
	AlertInvalidBody: "The response is not valid JSON",
	AlertTooLarge:    "The server response is too large",
	AlertGeneric:     "Something went wrong. Check the logs for details.",
}

var catalogs = []*Catalog{Indonesian, English}

// Lookup returns the catalog for a configured locale name, or Indonesian.
func Lookup(name string) *Catalog {
	tag, err := language.Parse(name)
	if err != nil {
		return Indonesian
	}
	base := baseOf(tag)
	for _, c := range catalogs {
		if baseOf(c.Tag) == base {
			return c
		}
	}
	return Indonesian
}

// Match picks the catalog best matching an Accept-Language header, falling
// back to def.
func Match(acceptLanguage string, def *Catalog) *Catalog {
	if acceptLanguage == "" {
		return def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return def
	}
	supported := make([]language.Tag, 0, len(catalogs)+1)
	supported = append(supported, def.Tag)
	for _, c := range catalogs {
		supported = append(supported, c.Tag)
	}
	_, idx, conf := language.NewMatcher(supported).Match(tags...)
	if conf == language.No || idx == 0 {
		return def
	}
	return catalogs[idx-1]
}

func baseOf(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// ToolLabel returns the display label for a tool recommendation key.
func (c *Catalog) ToolLabel(key string) string {
	if l, ok := c.ToolLabels[key]; ok {
		return l
	}
	return key
}

// OperationLabel returns the display label for an operation_details key.
func (c *Catalog) OperationLabel(key string) string {
	if l, ok := c.OperationLabels[key]; ok {
		return l
	}
	return key
}

// OperationName returns the display name of an operation value.
func (c *Catalog) OperationName(op string) string {
	if n, ok := c.OperationNames[op]; ok {
		return n
	}
	return op
}
