package extract

// markerDrugs maps a molecular marker to the targeted drugs whose mention
// implies the marker is positive. The inference deliberately has no
// negation handling: "not eligible for osimertinib" still reads as EGFR
// positive, matching the behavior of the system this table was lifted
// from.
var markerDrugs = map[string][]string{
	"EGFR": {
		"gefitinib", "erlotinib", "afatinib", "osimertinib", "dacomitinib",
		"amivantamab",
	},
	"ALK": {
		"crizotinib", "alectinib", "ceritinib", "brigatinib", "lorlatinib",
	},
	"ROS1":    {"entrectinib", "repotrectinib"},
	"HER2":    {"trastuzumab", "pertuzumab", "lapatinib", "tucatinib", "t-dm1"},
	"BRAF":    {"vemurafenib", "dabrafenib", "encorafenib"},
	"KRAS":    {"sotorasib", "adagrasib"},
	"MET":     {"capmatinib", "tepotinib"},
	"RET":     {"selpercatinib", "pralsetinib"},
	"NTRK":    {"larotrectinib"},
	"PD-L1":   {"pembrolizumab", "nivolumab", "atezolizumab", "durvalumab"},
	"BRCA":    {"olaparib", "rucaparib", "niraparib", "talazoparib"},
	"BCR-ABL": {"imatinib", "dasatinib", "nilotinib", "ponatinib"},
	"CD20":    {"rituximab", "obinutuzumab"},
	"FLT3":    {"midostaurin", "gilteritinib"},
	"IDH1":    {"ivosidenib"},
	"IDH2":    {"enasidenib"},
	"CDK4/6":  {"palbociclib", "ribociclib", "abemaciclib"},
	"HR":      {"tamoxifen", "letrozole", "anastrozole", "fulvestrant", "exemestane"},
}

// markerGenes are the gene and marker names scanned for alongside
// alteration keywords.
var markerGenes = []string{
	"EGFR", "ALK", "ROS1", "KRAS", "NRAS", "BRAF", "HER2", "ERBB2", "MET",
	"RET", "NTRK", "PD-L1", "PDL1", "BRCA1", "BRCA2", "BRCA", "TP53",
	"PIK3CA", "ESR1", "FGFR", "IDH1", "IDH2", "FLT3", "NPM1", "JAK2",
	"BCR-ABL", "MSI", "TMB", "CD20",
}

// markerKeywords are the alteration words that, combined with a gene name
// in the same fragment, make the fragment worth recording verbatim.
var markerKeywords = []string{
	"mutation", "mutant", "mutated", "deletion", "insertion", "fusion",
	"rearrangement", "amplification", "amplified", "overexpression",
	"wild-type", "wild type", "positive", "negative", "exon",
	"translocation", "alteration",
}
