package classifier

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary holds the lookup tables driving the affiliation heuristics.
// The zero value is not useful; use DefaultVocabulary or LoadVocabulary.
type Vocabulary struct {
	// AcademicKeywords mark an affiliation as academic on substring match.
	AcademicKeywords []string `yaml:"academic_keywords"`
	// PharmaKeywords gate the heuristic company-name extraction.
	PharmaKeywords []string `yaml:"pharma_keywords"`
	// CompanySuffixes are legal-entity markers ("inc", "gmbh", ...).
	CompanySuffixes []string `yaml:"company_suffixes"`
	// KnownCompanies are matched verbatim as lowercase substrings.
	KnownCompanies []string `yaml:"known_companies"`
}

// DefaultVocabulary returns the built-in lookup tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		AcademicKeywords: []string{
			"university", "university of", "college", "institute", "institut",
			"school", "medical school", "hospital", "medical center", "clinic",
			"research center", "research centre", "laboratory", "lab", "department",
			"faculty", "academy", "academia", "national institutes", "nih",
			"national institute", "center for", "centre for", "medical college",
			"graduate school", "postgraduate", "doctoral", "phd", "research institute",
			"government", "federal", "public health", "ministry", "department of health",
			"national health", "veterans affairs", "va medical", "cancer center",
			"memorial", "children's hospital", "foundation", "nonprofit", "non-profit",
		},
		PharmaKeywords: []string{
			"pharmaceutical", "pharmaceuticals", "pharma", "biotech", "biotechnology",
			"biopharmaceutical", "drug", "drugs", "therapeutics", "bioscience",
			"biosciences", "life sciences", "medicine", "medical devices",
			"diagnostics", "genomics", "proteomics", "clinical research",
			"contract research", "cro", "clinical trials", "drug development",
			"vaccine", "vaccines", "biologics", "biosimilar", "biosimilars",
			"medical technology", "medtech", "healthcare", "health care",
		},
		CompanySuffixes: []string{
			"inc", "inc.", "incorporated", "corp", "corp.", "corporation",
			"ltd", "ltd.", "limited", "llc", "l.l.c.", "company", "co.",
			"plc", "p.l.c.", "gmbh", "ag", "sa", "s.a.", "nv", "b.v.",
			"pty", "pty.", "proprietary", "enterprises", "holdings",
			"international", "global", "worldwide", "group", "solutions",
			"technologies", "systems", "services", "consulting",
		},
		KnownCompanies: []string{
			"pfizer", "roche", "novartis", "johnson & johnson", "j&j",
			"merck", "bristol myers squibb", "abbvie", "amgen", "gilead",
			"biogen", "genentech", "bayer", "sanofi", "glaxosmithkline",
			"gsk", "astrazeneca", "eli lilly", "takeda", "boehringer ingelheim",
			"vertex", "celgene", "illumina", "thermo fisher", "agilent",
			"waters", "perkinelmer", "danaher", "beckman coulter",
			"bd", "becton dickinson", "abbott", "medtronic", "boston scientific",
			"stryker", "zimmer biomet", "intuitive surgical", "edwards lifesciences",
			"baxter", "fresenius", "hospira", "regeneron", "moderna",
			"biontech", "curevac", "novavax", "ionis", "alnylam",
			"bluebird bio", "spark therapeutics", "kite pharma",
			"crispr", "editas", "intellia",
			"sangamo", "precision biosciences", "beam therapeutics",
		},
	}
}

// LoadVocabulary reads a YAML override file and merges it over the defaults:
// a non-empty list in the file replaces the corresponding built-in table.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, eris.Wrapf(err, "classifier: read vocabulary file %s", path)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Vocabulary{}, eris.Wrapf(err, "classifier: parse vocabulary file %s", path)
	}

	vocab := DefaultVocabulary()
	if len(override.AcademicKeywords) > 0 {
		vocab.AcademicKeywords = override.AcademicKeywords
	}
	if len(override.PharmaKeywords) > 0 {
		vocab.PharmaKeywords = override.PharmaKeywords
	}
	if len(override.CompanySuffixes) > 0 {
		vocab.CompanySuffixes = override.CompanySuffixes
	}
	if len(override.KnownCompanies) > 0 {
		vocab.KnownCompanies = override.KnownCompanies
	}
	return vocab, nil
}
