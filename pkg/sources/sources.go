// Package sources defines the curated table of credible AI publishers and a
// classifier that maps arbitrary URLs or hostnames onto it. The table is plain
// data; all lookup behavior lives in Classifier.
package sources

// Category groups credible sources by the kind of publisher behind them.
type Category string

const (
	// CategoryAcademic covers peer-reviewed research, conference proceedings
	// and university AI labs.
	CategoryAcademic Category = "academic"
	// CategoryGovernment covers government AI initiatives and research
	// funding agencies.
	CategoryGovernment Category = "government"
	// CategoryCompanyResearch covers AI research labs at major tech companies.
	CategoryCompanyResearch Category = "company_research"
	// CategoryIndustry covers reputable AI/tech industry publications.
	CategoryIndustry Category = "industry"
	// CategoryAIBlogs covers high-quality AI-focused blogs and educational
	// resources.
	CategoryAIBlogs Category = "ai_blogs"
	// CategoryOther is returned for domains absent from the table. It never
	// appears inside the table itself.
	CategoryOther Category = "other"
)

// DefaultPriority is the credibility weight assigned to domains that are not
// part of the table.
const DefaultPriority = 0.3

// categoryPriorities maps each table category to its credibility weight.
// Higher values indicate more authoritative sources.
var categoryPriorities = map[Category]float64{ //nolint: gochecknoglobals
	CategoryAcademic:        1.0,
	CategoryGovernment:      0.9,
	CategoryCompanyResearch: 0.8,
	CategoryIndustry:        0.6,
	CategoryAIBlogs:         0.5,
}

// PriorityOf returns the credibility weight of a category, or DefaultPriority
// for categories outside the table (including CategoryOther).
func PriorityOf(c Category) float64 {
	if p, ok := categoryPriorities[c]; ok {
		return p
	}

	return DefaultPriority
}

// ParseCategory validates a category name coming from an external caller
// (tool input, config). CategoryOther is not accepted.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	_, ok := categoryPriorities[c]

	return c, ok
}

// TableCategories returns all categories present in the default table in
// descending priority order.
func TableCategories() []Category {
	return []Category{
		CategoryAcademic,
		CategoryGovernment,
		CategoryCompanyResearch,
		CategoryIndustry,
		CategoryAIBlogs,
	}
}

// DefaultDistribution returns the target share of each category when
// assembling a balanced multi-source result set. Shares sum to 1.0.
func DefaultDistribution() map[Category]float64 {
	return map[Category]float64{
		CategoryAcademic:        0.40,
		CategoryGovernment:      0.10,
		CategoryCompanyResearch: 0.25,
		CategoryIndustry:        0.15,
		CategoryAIBlogs:         0.10,
	}
}

// SourceEntry is one row of the credible-sources table: a publisher domain,
// the category it belongs to and its credibility weight in [0, 1].
type SourceEntry struct {
	Domain   string
	Category Category
	Priority float64
}

// defaultDomains lists the curated publishers per category. Entries may carry
// paths (e.g. "openai.com/research"); NewClassifier reduces each one to its
// registrable domain and collapses duplicates.
var defaultDomains = map[Category][]string{ //nolint: gochecknoglobals
	CategoryAcademic: {
		// preprint repositories
		"arxiv.org",

		// major AI/ML conferences
		"papers.nips.cc",
		"proceedings.mlr.press",
		"aclanthology.org",
		"aaai.org",
		"openreview.net",
		"proceedings.neurips.cc",

		// academic publishers and journals
		"ieeexplore.ieee.org",
		"dl.acm.org",
		"jmlr.org",
		"springer.com",
		"science.org",
		"nature.com",

		// university AI labs
		"ai.stanford.edu",
		"csail.mit.edu",
		"bair.berkeley.edu",
		"ml.cmu.edu",
		"ai.ox.ac.uk",
		"cam.ac.uk",

		// research institutions
		"distill.pub",
	},
	CategoryGovernment: {
		"nsf.gov",
		"ai.gov",
		"nist.gov",
		"nih.gov",

		"gov.uk",
		"canada.ca",
		"digital.gov.au",

		"darpa.mil",
		"energy.gov",
	},
	CategoryCompanyResearch: {
		// major AI research labs
		"openai.com/research",
		"openai.com/blog",
		"deepmind.google",
		"deepmind.com",
		"ai.meta.com",
		"ai.facebook.com",
		"research.google",
		"ai.google",
		"microsoft.com/en-us/research/research-area/artificial-intelligence",
		"research.microsoft.com",

		// AI-first companies
		"huggingface.co/blog",
		"anthropic.com",
		"cohere.com/blog",
		"inflection.ai",

		// tech company AI blogs
		"ai.googleblog.com",
		"engineering.fb.com",
		"netflixtechblog.com",
		"eng.uber.com",
		"aws.amazon.com/blogs/machine-learning",
		"developer.nvidia.com/blog",
	},
	CategoryIndustry: {
		// major tech publications with AI focus
		"techcrunch.com/category/artificial-intelligence",
		"venturebeat.com/ai",
		"technologyreview.com",
		"wired.com/tag/artificial-intelligence",
		"theverge.com/ai-artificial-intelligence",

		// AI-specific news
		"artificialintelligence-news.com",
		"aimagazine.com",
		"aibusiness.com",

		// industry analysis
		"thenewstack.io",
		"infoq.com/ai-ml-data-eng",
	},
	CategoryAIBlogs: {
		// educational AI blogs
		"towardsdatascience.com",
		"machinelearningmastery.com",
		"kdnuggets.com",
		"analyticsvidhya.com",

		// technical AI blogs
		"sebastianraschka.com/blog",
		"lilianweng.github.io",
		"ruder.io",

		// AI news and analysis
		"analyticsinsight.net",
		"unite.ai",
		"marktechpost.com",

		// community platforms
		"paperswithcode.com",
		"kaggle.com",
	},
}

// DefaultTable returns the curated credible-sources table as a fresh slice of
// entries with per-category priorities applied. Callers may modify the result.
func DefaultTable() []SourceEntry {
	var entries []SourceEntry
	for _, cat := range TableCategories() {
		for _, d := range defaultDomains[cat] {
			entries = append(entries, SourceEntry{
				Domain:   d,
				Category: cat,
				Priority: PriorityOf(cat),
			})
		}
	}

	return entries
}
