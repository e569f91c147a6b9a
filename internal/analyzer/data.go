package analyzer

/*
Responsibilities
- Hold the SEORecord shape: the fetch envelope plus every on-page signal
  a text/html 2xx response can yield
- Hold the Indexability label set
- Stay a data module: no HTTP, no DOM walking here

Only the HTML-derived fields below are ever left zero/blank for a
non-HTML or non-2xx response; the envelope fields are always populated
by the orchestrator regardless of outcome.
*/

// Indexability labels whether a page would be eligible for inclusion in a
// search index, given its meta-robots directive and the crawl's
// ignore_noindex setting.
type Indexability string

const (
	Indexable                 Indexability = "Indexable"
	NonIndexable              Indexability = "Non-Indexable"
	NonIndexableCrawledAnyway Indexability = "Non-Indexable (crawled anyway)"
)

// AnalyzeParams carries the fetch envelope the analyzer stamps onto every
// SEORecord it produces, plus the two crawl-config flags the analysis
// itself is sensitive to.
type AnalyzeParams struct {
	Address         string
	FinalURL        string
	StatusCode      string
	ContentType     string
	LoadTimeS       float64
	CrawlDepth      int
	DiscoverySource string
	IgnoreNoindex   bool
}

// SEORecord is one fetched page's full audit record.
type SEORecord struct {
	Address         string  `json:"Address"`
	FinalURL        string  `json:"Final_URL"`
	StatusCode      string  `json:"Status_Code"`
	ContentType     string  `json:"Content_Type"`
	LoadTimeS       float64 `json:"Load_Time_s"`
	CrawlDepth      int     `json:"Crawl_Depth"`
	DiscoverySource string  `json:"Discovery_Source"`
	Error           string  `json:"Error,omitempty"`

	Title                 string `json:"Title"`
	TitleLength           int    `json:"Title_Length"`
	MetaDescription       string `json:"Meta_Description"`
	MetaDescriptionLength int    `json:"Meta_Description_Length"`

	H1_1       string `json:"H1_1"`
	H1_1Length int    `json:"H1_1_Length"`
	H1Count    int    `json:"H1_Count"`
	H2_1       string `json:"H2_1"`
	H2_1Length int    `json:"H2_1_Length"`
	H2_2       string `json:"H2_2"`
	H2_2Length int    `json:"H2_2_Length"`
	H2Count    int    `json:"H2_Count"`
	H3Count    int    `json:"H3_Count"`
	H4Count    int    `json:"H4_Count"`
	H5Count    int    `json:"H5_Count"`
	H6Count    int    `json:"H6_Count"`

	HeadingHierarchyValid bool   `json:"Heading_Hierarchy_Valid"`
	MetaRobots            string `json:"Meta_Robots"`
	Canonical             string `json:"Canonical"`

	WordCount        int     `json:"Word_Count"`
	ParagraphCount   int     `json:"Paragraph_Count"`
	SentenceCount    int     `json:"Sentence_Count"`
	FleschScore      float64 `json:"Flesch_Score"`
	ReadabilityLevel string  `json:"Readability_Level"`

	InternalLinks int `json:"Internal_Links"`
	ExternalLinks int `json:"External_Links"`
	TotalLinks    int `json:"Total_Links"`

	TotalImages        int     `json:"Total_Images"`
	ImagesWithAlt      int     `json:"Images_With_Alt"`
	ImagesWithoutAlt   int     `json:"Images_Without_Alt"`
	AltTextCoveragePct float64 `json:"Alt_Text_Coverage_pct"`

	JSONLDCount       int      `json:"JSON_LD_Count"`
	MicrodataCount    int      `json:"Microdata_Count"`
	SchemaTypes       []string `json:"Schema_Types"`
	HasStructuredData bool     `json:"Has_Structured_Data"`

	Indexability Indexability `json:"Indexability"`

	// ContentHash is a blake3 digest of the same normalized readability
	// text used for word/sentence counting, feeding the issue detector's
	// Duplicate Content rule. Left empty when there is no extractable text.
	ContentHash string `json:"Content_Hash,omitempty"`

	// Inlinks/UniqueInlinks exist for CSV export compatibility and are not
	// computed; deep link-graph analytics is out of scope. Always zero.
	Inlinks       int `json:"Inlinks"`
	UniqueInlinks int `json:"Unique_Inlinks"`
}
