package prompt

// Placeholder names understood by the default templates.
const (
	PlaceholderSource      = "source"
	PlaceholderFolderName  = "folderName"
	PlaceholderRecordCount = "recordCount"
	PlaceholderRecords     = "records"
)

// DefaultFieldKeys are the output keys of the default extraction template.
var DefaultFieldKeys = []string{
	"title",
	"authors",
	"journal",
	"publicationDate",
	"abstract",
	"background",
	"review",
	"methods",
	"conclusions",
	"keyFindings",
	"classificationTags",
}

// DefaultExtractionTemplate asks for one literature record as JSON.
const DefaultExtractionTemplate = `You are an expert research assistant preparing a structured literature review entry.

Read the source material below and respond with a single JSON object using exactly these keys:
{
  "title": "full title of the work",
  "authors": "author list as written in the source",
  "journal": "journal, conference or venue",
  "publicationDate": "publication date as given",
  "abstract": "the abstract, condensed if very long",
  "background": "research context and motivation",
  "review": "a critical assessment of the work's strengths and limitations",
  "methods": "study design, data and methods",
  "conclusions": "the authors' main conclusions",
  "keyFindings": ["one finding per entry"],
  "classificationTags": ["short topical tags"]
}

Use an empty string or empty list when the source does not say. Respond with JSON only.

Source material:
{{source}}
`

// DefaultSummaryTemplate asks for a synthesis across the records of a folder.
const DefaultSummaryTemplate = `You are an expert research assistant writing a synthesis of related literature.

The folder "{{folderName}}" contains {{recordCount}} reviewed works, listed below. Write a structured
summary in plain text covering the shared research questions, the main methodological approaches,
points of agreement and disagreement between the works, and open gaps worth further study. Refer to
works by their title.

Reviewed works:
{{records}}
`
