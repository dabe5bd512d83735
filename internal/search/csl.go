package search

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholarly-search/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names follow the CSL-JSON/CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	DOI    string    `yaml:"DOI,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
	Source string    `yaml:"source,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes the records of every successful source as one CSL-YAML
// list. Failed sources are omitted.
func FormatCSL(res Result, w io.Writer) error {
	items := []CSLItem{}
	for _, sr := range res.Sources {
		if sr.Err != nil {
			continue
		}
		for i, r := range sr.Records {
			items = append(items, toCSLItem(r, fmt.Sprintf("%s-%d", sr.Source, i+1)))
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Record to a CSLItem. fallbackID is used when the
// record has no DOI.
func toCSLItem(r types.Record, fallbackID string) CSLItem {
	item := CSLItem{
		ID:     fallbackID,
		Type:   "article",
		Title:  r.Title,
		URL:    r.DisplayURL(),
		Source: string(r.Source),
	}

	if doi := bareDOI(r.DOI); doi != "" {
		item.ID = doi
		item.DOI = doi
	}

	for _, a := range r.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}

	if r.Year != nil {
		item.Issued = &CSLDate{DateParts: [][]int{{*r.Year}}}
	}

	return item
}

// bareDOI strips a resolver prefix so OpenAlex's "https://doi.org/10.x"
// and Crossref's "10.x" come out the same.
func bareDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, p := range []string{"https://doi.org/", "http://doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, p)
	}
	return doi
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
