// Package pubmed contains the subset of NCBI E-utilities responses we use.
package pubmed

import (
	"encoding/xml"
	"strings"
)

// ESearchResponse is the JSON form of an esearch result, retmode=json.
type ESearchResponse struct {
	Header struct {
		Type    string `json:"type"`
		Version string `json:"version"`
	} `json:"header"`
	ESearchResult struct {
		Count            string   `json:"count"`
		RetMax           string   `json:"retmax"`
		RetStart         string   `json:"retstart"`
		IDList           []string `json:"idlist"`
		QueryTranslation string   `json:"querytranslation"`
		ErrorList        struct {
			PhraseNotFound []string `json:"phrasesnotfound"`
		} `json:"errorlist"`
	} `json:"esearchresult"`
}

// FirstID returns the first PMID of the result, or the empty string.
func (r *ESearchResponse) FirstID() string {
	for _, id := range r.ESearchResult.IDList {
		if v := strings.TrimSpace(id); v != "" {
			return v
		}
	}
	return ""
}

// ArticleSet is the efetch XML document.
type ArticleSet struct {
	XMLName  xml.Name  `xml:"PubmedArticleSet"`
	Articles []Article `xml:"PubmedArticle"`
}

// Article is a single PubmedArticle, stripped to identifier and publication
// types.
type Article struct {
	MedlineCitation struct {
		PMID struct {
			Version string `xml:"Version,attr"`
			Value   string `xml:",chardata"`
		} `xml:"PMID"`
		Article struct {
			ArticleTitle        string            `xml:"ArticleTitle"`
			PublicationTypeList []PublicationType `xml:"PublicationTypeList>PublicationType"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}

// PublicationType, e.g. "Journal Article" or "Randomized Controlled Trial".
type PublicationType struct {
	UI    string `xml:"UI,attr"`
	Value string `xml:",chardata"`
}

// PMID returns the trimmed identifier.
func (a *Article) PMID() string {
	return strings.TrimSpace(a.MedlineCitation.PMID.Value)
}

// PublicationTypes returns the non-empty type labels in document order.
func (a *Article) PublicationTypes() []string {
	var result []string
	for _, pt := range a.MedlineCitation.Article.PublicationTypeList {
		if v := strings.TrimSpace(pt.Value); v != "" {
			result = append(result, v)
		}
	}
	return result
}
