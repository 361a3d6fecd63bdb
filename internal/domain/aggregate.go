package domain

import "encoding/json"

// Post is a single entry from the JSON Feed.
type Post struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ContentHTML  string `json:"content_html"`
	URL          string `json:"url"`
	DateModified string `json:"date_modified"`
	Summary      string `json:"summary,omitempty"`
}

// Identity is a fully resolved account: handle, durable identifier and the
// PDS currently hosting its repository.
type Identity struct {
	Handle          string
	DID             string
	ServiceEndpoint string
}

// RawRecord is one record as returned by the repository protocol. Value
// carries the collection-specific payload untouched; consumers decode it
// against their own schema.
type RawRecord struct {
	URI   string          `json:"uri"`
	CID   string          `json:"cid"`
	Value json.RawMessage `json:"value"`
}

// Address holds the location context of a check-in. Country is the only
// field guaranteed to be present.
type Address struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street,omitempty"`
	Locality   string `json:"locality,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode,omitempty"`
}

// Coordinates are always finite; records with unparseable positions are
// dropped during normalization instead of carrying NaN here.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UnifiedCheckin is the canonical check-in shape both record schema
// versions collapse into. Text and CreatedAt are lifted out of the raw
// value so the rendering layer never re-inspects schema-specific fields.
type UnifiedCheckin struct {
	Record      RawRecord   `json:"record"`
	Text        string      `json:"text"`
	CreatedAt   string      `json:"createdAt"`
	Address     Address     `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
}

// RecordKey returns the final path segment of the check-in URI, used for
// permalinks.
func (c UnifiedCheckin) RecordKey() string {
	return lastSegment(c.Record.URI)
}

// Book is a reading-status record from the book collection.
type Book struct {
	URI   string    `json:"uri"`
	CID   string    `json:"cid"`
	Value BookValue `json:"value"`
}

// BookValue is the decoded book record payload.
type BookValue struct {
	Title     string   `json:"title"`
	Authors   string   `json:"authors,omitempty"`
	HiveID    string   `json:"hiveId"`
	Status    string   `json:"status"`
	Cover     *BlobRef `json:"cover,omitempty"`
	CreatedAt string   `json:"createdAt"`
}

// BlobRef points at a blob stored on the PDS. Ref arrives either as a bare
// CID string or as a {"$link": "..."} object depending on the client that
// wrote the record.
type BlobRef struct {
	Ref      json.RawMessage `json:"ref"`
	MimeType string          `json:"mimeType"`
	Size     int64           `json:"size"`
}

// CID extracts the blob CID from either ref encoding. Returns "" when the
// shape is unrecognized.
func (b *BlobRef) CID() string {
	if b == nil || len(b.Ref) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.Ref, &s); err == nil {
		return s
	}
	var link struct {
		Link string `json:"$link"`
	}
	if err := json.Unmarshal(b.Ref, &link); err == nil {
		return link.Link
	}
	return ""
}

// DID extracts the repository DID from the book's AT-URI
// (at://<did>/<collection>/<rkey>).
func (b Book) DID() string {
	return atURIAuthority(b.URI)
}

// RepoMeta is the metadata the code host reports for one repository.
type RepoMeta struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stargazers  int    `json:"stargazers_count"`
	UpdatedAt   string `json:"updated_at"`
}

// AggregateResult is the assembled view handed to the rendering layer.
// Every field degrades independently to its empty value; none is ever nil.
type AggregateResult struct {
	Posts       []Post           `json:"posts"`
	Books       []Book           `json:"books"`
	Checkins    []UnifiedCheckin `json:"checkins"`
	PDSURL      string           `json:"pdsUrl"`
	PinnedRepos []RepoMeta       `json:"pinnedRepos"`
}
