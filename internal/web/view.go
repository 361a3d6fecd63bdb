package web

import (
	"net/url"
	"strings"
	"time"

	"Homefeed/internal/domain"
)

const checkinBaseURL = "https://dropanchor.app/checkin/"

// CheckinPermalink links a check-in to its public page by record key.
func CheckinPermalink(c domain.UnifiedCheckin) string {
	return checkinBaseURL + c.RecordKey()
}

// CoverURL builds the blob URL for a book cover on the PDS. Empty when the
// cover ref shape is unrecognized or no PDS is known.
func CoverURL(pdsURL string, book domain.Book) string {
	cid := book.Value.Cover.CID()
	did := book.DID()
	if pdsURL == "" || cid == "" || did == "" {
		return ""
	}
	return strings.TrimSuffix(pdsURL, "/") + "/xrpc/com.atproto.sync.getBlob?did=" +
		url.QueryEscape(did) + "&cid=" + url.QueryEscape(cid)
}

// StatusLabel maps book status identifiers to display labels. Unknown
// statuses pass through unchanged.
func StatusLabel(status string) string {
	switch status {
	case "buzz.bookhive.defs#wantToRead":
		return "Want to Read"
	case "buzz.bookhive.defs#reading":
		return "Reading"
	case "buzz.bookhive.defs#finished":
		return "Finished"
	default:
		return status
	}
}

// LocationString renders an address as a comma-joined line, skipping
// blanks and a region that duplicates the locality.
func LocationString(a domain.Address) string {
	parts := make([]string, 0, 4)
	if a.Name != "" {
		parts = append(parts, a.Name)
	}
	if a.Locality != "" {
		parts = append(parts, a.Locality)
	}
	if a.Region != "" && a.Region != a.Locality {
		parts = append(parts, a.Region)
	}
	if a.Country != "" {
		parts = append(parts, a.Country)
	}
	return strings.Join(parts, ", ")
}

// FormatDate renders timestamps as a short human date, falling back to the
// raw string when it does not parse.
func FormatDate(value string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return value
}
