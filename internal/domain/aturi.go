package domain

import "strings"

// atURIAuthority returns the authority part of an AT-URI, e.g. the DID in
// at://did:plc:abc/app.bsky.feed.post/3l3qo2vuowo2b.
func atURIAuthority(uri string) string {
	rest := strings.TrimPrefix(uri, "at://")
	if rest == uri {
		return ""
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[:i]
	}
	return rest
}

// lastSegment returns the record key: the final path segment of a URI.
func lastSegment(uri string) string {
	if i := strings.LastIndexByte(uri, '/'); i >= 0 {
		return uri[i+1:]
	}
	return uri
}

// RecordKeyFromURI exposes record-key extraction for cross-reference URIs
// (legacy address refs point at records in another collection).
func RecordKeyFromURI(uri string) string {
	return lastSegment(uri)
}
