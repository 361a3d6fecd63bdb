package domain

import (
	"encoding/json"
	"testing"
)

func TestBookDID(t *testing.T) {
	t.Parallel()

	b := Book{URI: "at://did:plc:aq7owa5y7ndc2hzjz37wy7ma/buzz.bookhive.book/3lyn5rkrkqg2n"}
	if got := b.DID(); got != "did:plc:aq7owa5y7ndc2hzjz37wy7ma" {
		t.Fatalf("unexpected did: %s", got)
	}

	if got := (Book{URI: "not-an-at-uri"}).DID(); got != "" {
		t.Fatalf("non AT-URI must yield empty did, got %s", got)
	}
}

func TestBlobRefCID(t *testing.T) {
	t.Parallel()

	link := &BlobRef{Ref: json.RawMessage(`{"$link":"bafyrei1"}`)}
	if got := link.CID(); got != "bafyrei1" {
		t.Fatalf("unexpected cid from link object: %s", got)
	}

	str := &BlobRef{Ref: json.RawMessage(`"bafyrei2"`)}
	if got := str.CID(); got != "bafyrei2" {
		t.Fatalf("unexpected cid from string ref: %s", got)
	}

	var nilRef *BlobRef
	if got := nilRef.CID(); got != "" {
		t.Fatalf("nil ref must yield empty cid, got %s", got)
	}

	odd := &BlobRef{Ref: json.RawMessage(`[1,2]`)}
	if got := odd.CID(); got != "" {
		t.Fatalf("unknown ref shape must yield empty cid, got %s", got)
	}
}

func TestRecordKeyFromURI(t *testing.T) {
	t.Parallel()

	uri := "at://did:plc:abc/community.lexicon.location.address/addr1"
	if got := RecordKeyFromURI(uri); got != "addr1" {
		t.Fatalf("unexpected rkey: %s", got)
	}
	if got := RecordKeyFromURI("bare"); got != "bare" {
		t.Fatalf("uri without slashes should pass through, got %s", got)
	}
}
