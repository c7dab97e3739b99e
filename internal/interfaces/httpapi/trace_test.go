package httpapi

import "testing"

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	if !shouldCreateHTTPAPISpan("httpapi.Handler.InitiatePayment") {
		t.Fatalf("expected handler spans to be created")
	}
	if shouldCreateHTTPAPISpan("httpapi.writeJSON") {
		t.Fatalf("did not expect helper spans to be created")
	}
}
