package notify

import (
	"testing"
	"time"
)

func TestSink_PublishAndCurrent(t *testing.T) {
	s := NewSink()

	if _, ok := s.Current(); ok {
		t.Fatal("Current reported a notice before any publish")
	}

	s.Successf("Product added to cart")
	n, ok := s.Current()
	if !ok {
		t.Fatal("Current reported no notice after publish")
	}
	if n.Kind != Success || n.Message != "Product added to cart" {
		t.Fatalf("notice = %#v, want success message", n)
	}
}

func TestSink_LatestNoticeWins(t *testing.T) {
	s := NewSink()

	s.Successf("Added to wishlist")
	s.Errorf("Failed to update cart")

	n, ok := s.Current()
	if !ok {
		t.Fatal("Current reported no notice")
	}
	if n.Kind != Error || n.Message != "Failed to update cart" {
		t.Fatalf("notice = %#v, want the latest error notice", n)
	}
}

func TestSink_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	s := NewSink()
	s.now = func() time.Time { return now }

	s.Successf("Order placed")
	if _, ok := s.Current(); !ok {
		t.Fatal("Current reported no notice before expiry")
	}

	now = now.Add(defaultTTL)
	if _, ok := s.Current(); ok {
		t.Fatal("Current reported a notice at expiry, want dismissed")
	}
	// Expired notices stay gone.
	now = now.Add(-defaultTTL)
	if _, ok := s.Current(); ok {
		t.Fatal("Current reported a notice after it was cleared")
	}
}

func TestSink_DropsEmptyMessages(t *testing.T) {
	s := NewSink()
	s.Publish(Success, "   ")
	if _, ok := s.Current(); ok {
		t.Fatal("Current reported a notice for an empty message")
	}
}

func TestSink_Dismiss(t *testing.T) {
	s := NewSink()
	s.Errorf("Please login to manage wishlist")
	s.Dismiss()
	if _, ok := s.Current(); ok {
		t.Fatal("Current reported a notice after Dismiss")
	}
}
