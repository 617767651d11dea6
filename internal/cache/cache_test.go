package cache

import (
	"testing"
	"time"
)

func TestSetGetRoundTrip(t *testing.T) {
	c := New(true)
	etag := c.Set("k", []byte("v"), time.Minute)

	data, gotTag, ok := c.Get("k")
	if !ok {
		t.Fatal("Get missed a fresh entry")
	}
	if string(data) != "v" || gotTag != etag {
		t.Errorf("got (%q, %q), want (%q, %q)", data, gotTag, "v", etag)
	}
}

func TestExpiredEntryMisses(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)
	if _, _, ok := c.Get("k"); ok {
		t.Error("Get returned an expired entry")
	}
}

func TestDisabledCacheStillComputesETag(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	if etag == "" {
		t.Error("disabled cache must still return an ETag")
	}
	if _, _, ok := c.Get("k"); ok {
		t.Error("disabled cache must never hit")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), time.Minute)
	c.Invalidate("k")
	if _, _, ok := c.Get("k"); ok {
		t.Error("Get hit after Invalidate")
	}
}

func TestCheckETagMatch(t *testing.T) {
	tag := ComputeETag([]byte("body"))
	tests := []struct {
		ifNoneMatch string
		want        bool
	}{
		{"", false},
		{"*", true},
		{tag, true},
		{`W/"deadbeef"`, false},
	}
	for _, tt := range tests {
		if got := CheckETagMatch(tt.ifNoneMatch, tag); got != tt.want {
			t.Errorf("CheckETagMatch(%q) = %v, want %v", tt.ifNoneMatch, got, tt.want)
		}
	}
}
