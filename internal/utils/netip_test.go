package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.0.2.7 ", "2001:db8::/32", "not-an-ip", ""})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"192.0.2.7", true},
		{"::ffff:192.0.2.7", true},
		{"192.0.2.8", false},
		{"2001:db8::1", true},
		{"2001:db9::1", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if !NewIPMatcher([]string{"nope"}).IsEmpty() {
		t.Error("matcher with only invalid entries should be empty")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:1234", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "headers ignored without trust", remoteAddr: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, want: "127.0.0.1"},
		{name: "cloudflare header first", remoteAddr: "127.0.0.1:1", trustProxy: true, headers: map[string]string{"CF-Connecting-IP": "10.0.0.9", "X-Forwarded-For": "10.0.0.1"}, want: "10.0.0.9"},
		{name: "left-most forwarded", remoteAddr: "127.0.0.1:1", trustProxy: true, headers: map[string]string{"X-Forwarded-For": " 10.0.0.1 , 172.16.0.1"}, want: "10.0.0.1"},
		{name: "real ip fallback", remoteAddr: "127.0.0.1:1", trustProxy: true, headers: map[string]string{"X-Real-IP": "10.0.0.2"}, want: "10.0.0.2"},
		{name: "no headers with trust", remoteAddr: "127.0.0.1:1", trustProxy: true, want: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
