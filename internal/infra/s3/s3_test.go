package s3

import "testing"

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		name       string
		endpoint   string
		useSSL     bool
		configured string
		want       string
	}{
		{name: "configured wins", endpoint: "minio:9000", configured: "https://cdn.example.com/img/", want: "https://cdn.example.com/img"},
		{name: "plain endpoint", endpoint: "minio:9000", want: "http://minio:9000"},
		{name: "ssl endpoint", endpoint: "s3.example.com", useSSL: true, want: "https://s3.example.com"},
	}
	for _, tc := range cases {
		if got := PublicBaseURL(tc.endpoint, tc.useSSL, tc.configured); got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestNewClientRequiresEndpointAndCredentials(t *testing.T) {
	if _, err := NewClient(Config{AccessKey: "k", SecretKey: "s"}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
	if _, err := NewClient(Config{Endpoint: "localhost:9000"}); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	if _, err := NewClient(Config{Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s"}); err != nil {
		t.Fatalf("new client: %v", err)
	}
}
