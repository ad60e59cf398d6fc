package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "user/cert.pdf", want: "user/cert.pdf"},
		{name: "simple prefix", prefix: "certs", key: "user/cert.pdf", want: "certs/user/cert.pdf"},
		{name: "prefix trailing slash", prefix: "certs/", key: "user/cert.pdf", want: "certs/user/cert.pdf"},
		{name: "prefix and key slashes", prefix: "/certs/", key: "/user/cert.pdf", want: "certs/user/cert.pdf"},
		{name: "nested prefix", prefix: "certs/prod", key: "user/cert.pdf", want: "certs/prod/user/cert.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	store := &Store{bucket: "certs-bucket", region: "eu-west-1", prefix: "prod"}

	got := store.PublicURL("user-1/CERTA1B2C3D4_1700000000000.pdf")
	want := "https://certs-bucket.s3.eu-west-1.amazonaws.com/prod/user-1/CERTA1B2C3D4_1700000000000.pdf"
	if got != want {
		t.Fatalf("PublicURL = %q, want %q", got, want)
	}
}
