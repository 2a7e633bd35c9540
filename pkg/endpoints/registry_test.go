package endpoints

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Endpoint
	}{
		{
			name: "empty input falls back to default",
			raw:  "",
			want: []Endpoint{{URL: DefaultEndpoint}},
		},
		{
			name: "whitespace only falls back to default",
			raw:  "  , ,  ",
			want: []Endpoint{{URL: DefaultEndpoint}},
		},
		{
			name: "single url without credential",
			raw:  "http://10.0.0.1:11434",
			want: []Endpoint{{URL: "http://10.0.0.1:11434"}},
		},
		{
			name: "single url with credential",
			raw:  "http://10.0.0.1:11434_sekret",
			want: []Endpoint{{URL: "http://10.0.0.1:11434", Credential: "sekret"}},
		},
		{
			name: "credential containing separator",
			raw:  "http://10.0.0.1:11434_sk_live_abc",
			want: []Endpoint{{URL: "http://10.0.0.1:11434", Credential: "sk_live_abc"}},
		},
		{
			name: "separator with empty suffix yields no credential",
			raw:  "http://10.0.0.1:11434_",
			want: []Endpoint{{URL: "http://10.0.0.1:11434"}},
		},
		{
			name: "multiple entries preserve order and trim whitespace",
			raw:  " http://a:11434_tok1 , http://b:11434 ,http://c:11434_tok3",
			want: []Endpoint{
				{URL: "http://a:11434", Credential: "tok1"},
				{URL: "http://b:11434"},
				{URL: "http://c:11434", Credential: "tok3"},
			},
		},
		{
			name: "empty entries between separators are discarded",
			raw:  "http://a:11434,,http://b:11434",
			want: []Endpoint{
				{URL: "http://a:11434"},
				{URL: "http://b:11434"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if !reflect.DeepEqual(got.entries, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got.entries, tt.want)
			}
		})
	}
}

func TestRegistry_URLs(t *testing.T) {
	r := Parse("http://a:11434_tok,http://b:11434,http://a:11434_other")

	want := []string{"http://a:11434", "http://b:11434", "http://a:11434"}
	if got := r.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs() = %v, want %v", got, want)
	}
}

func TestRegistry_CredentialFor(t *testing.T) {
	r := Parse("http://a:11434_first,http://b:11434,http://a:11434_second")

	// First matching entry wins for a duplicated url.
	if got := r.CredentialFor("http://a:11434"); got != "first" {
		t.Errorf("CredentialFor(a) = %q, want %q", got, "first")
	}

	// A url without a configured credential resolves to empty.
	if got := r.CredentialFor("http://b:11434"); got != "" {
		t.Errorf("CredentialFor(b) = %q, want empty", got)
	}

	// A url absent from the registry resolves to empty.
	if got := r.CredentialFor("http://unknown:11434"); got != "" {
		t.Errorf("CredentialFor(unknown) = %q, want empty", got)
	}
}

func TestActiveTarget(t *testing.T) {
	a := NewActiveTarget()

	if got := a.Get(); got != DefaultEndpoint {
		t.Errorf("initial target = %q, want %q", got, DefaultEndpoint)
	}

	// Set is unconditional; no validation happens here.
	a.Set("http://somewhere:11434")
	if got := a.Get(); got != "http://somewhere:11434" {
		t.Errorf("target after Set = %q, want %q", got, "http://somewhere:11434")
	}

	a.Set("not-even-a-url")
	if got := a.Get(); got != "not-even-a-url" {
		t.Errorf("target after second Set = %q, want %q", got, "not-even-a-url")
	}
}
