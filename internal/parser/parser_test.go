package parser

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantKind RefKind
		wantID   string
		wantErr  bool
	}{
		{
			name:     "canonical channel URL",
			url:      "https://www.youtube.com/channel/UC1234567890abcdefGHIJ",
			wantKind: KindChannelID,
			wantID:   "UC1234567890abcdefGHIJ",
		},
		{
			name:     "handle URL",
			url:      "https://www.youtube.com/@SomeCreator",
			wantKind: KindHandle,
			wantID:   "SomeCreator",
		},
		{
			name:     "custom URL",
			url:      "https://www.youtube.com/c/SomeCreator",
			wantKind: KindUsername,
			wantID:   "SomeCreator",
		},
		{
			name:     "legacy user URL",
			url:      "https://www.youtube.com/user/somecreator",
			wantKind: KindUsername,
			wantID:   "somecreator",
		},
		{
			name:     "watch URL",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantKind: KindVideo,
			wantID:   "dQw4w9WgXcQ",
		},
		{
			name:     "short video URL",
			url:      "https://youtu.be/dQw4w9WgXcQ",
			wantKind: KindVideo,
			wantID:   "dQw4w9WgXcQ",
		},
		{
			name:     "leading and trailing whitespace",
			url:      "  https://www.youtube.com/@SomeCreator \n",
			wantKind: KindHandle,
			wantID:   "SomeCreator",
		},
		{
			name:    "empty URL",
			url:     "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			url:     "   ",
			wantErr: true,
		},
		{
			name:    "not a YouTube URL",
			url:     "https://example.com/channel/UC123",
			wantErr: true,
		},
		{
			name:    "bare youtube homepage",
			url:     "https://www.youtube.com/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.url, ref)
				}
				if !errors.Is(err, ErrInvalidURL) {
					t.Errorf("Parse(%q) error = %v, want ErrInvalidURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.url, err)
			}
			if ref.Kind != tt.wantKind {
				t.Errorf("Parse(%q) kind = %q, want %q", tt.url, ref.Kind, tt.wantKind)
			}
			if ref.ID != tt.wantID {
				t.Errorf("Parse(%q) id = %q, want %q", tt.url, ref.ID, tt.wantID)
			}
		})
	}
}

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/@SomeCreator", true},
		{"https://youtu.be/dQw4w9WgXcQ", true},
		{"https://example.com", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsYouTubeURL(tt.url); got != tt.want {
			t.Errorf("IsYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
