package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpscale(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{
			name: "path size segment",
			in:   "https://cdn.example.com/img/480x320/tour.jpg",
			want: "https://cdn.example.com/img/1024x768/tour.jpg",
		},
		{
			name: "numeric trailing segment",
			in:   "https://images.example.com/photo/12345/400",
			want: "https://images.example.com/photo/12345/1024",
		},
		{
			name: "numeric trailing segment before query",
			in:   "https://images.example.com/photo/400?fit=crop",
			want: "https://images.example.com/photo/1024?fit=crop",
		},
		{
			name: "hyphen size",
			in:   "https://cdn.example.com/tour-480x320-main.jpg",
			want: "https://cdn.example.com/tour-1024x768-main.jpg",
		},
		{
			name: "underscore size",
			in:   "https://cdn.example.com/tour_480x320_main.jpg",
			want: "https://cdn.example.com/tour_1024x768_main.jpg",
		},
		{
			name: "query width and height",
			in:   "https://cdn.example.com/tour.jpg?w=300&h=200&q=80",
			want: "https://cdn.example.com/tour.jpg?w=1024&h=768&q=80",
		},
		{
			name: "long query names",
			in:   "https://cdn.example.com/tour.jpg?quality=80&width=300&height=200",
			want: "https://cdn.example.com/tour.jpg?quality=80&width=1024&height=768",
		},
		{
			name: "patterns combine",
			in:   "https://cdn.example.com/320x240/tour_320x240_x.jpg?w=320",
			want: "https://cdn.example.com/1024x768/tour_1024x768_x.jpg?w=1024",
		},
		{
			name:  "custom width",
			in:    "https://cdn.example.com/img/480x320/tour.jpg",
			width: 1600,
			want:  "https://cdn.example.com/img/1600x1200/tour.jpg",
		},
		{
			name: "nothing to rewrite",
			in:   "https://cdn.example.com/tour.jpg?quality=80&aw=300",
			want: "https://cdn.example.com/tour.jpg?quality=80&aw=300",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			width := tt.width
			if width == 0 {
				width = DefaultTargetWidth
			}
			assert.Equal(t, tt.want, Upscale(tt.in, width))
		})
	}
}
