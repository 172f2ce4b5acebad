package worker

import (
	"testing"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestResolveCaptionPosition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pos     models.CaptionPosition
		width   int
		height  int
		wantX   string
		wantY   string
		wantErr bool
	}{
		{
			name:   "percentages map to exact pixels",
			pos:    models.CaptionPosition{X: floatPtr(50), Y: floatPtr(90)},
			width:  1920,
			height: 1080,
			wantX:  "960",
			wantY:  "972",
		},
		{
			name:   "fractional pixels round half up",
			pos:    models.CaptionPosition{X: floatPtr(50), Y: floatPtr(50)},
			width:  3,
			height: 5,
			wantX:  "2",
			wantY:  "3",
		},
		{
			name:   "zero percent is the edge",
			pos:    models.CaptionPosition{X: floatPtr(0), Y: floatPtr(100)},
			width:  1280,
			height: 720,
			wantX:  "0",
			wantY:  "720",
		},
		{
			name:   "top anchor",
			pos:    models.CaptionPosition{Anchor: "top"},
			width:  1920,
			height: 1080,
			wantX:  "(w-text_w)/2",
			wantY:  "20",
		},
		{
			name:   "center anchor",
			pos:    models.CaptionPosition{Anchor: "center"},
			width:  1920,
			height: 1080,
			wantX:  "(w-text_w)/2",
			wantY:  "(h-text_h)/2",
		},
		{
			name:   "bottom anchor keeps edge margin",
			pos:    models.CaptionPosition{Anchor: "bottom"},
			width:  1920,
			height: 1080,
			wantX:  "(w-text_w)/2",
			wantY:  "h-text_h-20",
		},
		{
			name:   "empty position defaults to bottom",
			pos:    models.CaptionPosition{},
			width:  1920,
			height: 1080,
			wantX:  "(w-text_w)/2",
			wantY:  "h-text_h-20",
		},
		{
			name:    "x without y",
			pos:     models.CaptionPosition{X: floatPtr(50)},
			width:   1920,
			height:  1080,
			wantErr: true,
		},
		{
			name:    "unknown anchor",
			pos:     models.CaptionPosition{Anchor: "left"},
			width:   1920,
			height:  1080,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			x, y, err := ResolveCaptionPosition(tc.pos, tc.width, tc.height)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantX, x)
			require.Equal(t, tc.wantY, y)
		})
	}
}

func TestEscapeDrawText(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hello world", escapeDrawText("hello world"))
	require.Equal(t, `12\:30`, escapeDrawText("12:30"))
	require.Equal(t, `it'\''s`, escapeDrawText("it's"))
}
