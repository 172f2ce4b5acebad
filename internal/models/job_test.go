package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMediaReferenceValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		ref     MediaReference
		wantErr bool
	}{
		{name: "url only", ref: MediaReference{URL: "https://cdn.example.com/a.mp4"}},
		{name: "bucket and key", ref: MediaReference{Bucket: "media", Key: "in/a.mp4"}},
		{name: "both modes set", ref: MediaReference{URL: "https://x/a.mp4", Bucket: "media", Key: "a.mp4"}, wantErr: true},
		{name: "bucket without key", ref: MediaReference{Bucket: "media"}, wantErr: true},
		{name: "empty", ref: MediaReference{}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.ref.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMediaReferenceString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://cdn.example.com/a.mp4", MediaReference{URL: "https://cdn.example.com/a.mp4"}.String())
	require.Equal(t, "s3://media/in/a.mp4", MediaReference{Bucket: "media", Key: "in/a.mp4"}.String())
}

func TestEditRequestInputsOrder(t *testing.T) {
	t.Parallel()

	req := &EditRequest{
		Operation: OperationAddAudio,
		AddAudio: &AddAudioRequest{
			Input: MediaReference{Bucket: "media", Key: "video.mp4"},
			Audio: MediaReference{Bucket: "media", Key: "track.mp3"},
			Gain:  1,
		},
	}
	inputs := req.Inputs()
	require.Len(t, inputs, 2)
	require.Equal(t, "video.mp4", inputs[0].Key, "primary video must come first")
	require.Equal(t, "track.mp3", inputs[1].Key)

	merge := &EditRequest{
		Operation: OperationMerge,
		Merge: &MergeRequest{Inputs: []MediaReference{
			{URL: "https://x/1.mp4"},
			{URL: "https://x/2.mp4"},
			{URL: "https://x/3.mp4"},
		}},
	}
	got := merge.Inputs()
	require.Len(t, got, 3)
	for i, ref := range got {
		require.Equal(t, merge.Merge.Inputs[i].URL, ref.URL)
	}
}

func TestEditRequestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		req     EditRequest
		wantErr bool
	}{
		{
			name: "valid merge",
			req: EditRequest{
				Operation: OperationMerge,
				Merge:     &MergeRequest{Inputs: []MediaReference{{URL: "https://x/a.mp4"}}},
			},
		},
		{
			name: "valid overlay",
			req: EditRequest{
				Operation: OperationOverlay,
				Overlay: &OverlayRequest{
					Input:    MediaReference{Bucket: "b", Key: "main.mp4"},
					Overlay:  MediaReference{Bucket: "b", Key: "clip.mp4"},
					Width:    320,
					Height:   180,
					Duration: 5,
				},
			},
		},
		{
			name:    "unknown operation",
			req:     EditRequest{Operation: "transcode"},
			wantErr: true,
		},
		{
			name:    "missing payload",
			req:     EditRequest{Operation: OperationCaption},
			wantErr: true,
		},
		{
			name: "invalid input inside payload",
			req: EditRequest{
				Operation: OperationCaption,
				Caption: &CaptionRequest{
					Input: MediaReference{Bucket: "b"},
					Text:  "hello",
				},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.req.Validate()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
