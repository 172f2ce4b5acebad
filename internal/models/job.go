package models

import (
	"fmt"
	"time"
)

type Operation string

const (
	OperationMerge     Operation = "merge"
	OperationCaption   Operation = "caption"
	OperationAddAudio  Operation = "add-audio"
	OperationWatermark Operation = "watermark"
	OperationOverlay   Operation = "overlay"
)

func (o Operation) Valid() bool {
	switch o {
	case OperationMerge, OperationCaption, OperationAddAudio, OperationWatermark, OperationOverlay:
		return true
	}
	return false
}

// MediaReference points at one input or output object, either by HTTP URL or
// by bucket/key pair. Exactly one addressing mode must be set. Index carries
// the position when the reference is part of an ordered sequence.
type MediaReference struct {
	URL    string `json:"url,omitempty"`
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`
	Index  int    `json:"index,omitempty"`
}

func (m MediaReference) IsURL() bool { return m.URL != "" }

func (m MediaReference) Validate() error {
	if m.URL != "" {
		if m.Bucket != "" || m.Key != "" {
			return fmt.Errorf("media reference must set either url or bucket/key, not both")
		}
		return nil
	}
	if m.Bucket == "" || m.Key == "" {
		return fmt.Errorf("media reference requires url or bucket and key")
	}
	return nil
}

func (m MediaReference) String() string {
	if m.IsURL() {
		return m.URL
	}
	return fmt.Sprintf("s3://%s/%s", m.Bucket, m.Key)
}

type MergeRequest struct {
	Inputs []MediaReference `json:"inputs" validate:"required,min=1"`
}

// CaptionPosition is either a named anchor or a percentage coordinate pair
// (0-100 on each axis, relative to the frame dimensions).
type CaptionPosition struct {
	Anchor string   `json:"anchor,omitempty" validate:"omitempty,oneof=top bottom center"`
	X      *float64 `json:"x,omitempty" validate:"omitempty,gte=0,lte=100"`
	Y      *float64 `json:"y,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type CaptionRequest struct {
	Input    MediaReference  `json:"input"`
	Text     string          `json:"text" validate:"required"`
	FontSize int             `json:"font_size" validate:"omitempty,gt=0"`
	Color    string          `json:"color"`
	Position CaptionPosition `json:"position"`
}

type AddAudioRequest struct {
	Input MediaReference `json:"input"`
	Audio MediaReference `json:"audio"`
	// Gain scales the mixed-in audio amplitude, 1.0 leaves it unchanged.
	Gain  float64 `json:"gain" validate:"gte=0"`
	Start float64 `json:"start" validate:"gte=0"`
}

type WatermarkRequest struct {
	Input   MediaReference `json:"input"`
	Image   MediaReference `json:"image"`
	Opacity float64        `json:"opacity" validate:"gte=0,lte=1"`
	// Scale is the watermark width as a fraction of the frame width.
	Scale    float64 `json:"scale" validate:"gt=0,lte=1"`
	Position string  `json:"position" validate:"omitempty,oneof=top-left top-right bottom-left bottom-right"`
}

type OverlayRequest struct {
	Input    MediaReference `json:"input"`
	Overlay  MediaReference `json:"overlay"`
	X        int            `json:"x" validate:"gte=0"`
	Y        int            `json:"y" validate:"gte=0"`
	Width    int            `json:"width" validate:"gt=0"`
	Height   int            `json:"height" validate:"gt=0"`
	Start    float64        `json:"start" validate:"gte=0"`
	Duration float64        `json:"duration" validate:"gt=0"`
}

// EditRequest is the tagged union submitted by clients. Operation selects
// which payload must be present; the rest stay nil.
type EditRequest struct {
	Operation Operation         `json:"operation" validate:"required"`
	Merge     *MergeRequest     `json:"merge,omitempty"`
	Caption   *CaptionRequest   `json:"caption,omitempty"`
	AddAudio  *AddAudioRequest  `json:"add_audio,omitempty"`
	Watermark *WatermarkRequest `json:"watermark,omitempty"`
	Overlay   *OverlayRequest   `json:"overlay,omitempty"`
}

// Inputs returns every media reference the request needs fetched, in order.
// The primary video is always first.
func (r *EditRequest) Inputs() []MediaReference {
	switch r.Operation {
	case OperationMerge:
		if r.Merge == nil {
			return nil
		}
		return r.Merge.Inputs
	case OperationCaption:
		if r.Caption == nil {
			return nil
		}
		return []MediaReference{r.Caption.Input}
	case OperationAddAudio:
		if r.AddAudio == nil {
			return nil
		}
		return []MediaReference{r.AddAudio.Input, r.AddAudio.Audio}
	case OperationWatermark:
		if r.Watermark == nil {
			return nil
		}
		return []MediaReference{r.Watermark.Input, r.Watermark.Image}
	case OperationOverlay:
		if r.Overlay == nil {
			return nil
		}
		return []MediaReference{r.Overlay.Input, r.Overlay.Overlay}
	}
	return nil
}

func (r *EditRequest) Validate() error {
	if !r.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", r.Operation)
	}
	inputs := r.Inputs()
	if len(inputs) == 0 {
		return fmt.Errorf("operation %s requires its payload", r.Operation)
	}
	for i, ref := range inputs {
		if err := ref.Validate(); err != nil {
			return fmt.Errorf("input %d: %w", i, err)
		}
	}
	return nil
}

// EditJob is the unit of work. Immutable once enqueued; JobID is the sole key
// across queue message, status document and scratch directory.
type EditJob struct {
	JobID     string      `json:"job_id"`
	Operation Operation   `json:"operation"`
	Request   EditRequest `json:"request"`
	CreatedAt time.Time   `json:"created_at"`
}

// JobDelivery is one received queue message plus the receipt data the
// dispatcher needs to acknowledge or divert it.
type JobDelivery struct {
	Job           *EditJob
	ReceiptHandle string
	ReceiveCount  int
}
