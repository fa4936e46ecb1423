package ocr

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// Vision implements the TextExtractor interface using Google Cloud Vision
// document text detection.
type Vision struct {
	client *vision.ImageAnnotatorClient
}

// NewVision creates a new Vision TextExtractor instance. When credentialsFile
// is empty the client falls back to application default credentials.
func NewVision(ctx context.Context, credentialsFile string) (*Vision, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}

	return &Vision{client: client}, nil
}

// ExtractText runs document text detection over the image bytes
func (v *Vision) ExtractText(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("detecting document text: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", fmt.Errorf("detecting document text: empty batch response")
	}
	return textFromAnnotateResponse(resp.GetResponses()[0])
}

// textFromAnnotateResponse unwraps a single annotation result. A missing full
// text annotation means no text was detected, which is a valid empty result.
func textFromAnnotateResponse(res *visionpb.AnnotateImageResponse) (string, error) {
	if status := res.GetError(); status != nil {
		return "", fmt.Errorf("annotating image: %s", status.GetMessage())
	}
	return res.GetFullTextAnnotation().GetText(), nil
}

// Close closes the Vision client
func (v *Vision) Close() error {
	return v.client.Close()
}
