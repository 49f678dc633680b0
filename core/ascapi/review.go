package ascapi

import (
	"context"
	"fmt"
)

// GetReviewScreenshot returns the subscription's review screenshot, or nil.
func (c *Client) GetReviewScreenshot(ctx context.Context, subID string) (*Resource, error) {
	return c.Get(ctx, "/subscriptions/"+subID+"/appStoreReviewScreenshot", nil)
}

// ReserveReviewScreenshot reserves an upload slot for a screenshot file.
func (c *Client) ReserveReviewScreenshot(ctx context.Context, subID, fileName string, fileSize int64) Outcome {
	return c.Create(ctx, "/subscriptionAppStoreReviewScreenshots", Resource{
		Type:          "subscriptionAppStoreReviewScreenshots",
		Attributes:    map[string]any{"fileName": fileName, "fileSize": fileSize},
		Relationships: map[string]Relationship{"subscription": One("subscriptions", subID)},
	})
}

// CommitReviewScreenshot marks the reserved screenshot as uploaded.
func (c *Client) CommitReviewScreenshot(ctx context.Context, screenshotID, checksum string) error {
	_, err := c.Patch(ctx, "/subscriptionAppStoreReviewScreenshots/"+screenshotID, Resource{
		Type: "subscriptionAppStoreReviewScreenshots",
		ID:   screenshotID,
		Attributes: map[string]any{
			"sourceFileChecksum": checksum,
			"uploaded":           true,
		},
	})
	return err
}

// UploadOperations decodes the chunk destinations of a reservation.
func UploadOperations(r *Resource) ([]UploadOperation, error) {
	if r == nil {
		return nil, fmt.Errorf("reservation has no data")
	}
	var attrs struct {
		UploadOperations []UploadOperation `json:"uploadOperations"`
	}
	if err := r.DecodeAttributes(&attrs); err != nil {
		return nil, fmt.Errorf("decode upload operations: %w", err)
	}
	for i := range attrs.UploadOperations {
		if attrs.UploadOperations[i].Method == "" {
			attrs.UploadOperations[i].Method = "PUT"
		}
	}
	return attrs.UploadOperations, nil
}
