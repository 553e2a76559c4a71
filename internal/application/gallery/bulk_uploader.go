package gallery

import (
	"context"
	"errors"
	"strings"
)

// UploadStatus is the state of one file in a bulk upload
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
)

// UploadItem tracks one file through a bulk upload
type UploadItem struct {
	File   string       `json:"file"`
	Status UploadStatus `json:"status"`
	URL    string       `json:"url,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// FileUploader stores a file and returns its public URL
type FileUploader interface {
	UploadFile(ctx context.Context, file string) (string, error)
}

// BillCreator records a bill for an uploaded image
type BillCreator interface {
	CreateBill(ctx context.Context, req AddBillRequest) (*BillResponse, error)
}

// UploadObserver is told about every state change of an item
type UploadObserver func(index int, item UploadItem)

// BulkUploader uploads files one at a time and creates a bill for each
// successful upload. A failed item never stops the rest of the queue.
type BulkUploader struct {
	uploader FileUploader
	bills    BillCreator
	observer UploadObserver
}

// BulkUploaderOption configures a BulkUploader
type BulkUploaderOption func(*BulkUploader)

// WithObserver registers a callback for item state changes
func WithObserver(fn UploadObserver) BulkUploaderOption {
	return func(u *BulkUploader) {
		u.observer = fn
	}
}

// NewBulkUploader creates a new BulkUploader
func NewBulkUploader(uploader FileUploader, bills BillCreator, opts ...BulkUploaderOption) *BulkUploader {
	u := &BulkUploader{uploader: uploader, bills: bills}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run processes files in order. Every file gets the same description.
// When ctx is canceled the remaining items are marked as errors.
func (u *BulkUploader) Run(ctx context.Context, files []string, description string) []UploadItem {
	description = strings.TrimSpace(description)

	items := make([]UploadItem, len(files))
	for i, f := range files {
		items[i] = UploadItem{File: f, Status: StatusPending}
		u.notify(i, items[i])
	}

	for i := range items {
		if err := ctx.Err(); err != nil {
			u.fail(i, &items[i], err)
			continue
		}

		items[i].Status = StatusUploading
		u.notify(i, items[i])

		url, err := u.uploader.UploadFile(ctx, items[i].File)
		if err != nil {
			u.fail(i, &items[i], err)
			continue
		}
		items[i].URL = url

		if _, err := u.bills.CreateBill(ctx, AddBillRequest{ImageURL: url, Description: description}); err != nil {
			u.fail(i, &items[i], err)
			continue
		}

		items[i].Status = StatusSuccess
		u.notify(i, items[i])
	}
	return items
}

func (u *BulkUploader) fail(i int, item *UploadItem, err error) {
	item.Status = StatusError
	item.Error = err.Error()
	if errors.Is(err, context.Canceled) {
		item.Error = "canceled"
	}
	u.notify(i, *item)
}

func (u *BulkUploader) notify(i int, item UploadItem) {
	if u.observer != nil {
		u.observer(i, item)
	}
}

// Summary counts items by final status
func Summary(items []UploadItem) (succeeded, failed int) {
	for _, it := range items {
		switch it.Status {
		case StatusSuccess:
			succeeded++
		case StatusError:
			failed++
		}
	}
	return succeeded, failed
}
