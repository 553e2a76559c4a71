package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls []string
	fail  map[string]error
}

func (f *fakeUploader) UploadFile(_ context.Context, file string) (string, error) {
	f.calls = append(f.calls, file)
	if err := f.fail[file]; err != nil {
		return "", err
	}
	return "/uploads/" + file, nil
}

type fakeBillCreator struct {
	created []AddBillRequest
	err     error
}

func (f *fakeBillCreator) CreateBill(_ context.Context, req AddBillRequest) (*BillResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &BillResponse{ID: "bill-" + req.ImageURL, ImageURL: req.ImageURL, CreatedAt: time.Now()}, nil
}

func TestBulkUploader_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("failure does not abort the queue", func(t *testing.T) {
		uploader := &fakeUploader{fail: map[string]error{"b.png": errors.New("File too large. Max 10MB allowed.")}}
		bills := &fakeBillCreator{}

		items := NewBulkUploader(uploader, bills).Run(ctx, []string{"a.png", "b.png", "c.png"}, " March bills ")

		require.Len(t, items, 3)
		assert.Equal(t, StatusSuccess, items[0].Status)
		assert.Equal(t, "/uploads/a.png", items[0].URL)
		assert.Equal(t, StatusError, items[1].Status)
		assert.Equal(t, "File too large. Max 10MB allowed.", items[1].Error)
		assert.Equal(t, StatusSuccess, items[2].Status)

		assert.Equal(t, []string{"a.png", "b.png", "c.png"}, uploader.calls)
		require.Len(t, bills.created, 2)
		assert.Equal(t, "March bills", bills.created[0].Description)
		assert.Equal(t, "/uploads/c.png", bills.created[1].ImageURL)

		ok, failed := Summary(items)
		assert.Equal(t, 2, ok)
		assert.Equal(t, 1, failed)
	})

	t.Run("observer sees every transition in order", func(t *testing.T) {
		var seen []UploadStatus
		observer := func(i int, item UploadItem) {
			if i == 0 {
				seen = append(seen, item.Status)
			}
		}

		NewBulkUploader(&fakeUploader{}, &fakeBillCreator{}, WithObserver(observer)).
			Run(ctx, []string{"a.png"}, "")

		assert.Equal(t, []UploadStatus{StatusPending, StatusUploading, StatusSuccess}, seen)
	})

	t.Run("bill creation failure marks item as error", func(t *testing.T) {
		bills := &fakeBillCreator{err: errors.New("Failed to add bill")}

		items := NewBulkUploader(&fakeUploader{}, bills).Run(ctx, []string{"a.png"}, "")

		assert.Equal(t, StatusError, items[0].Status)
		assert.Equal(t, "/uploads/a.png", items[0].URL)
		assert.Equal(t, "Failed to add bill", items[0].Error)
	})

	t.Run("canceled context skips remaining uploads", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		uploader := &fakeUploader{}

		items := NewBulkUploader(uploader, &fakeBillCreator{}).Run(cctx, []string{"a.png", "b.png"}, "")

		assert.Empty(t, uploader.calls)
		for _, it := range items {
			assert.Equal(t, StatusError, it.Status)
			assert.Equal(t, "canceled", it.Error)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		items := NewBulkUploader(&fakeUploader{}, &fakeBillCreator{}).Run(ctx, nil, "")
		assert.Empty(t, items)
	})
}
