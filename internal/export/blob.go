package export

import (
	"context"
	"errors"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/events"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobExporter writes flow snapshots as JSON records using gocloud.dev/blob,
// supporting S3, GCS, Azure Blob Storage, local files and memory buckets
type BlobExporter struct {
	bucket *blob.Bucket
	prefix string
}

var ErrExportNotFound = errors.New("flow export not found")

func NewBlobExporter(
	ctx context.Context, bucketURL, prefix string,
) (*BlobExporter, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &BlobExporter{bucket: bucket, prefix: prefix}, nil
}

// Export stores the items of a flow and returns the object key
func (e *BlobExporter) Export(
	ctx context.Context, flowID api.FlowID, items []api.FlowItem,
) (string, error) {
	data, err := api.MarshalRecords(items)
	if err != nil {
		return "", err
	}
	key := e.KeyFor(flowID)
	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := e.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return "", err
	}
	return key, nil
}

// Read loads the last export of a flow
func (e *BlobExporter) Read(
	ctx context.Context, flowID api.FlowID,
) ([]api.FlowItem, error) {
	data, err := e.bucket.ReadAll(ctx, e.KeyFor(flowID))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrExportNotFound
		}
		return nil, err
	}
	return api.UnmarshalRecords(data)
}

func (e *BlobExporter) Delete(ctx context.Context, flowID api.FlowID) error {
	err := e.bucket.Delete(ctx, e.KeyFor(flowID))
	if err != nil && gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}
	return err
}

func (e *BlobExporter) Close() error {
	return e.bucket.Close()
}

// KeyFor returns the object key a flow is exported under
func (e *BlobExporter) KeyFor(flowID api.FlowID) string {
	prefix := e.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + events.FlowKey(flowID).Join("/") + ".json"
}
