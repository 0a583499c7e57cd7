// Copyright 2026 GridLink
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package s3 provides the object-storage connector. It lists bucket keys
// with their backend metadata and serves one-off "queries" by downloading a
// CSV object and parsing it into the normalized table shape. S3-compatible
// services work through the endpoint field.
package s3

import (
	"context"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"gridlink/backend/connectors/base"
)

// lastModifiedFormat matches the listing format grid consumers already
// parse, millisecond precision included.
const lastModifiedFormat = "2006-01-02T15:04:05.000Z"

// Connector implements base.Connector and base.ObjectLister for S3.
type Connector struct {
	client *awss3.Client
	bucket string
	logger *log.Logger
}

// New creates an S3 connector instance.
func New() *Connector {
	return &Connector{
		logger: log.New(os.Stdout, "[S3] ", log.LstdFlags),
	}
}

// Connect builds the client from accessKeyId / secretAccessKey / bucket
// fields and verifies the bucket is reachable. Rejected credentials are a
// query error (the service answered); an unreachable endpoint is a
// connection error.
func (c *Connector) Connect(ctx context.Context, fields map[string]string) error {
	bucket := fields["bucket"]
	if bucket == "" {
		return base.NewValidationError("bucket was not supplied.")
	}

	region := fields["region"]
	if region == "" {
		region = "us-east-1"
	}

	creds := credentials.NewStaticCredentialsProvider(
		fields["accessKeyId"], fields["secretAccessKey"], "")
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return base.NewConnectionError(err.Error(), err)
	}

	var opts []func(*awss3.Options)
	if endpoint := fields["endpoint"]; endpoint != "" {
		opts = append(opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, opts...)
	if _, err := client.HeadBucket(ctx, &awss3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return normalize(err)
	}

	c.client = client
	c.bucket = bucket
	return nil
}

// Disconnect releases the session. The SDK client holds no connection
// state of its own.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.client = nil
	return nil
}

// Query downloads the object named by statement and parses it as CSV: the
// first record holds the column names, numeric cells are coerced.
func (c *Connector) Query(ctx context.Context, statement string) (*base.Table, error) {
	if c.client == nil {
		return nil, base.NewConnectionError("storage not connected", nil)
	}

	out, err := c.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(statement),
	})
	if err != nil {
		return nil, normalize(err)
	}
	defer func() { _ = out.Body.Close() }()

	records, err := csv.NewReader(out.Body).ReadAll()
	if err != nil {
		return nil, base.NewQueryError(err.Error(), err)
	}
	if len(records) == 0 {
		return base.NewTable(nil, nil), nil
	}

	columns := records[0]
	rows := make([][]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]interface{}, len(record))
		for i, cell := range record {
			row[i] = coerce(cell)
		}
		rows = append(rows, row)
	}

	c.logger.Printf("parsed %d rows from %s", len(rows), statement)
	return base.NewTable(columns, rows), nil
}

// Tables is not supported: object storage has no schema to introspect.
func (c *Connector) Tables(ctx context.Context) ([]string, error) {
	return nil, base.NewValidationError("s3 does not support table listing.")
}

// ListObjects returns the bucket's keys with owner metadata, in the order
// the backend lists them. The ETag keeps the quoting the backend returned.
func (c *Connector) ListObjects(ctx context.Context) ([]base.ObjectMeta, error) {
	if c.client == nil {
		return nil, base.NewConnectionError("storage not connected", nil)
	}

	out, err := c.client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:     aws.String(c.bucket),
		FetchOwner: aws.Bool(true),
	})
	if err != nil {
		return nil, normalize(err)
	}

	keys := make([]base.ObjectMeta, 0, len(out.Contents))
	for _, obj := range out.Contents {
		meta := base.ObjectMeta{
			Key:          aws.ToString(obj.Key),
			ETag:         aws.ToString(obj.ETag),
			StorageClass: string(obj.StorageClass),
		}
		if obj.Size != nil {
			meta.Size = *obj.Size
		}
		if obj.LastModified != nil {
			meta.LastModified = obj.LastModified.UTC().Format(lastModifiedFormat)
		}
		if obj.Owner != nil {
			meta.Owner = base.ObjectOwner{
				DisplayName: aws.ToString(obj.Owner.DisplayName),
				ID:          aws.ToString(obj.Owner.ID),
			}
		}
		keys = append(keys, meta)
	}
	return keys, nil
}

// Dialect returns the connector tag.
func (c *Connector) Dialect() string {
	return "s3"
}

// coerce turns a CSV cell into a number when it cleanly parses as one.
func coerce(cell string) interface{} {
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

// normalize reclassifies an SDK error. A smithy API error means the service
// answered (bad keys, missing object): query error with the service's
// message. Anything else failed in transport.
func normalize(err error) *base.Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.ErrorMessage()
		if msg == "" {
			msg = apiErr.ErrorCode()
		}
		return base.NewQueryError(msg, err)
	}
	return base.NewConnectionError(err.Error(), err)
}

var (
	_ base.Connector    = (*Connector)(nil)
	_ base.ObjectLister = (*Connector)(nil)
)
