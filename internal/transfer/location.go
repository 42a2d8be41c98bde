// Package transfer copies files between the local filesystem and an S3
// compatible object store, and downloads the raw dataset over HTTP.
//
// Remote objects are addressed by a Location, parsed from either
// "s3://bucket/key" or the bare "bucket/key" form.
package transfer

import (
	"fmt"
	"strings"
)

// Location is a bucket and key pair.
type Location struct {
	Bucket string
	Key    string
}

// String returns the location in s3:// URL form.
func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

func (l Location) validate() error {
	if l.Bucket == "" || l.Key == "" {
		return &InvalidLocationError{Input: l.Bucket + "/" + l.Key, Reason: "bucket and key must both be set"}
	}
	return nil
}

// InvalidLocationError reports a malformed bucket/key string.
type InvalidLocationError struct {
	Input  string
	Reason string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("invalid location %q: %s", e.Input, e.Reason)
}

// ParseLocation splits "bucket/key" or "s3://bucket/key" into its parts.
// The first path segment is the bucket and the remainder is the key.
func ParseLocation(path string) (Location, error) {
	s := strings.TrimSpace(path)
	s = strings.TrimPrefix(s, "s3://")

	bucket, key, ok := strings.Cut(s, "/")
	if !ok {
		return Location{}, &InvalidLocationError{Input: path, Reason: "missing '/' between bucket and key"}
	}
	if bucket == "" {
		return Location{}, &InvalidLocationError{Input: path, Reason: "empty bucket"}
	}
	if key == "" {
		return Location{}, &InvalidLocationError{Input: path, Reason: "empty key"}
	}
	return Location{Bucket: bucket, Key: key}, nil
}
