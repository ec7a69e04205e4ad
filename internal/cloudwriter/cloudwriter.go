package cloudwriter

import "io"

// CloudWriter buffers bytes and flushes them to object storage on Close.
type CloudWriter interface {
	io.WriteCloser
}

// CloudWriterFactory creates writers bound to a bucket and object path.
type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
