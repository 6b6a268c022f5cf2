package storage

import "time"

// PutOption configures Put operations.
type PutOption func(*PutOptions)

// PutOptions is the resolved Put configuration. Exported so backends
// outside this package can implement Storage.
type PutOptions struct {
	// ContentType stored with the object. Defaults to application/octet-stream.
	ContentType string

	// Secure stores the object privately; on S3 it is only reachable
	// through signed URLs.
	Secure bool
}

// NewPutOptions resolves options to their final values.
func NewPutOptions(opts ...PutOption) PutOptions {
	o := PutOptions{ContentType: "application/octet-stream"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithContentType sets the Content-Type stored with the object.
func WithContentType(ct string) PutOption {
	return func(o *PutOptions) {
		o.ContentType = ct
	}
}

// WithSecure stores the object privately.
func WithSecure(secure bool) PutOption {
	return func(o *PutOptions) {
		o.Secure = secure
	}
}

// URLOption configures URL generation.
type URLOption func(*URLOptions)

// URLOptions is the resolved URL configuration.
type URLOptions struct {
	// DownloadName forces Content-Disposition: attachment with this filename.
	DownloadName string

	// Expiry bounds signed URL validity.
	Expiry time.Duration

	// ForceSigned requests a signed URL on backends that support signing.
	ForceSigned bool
}

// DefaultURLExpiry is the default expiry for signed URLs.
const DefaultURLExpiry = 15 * time.Minute

// NewURLOptions resolves options to their final values.
func NewURLOptions(opts ...URLOption) URLOptions {
	o := URLOptions{Expiry: DefaultURLExpiry}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithExpiry sets the expiry duration for signed URLs.
// Default is 15 minutes.
func WithExpiry(d time.Duration) URLOption {
	return func(o *URLOptions) {
		o.Expiry = d
	}
}

// WithSigned forces a signed URL regardless of how the object was stored.
func WithSigned() URLOption {
	return func(o *URLOptions) {
		o.ForceSigned = true
	}
}

// WithDownload sets the filename for a Content-Disposition: attachment
// header. Implies a signed URL on backends that support it.
func WithDownload(filename string) URLOption {
	return func(o *URLOptions) {
		o.DownloadName = filename
		o.ForceSigned = true
	}
}
