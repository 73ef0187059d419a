/*
Copyright © 2018 the ncvalidate authors.
This file is part of ncvalidate.

ncvalidate is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ncvalidate is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ncvalidate.  If not, see <http://www.gnu.org/licenses/>.
*/

package ncvalidateutil

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/google/go-cloud/blob"
	"github.com/google/go-cloud/blob/fileblob"
	"github.com/google/go-cloud/blob/gcsblob"
	"github.com/google/go-cloud/blob/s3blob"
	"github.com/google/go-cloud/gcp"
	"github.com/sirupsen/logrus"
)

// maybeDownload checks if the input is an existing local file.
// If not, and it is a URL or a blob storage location, it downloads the
// file to a temporary directory and returns the path to the downloaded
// file along with a function that removes it.
// If the download fails, the error is logged and the original path is
// returned, so that opening it fails later with a useful message.
func maybeDownload(ctx context.Context, p string, log logrus.FieldLogger) (string, func()) {
	noop := func() {}

	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, noop
	}

	var download func(context.Context, string, io.Writer) error
	switch {
	case strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://"):
		download = func(ctx context.Context, u string, w io.Writer) error {
			return downloadHTTP(ctx, u, w, log)
		}
	case isBlob(p):
		download = downloadBlob
	default:
		return p, noop
	}

	dir, err := ioutil.TempDir("", "ncvalidate")
	if err != nil {
		log.WithField("path", p).Errorf("creating temporary download directory: %v", err)
		return p, noop
	}
	cleanup := func() { os.RemoveAll(dir) }

	local := filepath.Join(dir, downloadName(p))
	w, err := os.Create(local)
	if err != nil {
		log.WithField("path", p).Errorf("creating file for download: %v", err)
		cleanup()
		return p, noop
	}
	err = download(ctx, p, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.WithField("path", p).Errorf("downloading: %v", err)
		cleanup()
		return p, noop
	}
	log.WithField("path", p).Debugf("downloaded to %s", local)
	return local, cleanup
}

// downloadName returns the file name to save the download of p as.
func downloadName(p string) string {
	u, err := url.Parse(p)
	if err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return "download.nc"
}

// downloadHTTP copies the file at the specified URL to w, retrying
// requests that fail to get a response.
func downloadHTTP(ctx context.Context, p string, w io.Writer, log logrus.FieldLogger) error {
	req, err := http.NewRequest(http.MethodGet, p, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	var resp *http.Response
	err = backoff.RetryNotify(
		func() error {
			resp, err = http.DefaultClient.Do(req)
			return err
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
		func(err error, d time.Duration) {
			log.WithField("path", p).Warnf("%v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", p, resp.Status)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// maxRetries is the number of times a failed HTTP request is retried.
const maxRetries = 3

// bucketOpeners open the bucket of each supported blob storage scheme:
// "file" for the local filesystem, "gs" for Google Cloud Storage and
// "s3" for AWS S3.
var bucketOpeners = map[string]func(ctx context.Context, name string) (*blob.Bucket, error){
	"file": func(_ context.Context, dir string) (*blob.Bucket, error) { return fileblob.NewBucket(dir) },
	"gs":   gsBucket,
	"s3":   s3Bucket,
}

// isBlob returns whether p is a blob storage location such as
// gs://bucket/glider.nc.
func isBlob(p string) bool {
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	_, ok := bucketOpeners[u.Scheme]
	return ok
}

// downloadBlob copies the file at blob storage location p to w.
// The host part of p is the bucket and the path is the key.
func downloadBlob(ctx context.Context, p string, w io.Writer) error {
	u, err := url.Parse(p)
	if err != nil {
		return err
	}
	bucket, err := openBucket(ctx, u.Scheme, u.Host)
	if err != nil {
		return err
	}
	r, err := bucket.NewReader(ctx, strings.TrimPrefix(u.Path, "/"))
	if err != nil {
		return fmt.Errorf("ncvalidate: reading %s: %v", p, err)
	}
	defer r.Close()
	_, err = io.Copy(w, r)
	return err
}

// openBucket opens the bucket called name in the storage system
// identified by scheme.
func openBucket(ctx context.Context, scheme, name string) (*blob.Bucket, error) {
	open, ok := bucketOpeners[scheme]
	if !ok {
		return nil, fmt.Errorf("ncvalidate: unsupported blob storage scheme %q", scheme)
	}
	b, err := open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ncvalidate: opening %s bucket %s: %v", scheme, name, err)
	}
	return b, nil
}

// gsBucket opens a Google Cloud Storage bucket using the application
// default credentials.
func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, name, c)
}

func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	s, err := s3Session()
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name)
}

// defaultS3Region is used when no region is set in the environment or
// the shared AWS configuration.
const defaultS3Region = "us-east-2"

// s3Session returns an AWS session using the SDK's default credential
// chain and shared configuration.
func s3Session() (*session.Session, error) {
	s, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}
	if aws.StringValue(s.Config.Region) == "" {
		s.Config.Region = aws.String(defaultS3Region)
	}
	return s, nil
}
