package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects map[string]string
	pages   [][]string
	putLen  int64
	putType string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = string(b)
	f.putLen = aws.ToInt64(in.ContentLength)
	f.putType = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	v, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(v)), ContentLength: aws.Int64(int64(len(v)))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := 0
	if in.ContinuationToken != nil {
		page = int(aws.ToString(in.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[page] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(1)})
	}
	if page+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func TestS3PutBuffersUnknownSize(t *testing.T) {
	t.Parallel()
	f := &fakeS3{objects: map[string]string{}}
	s := &S3{cfg: S3Config{Bucket: "b"}, api: f}

	if err := s.Put(context.Background(), "/art/x.png", strings.NewReader("12345"), -1, "image/png"); err != nil {
		t.Fatal(err)
	}
	if f.objects["art/x.png"] != "12345" || f.putLen != 5 || f.putType != "image/png" {
		t.Fatalf("put = %+v", f)
	}
}

func TestS3GetMissing(t *testing.T) {
	t.Parallel()
	s := &S3{cfg: S3Config{Bucket: "b"}, api: &fakeS3{objects: map[string]string{}}}
	if _, _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestS3ListFollowsContinuation(t *testing.T) {
	t.Parallel()
	f := &fakeS3{pages: [][]string{{"a", "b"}, {"c"}, {"d"}}}
	s := &S3{cfg: S3Config{Bucket: "b"}, api: f}
	var got []string
	if err := s.List(context.Background(), "", func(o Object) error {
		got = append(got, o.Key)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "") != "abcd" {
		t.Fatalf("keys = %v", got)
	}
}

func TestS3URL(t *testing.T) {
	t.Parallel()
	pub := &S3{cfg: S3Config{PublicBaseURL: "https://media.example.com/"}}
	if u, _ := pub.URL(context.Background(), "art/a b.png"); u != "https://media.example.com/art/a%20b.png" {
		t.Fatalf("public URL = %q", u)
	}
	signed := &S3{presign: func(_ context.Context, key string) (string, error) { return "signed:" + key, nil }}
	if u, _ := signed.URL(context.Background(), "k"); u != "signed:k" {
		t.Fatalf("presigned URL = %q", u)
	}
}
