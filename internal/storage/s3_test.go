package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	objects map[string][]byte
	headErr error
	putErr  error
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func TestExists(t *testing.T) {
	store := NewS3Store(&fakeS3{objects: map[string][]byte{"a.mp3": nil}}, "bucket", "eu-west-1")

	ok, err := store.Exists(context.Background(), "a.mp3")
	if err != nil || !ok {
		t.Errorf("Exists(a.mp3) = %v, %v", ok, err)
	}
	ok, err = store.Exists(context.Background(), "b.mp3")
	if err != nil || ok {
		t.Errorf("Exists(b.mp3) = %v, %v", ok, err)
	}
}

func TestExistsPropagatesRealErrors(t *testing.T) {
	store := NewS3Store(&fakeS3{headErr: errors.New("access denied")}, "bucket", "eu-west-1")
	if _, err := store.Exists(context.Background(), "a.mp3"); err == nil {
		t.Fatal("expected error")
	}
}

func TestUploadAudio(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3Store(fake, "iglesia-audio", "eu-west-1")

	url, err := store.UploadAudio(context.Background(), "20250518-homilia.mp3", []byte("mp3data"))
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	want := "https://iglesia-audio.s3.eu-west-1.amazonaws.com/20250518-homilia.mp3"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if string(fake.objects["20250518-homilia.mp3"]) != "mp3data" {
		t.Errorf("stored = %q", fake.objects["20250518-homilia.mp3"])
	}
}

func TestPublicURLDefaultRegion(t *testing.T) {
	store := NewS3Store(&fakeS3{}, "b", "")
	if got := store.PublicURL("k.mp3"); got != "https://b.s3.us-east-1.amazonaws.com/k.mp3" {
		t.Errorf("url = %q", got)
	}
}
