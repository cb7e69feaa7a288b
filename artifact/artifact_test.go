package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

var testSet = Set{
	RuntimeWithPush0:    []byte{0x5f, 0x5f, 0xf3},
	RuntimeWithoutPush0: []byte{0x60, 0x00, 0x80, 0xf3},
	Initcode:            []byte{0x61, 0x00, 0x03},
}

func TestSaveDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	require.NoError(t, Save(context.Background(), Dir(dir), testSet))

	tests := map[string]string{
		RuntimeWithPush0:    "5f5ff3",
		RuntimeWithoutPush0: "600080f3",
		Initcode:            "610003",
	}
	for name, want := range tests {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		require.Equal(t, want, string(got), name)
	}
}

type fakeS3 struct {
	objects map[string]string
	fail    bool
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.fail {
		return nil, fmt.Errorf("access denied")
	}
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func TestSaveS3(t *testing.T) {
	client := &fakeS3{}
	store := &S3{Client: client, Bucket: "builds", Prefix: "/yulpack/v1/"}
	require.NoError(t, Save(context.Background(), store, testSet))
	require.Equal(t, map[string]string{
		"builds/yulpack/v1/runtime_with_push0.txt":    "5f5ff3",
		"builds/yulpack/v1/runtime_without_push0.txt": "600080f3",
		"builds/yulpack/v1/initcode.txt":              "610003",
	}, client.objects)
	require.Equal(t, "s3://builds/yulpack/v1", store.Location())
}

func TestSaveS3Failure(t *testing.T) {
	store := &S3{Client: &fakeS3{fail: true}, Bucket: "builds"}
	err := Save(context.Background(), store, testSet)
	require.ErrorContains(t, err, "save runtime_with_push0.txt")
}

func TestS3Key(t *testing.T) {
	require.Equal(t, "initcode.txt", (&S3{}).Key(Initcode))
	require.Equal(t, "a/b/initcode.txt", (&S3{Prefix: "a/b"}).Key(Initcode))
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), "build/out")
	require.NoError(t, err)
	require.Equal(t, Dir("build/out"), store)

	_, err = Open(context.Background(), "s3:///prefix")
	require.ErrorContains(t, err, "missing bucket")

	_, err = Open(context.Background(), "")
	require.Error(t, err)
}

func TestDirCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()
	require.ErrorIs(t, Dir(dir).Put(ctx, Initcode, "00"), context.Canceled)
	_, err := os.Stat(filepath.Join(dir, Initcode))
	require.True(t, os.IsNotExist(err))
}
