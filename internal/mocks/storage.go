package mocks

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/prudhvinik1/fastcarsales/internal/scanner"
)

type ObjectStore struct {
	mock.Mock
}

func (m *ObjectStore) Put(ctx context.Context, name string, data []byte, contentType string) error {
	args := m.Called(ctx, name, data, contentType)
	return args.Error(0)
}

func (m *ObjectStore) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *ObjectStore) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *ObjectStore) PresignedGetURL(ctx context.Context, name string, expiry time.Duration) (*url.URL, error) {
	args := m.Called(ctx, name, expiry)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

type MalwareScanner struct {
	mock.Mock
}

func (m *MalwareScanner) Scan(ctx context.Context, r io.Reader) (scanner.Verdict, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(scanner.Verdict), args.Error(1)
}

type ImageStorage struct {
	mock.Mock
}

func (m *ImageStorage) UploadImage(ctx context.Context, data []byte) (string, string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *ImageStorage) GetPresignedURL(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *ImageStorage) DeleteFile(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}
