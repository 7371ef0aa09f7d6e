//go:build windows

package smtc

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/zzl/go-win32api/v2/win32"
	"github.com/zzl/go-winrtapi/winrt"
	"go.uber.org/zap"
)

const (
	uriClassName         = "Windows.Foundation.Uri"
	streamRefClassName   = "Windows.Storage.Streams.RandomAccessStreamReference"
	storageFileClassName = "Windows.Storage.StorageFile"

	// asyncPollInterval is how often a pending storage lookup is checked
	asyncPollInterval = 10 * time.Millisecond
)

// ArtworkBackend creates RandomAccessStreamReference thumbnails
type ArtworkBackend struct {
	logger *zap.Logger
}

// NewArtworkBackend creates a backend using the Windows storage APIs
func NewArtworkBackend(logger *zap.Logger) *ArtworkBackend {
	return &ArtworkBackend{logger: logger}
}

func activationFactory[T any](className string, iid *win32.GUID) (*T, error) {
	hs := winrt.NewHStr(className)
	defer hs.Dispose()

	var factory *T
	hr := win32.RoGetActivationFactory(hs.Ptr, iid, unsafe.Pointer(&factory))
	if win32.FAILED(hr) || factory == nil {
		return nil, fmt.Errorf("%s activation factory: %s", className, win32.HRESULT_ToString(hr))
	}
	return factory, nil
}

func (b *ArtworkBackend) FromURI(uri string) (domain.Thumbnail, error) {
	uriFactory, err := activationFactory[winrt.IUriRuntimeClassFactory](uriClassName, &winrt.IID_IUriRuntimeClassFactory)
	if err != nil {
		return nil, err
	}
	defer uriFactory.Release()

	u := uriFactory.CreateUri(uri)
	if u == nil {
		return nil, fmt.Errorf("invalid uri %q", uri)
	}
	defer u.Release()

	statics, err := activationFactory[winrt.IRandomAccessStreamReferenceStatics](streamRefClassName, &winrt.IID_IRandomAccessStreamReferenceStatics)
	if err != nil {
		return nil, err
	}
	defer statics.Release()

	ref := statics.CreateFromUri(u)
	if ref == nil {
		return nil, fmt.Errorf("cannot create stream for %s", uri)
	}
	return ref, nil
}

// LookupFile waits for StorageFile.GetFileFromPathAsync, cancelling it when ctx is done
func (b *ArtworkBackend) LookupFile(ctx context.Context, path string) (domain.FileRef, error) {
	statics, err := activationFactory[winrt.IStorageFileStatics](storageFileClassName, &winrt.IID_IStorageFileStatics)
	if err != nil {
		return nil, err
	}
	defer statics.Release()

	op := statics.GetFileFromPathAsync(path)
	if op == nil {
		return nil, fmt.Errorf("cannot open %s", path)
	}
	defer op.Release()

	var info *winrt.IAsyncInfo
	hr := op.QueryInterface(&winrt.IID_IAsyncInfo, unsafe.Pointer(&info))
	if win32.FAILED(hr) || info == nil {
		return nil, fmt.Errorf("query IAsyncInfo: %s", win32.HRESULT_ToString(hr))
	}
	defer info.Release()

	ticker := time.NewTicker(asyncPollInterval)
	defer ticker.Stop()

	for info.Get_Status() == winrt.AsyncStatus_Started {
		select {
		case <-ctx.Done():
			info.Cancel()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	switch status := info.Get_Status(); status {
	case winrt.AsyncStatus_Completed:
		file := op.GetResults()
		if file == nil {
			return nil, fmt.Errorf("no storage file for %s", path)
		}
		return file, nil
	case winrt.AsyncStatus_Canceled:
		return nil, context.Canceled
	default:
		code := info.Get_ErrorCode()
		return nil, fmt.Errorf("open %s: %s", path, win32.HRESULT_ToString(win32.HRESULT(code.Value)))
	}
}

func (b *ArtworkBackend) FromFile(file domain.FileRef) (domain.Thumbnail, error) {
	storageFile, ok := file.(*winrt.IStorageFile)
	if !ok {
		return nil, errors.New("unexpected file reference")
	}
	defer storageFile.Release()

	statics, err := activationFactory[winrt.IRandomAccessStreamReferenceStatics](streamRefClassName, &winrt.IID_IRandomAccessStreamReferenceStatics)
	if err != nil {
		return nil, err
	}
	defer statics.Release()

	ref := statics.CreateFromFile(storageFile)
	if ref == nil {
		return nil, errors.New("cannot create stream for storage file")
	}
	return ref, nil
}
