package nvcodec

import "fmt"

// CudaResult is a CUresult returned by the CUDA driver and NVDEC.
type CudaResult int32

// Values from cuda.h.
const (
	CudaSuccess                   CudaResult = 0
	CudaErrorInvalidValue         CudaResult = 1
	CudaErrorOutOfMemory          CudaResult = 2
	CudaErrorNotInitialized       CudaResult = 3
	CudaErrorDeinitialized        CudaResult = 4
	CudaErrorNoDevice             CudaResult = 100
	CudaErrorInvalidDevice        CudaResult = 101
	CudaErrorInvalidImage         CudaResult = 200
	CudaErrorInvalidContext       CudaResult = 201
	CudaErrorContextAlreadyInUse  CudaResult = 216
	CudaErrorInvalidHandle        CudaResult = 400
	CudaErrorNotFound             CudaResult = 500
	CudaErrorNotReady             CudaResult = 600
	CudaErrorIllegalAddress       CudaResult = 700
	CudaErrorContextIsDestroyed   CudaResult = 709
	CudaErrorLaunchFailed         CudaResult = 719
	CudaErrorNotSupported         CudaResult = 801
	CudaErrorSystemNotReady       CudaResult = 802
	CudaErrorSystemDriverMismatch CudaResult = 803
	CudaErrorUnknown              CudaResult = 999
)

var cudaResultNames = map[CudaResult]string{
	CudaSuccess:                   "CUDA_SUCCESS",
	CudaErrorInvalidValue:         "CUDA_ERROR_INVALID_VALUE",
	CudaErrorOutOfMemory:          "CUDA_ERROR_OUT_OF_MEMORY",
	CudaErrorNotInitialized:       "CUDA_ERROR_NOT_INITIALIZED",
	CudaErrorDeinitialized:        "CUDA_ERROR_DEINITIALIZED",
	CudaErrorNoDevice:             "CUDA_ERROR_NO_DEVICE",
	CudaErrorInvalidDevice:        "CUDA_ERROR_INVALID_DEVICE",
	CudaErrorInvalidImage:         "CUDA_ERROR_INVALID_IMAGE",
	CudaErrorInvalidContext:       "CUDA_ERROR_INVALID_CONTEXT",
	CudaErrorContextAlreadyInUse:  "CUDA_ERROR_CONTEXT_ALREADY_IN_USE",
	CudaErrorInvalidHandle:        "CUDA_ERROR_INVALID_HANDLE",
	CudaErrorNotFound:             "CUDA_ERROR_NOT_FOUND",
	CudaErrorNotReady:             "CUDA_ERROR_NOT_READY",
	CudaErrorIllegalAddress:       "CUDA_ERROR_ILLEGAL_ADDRESS",
	CudaErrorContextIsDestroyed:   "CUDA_ERROR_CONTEXT_IS_DESTROYED",
	CudaErrorLaunchFailed:         "CUDA_ERROR_LAUNCH_FAILED",
	CudaErrorNotSupported:         "CUDA_ERROR_NOT_SUPPORTED",
	CudaErrorSystemNotReady:       "CUDA_ERROR_SYSTEM_NOT_READY",
	CudaErrorSystemDriverMismatch: "CUDA_ERROR_SYSTEM_DRIVER_MISMATCH",
	CudaErrorUnknown:              "CUDA_ERROR_UNKNOWN",
}

// Ok reports whether r is CUDA_SUCCESS.
func (r CudaResult) Ok() bool { return r == CudaSuccess }

func (r CudaResult) String() string {
	if name, ok := cudaResultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("CUresult(%d)", int32(r))
}

func (r CudaResult) Error() string { return "cuda: " + r.String() }
